package cart

import (
	"strconv"
	"strings"

	"github.com/rariteth/go-cart/internal/config"
)

// FormatAmount renders a cart total with the configured decimal precision,
// decimal point and thousand separator, e.g. 1234567.891 -> "1,234,567.89".
func FormatAmount(value float64, format config.Format) string {
	fixed := strconv.FormatFloat(value, 'f', format.Decimals, 64)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(format.ThousandSeparator)
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteString(format.DecimalPoint)
		b.WriteString(fracPart)
	}
	return b.String()
}
