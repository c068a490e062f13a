package domain

// Buyable is anything that can be put into a cart. Implementations resolve
// identifier, display name and unit price for a given option selection.
type Buyable interface {
	BuyableIdentifier(opts Options) int64
	BuyableName(opts Options) string
	BuyablePrice(opts Options) float64
}
