package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item is a single cart line: a quantity plus a name/price snapshot taken
// from a Buyable at add or refresh time. RowID is the deterministic identity
// of the line within a cart and never changes once set.
type Item struct {
	RowID      string    `json:"row_id"`
	Identifier int64     `json:"id"`
	Name       string    `json:"name"`
	Qty        int       `json:"qty"`
	Price      float64   `json:"price"`
	Options    Options   `json:"options"`
	Authorized bool      `json:"authorized"`
	AddedAt    time.Time `json:"added_at"`
}

// NewItem resolves the buyable against the given options and builds a cart
// item with quantity 1. Validation runs before anything is stored: the
// identifier must be positive, the name non-blank, and the price
// non-negative; a zero price is only accepted when allowZeroPrice is set.
func NewItem(buyable Buyable, opts Options, allowZeroPrice bool) (*Item, error) {
	identifier := buyable.BuyableIdentifier(opts)
	name := buyable.BuyableName(opts)
	price := buyable.BuyablePrice(opts)

	if identifier <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidIdentifier, identifier)
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if price < 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidPrice, price)
	}
	if price == 0 && !allowZeroPrice {
		return nil, ErrZeroPriceNotAllowed
	}

	return &Item{
		RowID:      RowID(identifier, opts),
		Identifier: identifier,
		Name:       name,
		Qty:        1,
		Price:      price,
		Options:    opts,
		AddedAt:    time.Now(),
	}, nil
}

// RowID derives the identity of a cart line from the buyable identifier and
// the canonical (key-sorted) option form. Two selections of the same buyable
// with the same attributes always share one row, whatever the option order.
func RowID(identifier int64, opts Options) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d%s", identifier, opts.Canonical())))
	return hex.EncodeToString(sum[:])
}

// Total is the line price: quantity times unit price.
func (i *Item) Total() float64 {
	return float64(i.Qty) * i.Price
}

// Update re-resolves the snapshot fields from the buyable using the item's
// own options. Quantity, row identity, authorization and the added timestamp
// are untouched. Returns the item for chaining.
func (i *Item) Update(buyable Buyable) *Item {
	i.Identifier = buyable.BuyableIdentifier(i.Options)
	i.Name = buyable.BuyableName(i.Options)
	i.Price = buyable.BuyablePrice(i.Options)
	return i
}

// MarshalJSON adds the computed line total to the serialized form.
func (i *Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		*alias
		Total float64 `json:"total"`
	}{(*alias)(i), i.Total()})
}

// UnmarshalJSON restores an item, ignoring the derived total field.
func (i *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	return json.Unmarshal(data, (*alias)(i))
}
