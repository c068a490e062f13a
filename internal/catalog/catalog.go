package catalog

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/rariteth/go-cart/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry. It satisfies domain.Buyable with a flat unit
// price that ignores the option selection.
type Product struct {
	ID    int64   `json:"id" bson:"_id"`
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

func (p Product) BuyableIdentifier(domain.Options) int64 { return p.ID }

func (p Product) BuyableName(domain.Options) string { return p.Name }

func (p Product) BuyablePrice(domain.Options) float64 { return p.Price }

// Source resolves a product by identifier.
type Source interface {
	Product(ctx context.Context, id int64) (Product, error)
}

// Catalog resolves buyables for the cart engine. Concurrent lookups of the
// same product are collapsed into one source call.
type Catalog struct {
	source Source
	sfg    singleflight.Group
}

func New(source Source) *Catalog {
	return &Catalog{source: source}
}

func (c *Catalog) Buyable(ctx context.Context, id int64) (domain.Buyable, error) {
	v, err, _ := c.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return c.source.Product(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(Product), nil
}
