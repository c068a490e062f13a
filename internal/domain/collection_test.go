package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, id int64, name string, price float64, qty int) *Item {
	t.Helper()
	item, err := NewItem(testBuyable{id, name, price}, Options{}, false)
	require.NoError(t, err)
	item.Qty = qty
	return item
}

func TestCollection_Folds(t *testing.T) {
	c := Collection{}
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.Total())
	assert.Equal(t, 0, c.Count())

	c.Put(mustItem(t, 1, "Widget", 10.00, 2))
	c.Put(mustItem(t, 2, "Gadget", 5.50, 3))

	assert.False(t, c.IsEmpty())
	assert.Equal(t, 36.50, c.Total())
	assert.Equal(t, 5, c.Count())
}

func TestCollection_PutReplacesByIdentity(t *testing.T) {
	c := Collection{}
	c.Put(mustItem(t, 1, "Widget", 10.00, 2))
	c.Put(mustItem(t, 1, "Widget", 10.00, 7))

	require.Len(t, c, 1)
	assert.Equal(t, 7, c.Count())
}

func TestCollection_MergeOtherWins(t *testing.T) {
	c := Collection{}
	c.Put(mustItem(t, 1, "Widget", 10.00, 2))
	c.Put(mustItem(t, 2, "Gadget", 5.50, 1))

	other := Collection{}
	other.Put(mustItem(t, 1, "Widget", 10.00, 9))
	other.Put(mustItem(t, 3, "Sprocket", 2.00, 1))

	got := c.Merge(other)
	assert.Equal(t, c, got)
	require.Len(t, c, 3)

	item, ok := c.Get(RowID(1, Options{}))
	require.True(t, ok)
	assert.Equal(t, 9, item.Qty)
}

func TestCollection_Filter(t *testing.T) {
	c := Collection{}
	authorized := mustItem(t, 1, "Widget", 10.00, 1)
	authorized.Authorized = true
	c.Put(authorized)
	c.Put(mustItem(t, 2, "Gadget", 5.50, 1))

	guests := c.Filter(func(i *Item) bool { return !i.Authorized })
	require.Len(t, guests, 1)
	_, ok := guests.Get(RowID(2, Options{}))
	assert.True(t, ok)
}

func TestCollection_Forget(t *testing.T) {
	c := Collection{}
	item := mustItem(t, 1, "Widget", 10.00, 1)
	c.Put(item)

	c.Forget(item.RowID)
	assert.True(t, c.IsEmpty())
}
