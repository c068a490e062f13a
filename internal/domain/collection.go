package domain

// Collection maps row identity to cart item. At most one item per identity;
// totals and counts are folds over the map.
type Collection map[string]*Item

// Put writes the item under its row identity.
func (c Collection) Put(item *Item) {
	c[item.RowID] = item
}

// Get returns the item with the given row identity.
func (c Collection) Get(rowID string) (*Item, bool) {
	item, ok := c[rowID]
	return item, ok
}

// Forget removes the item with the given row identity.
func (c Collection) Forget(rowID string) {
	delete(c, rowID)
}

// Merge writes every item of other into the collection. Entries of other win
// on identity collision. Returns the receiver.
func (c Collection) Merge(other Collection) Collection {
	for _, item := range other {
		c[item.RowID] = item
	}
	return c
}

// Filter returns the subset of items matching the predicate.
func (c Collection) Filter(pred func(*Item) bool) Collection {
	out := Collection{}
	for _, item := range c {
		if pred(item) {
			out[item.RowID] = item
		}
	}
	return out
}

// Items returns the collection entries as a slice.
func (c Collection) Items() []*Item {
	out := make([]*Item, 0, len(c))
	for _, item := range c {
		out = append(out, item)
	}
	return out
}

// Total sums quantity times unit price over all items.
func (c Collection) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.Total()
	}
	return total
}

// Count sums the quantities of all items.
func (c Collection) Count() int {
	var count int
	for _, item := range c {
		count += item.Qty
	}
	return count
}

// IsEmpty reports whether the collection has no entries.
func (c Collection) IsEmpty() bool {
	return len(c) == 0
}
