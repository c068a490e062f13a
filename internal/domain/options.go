package domain

import (
	"encoding/json"
	"sort"
)

// Option is a single named selection attribute of a cart item, e.g. size=XL.
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Options is an order-insensitive bag of selection attributes. Insertion
// order is kept for display, but row identity is always computed from the
// key-sorted canonical form, so two bags with the same attributes in a
// different order are the same item.
type Options struct {
	entries []Option
}

// NewOptions builds an Options bag from the given entries, keeping their
// order. A repeated key overwrites the earlier value in place.
func NewOptions(entries ...Option) Options {
	out := make([]Option, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := seen[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		seen[e.Key] = len(out)
		out = append(out, e)
	}
	return Options{entries: out}
}

// OptionsFromMap builds an Options bag from a plain map. Keys are sorted so
// the display order is deterministic regardless of map iteration order.
func OptionsFromMap(m map[string]string) Options {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Option, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Option{Key: k, Value: m[k]})
	}
	return Options{entries: entries}
}

// Get returns the value for the given attribute key.
func (o Options) Get(key string) (string, bool) {
	for _, e := range o.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of attributes.
func (o Options) Len() int {
	return len(o.entries)
}

// Entries returns a copy of the attributes in insertion order.
func (o Options) Entries() []Option {
	out := make([]Option, len(o.entries))
	copy(out, o.entries)
	return out
}

// Map exports the attributes as a plain map for display and serialization.
func (o Options) Map() map[string]string {
	out := make(map[string]string, len(o.entries))
	for _, e := range o.entries {
		out[e.Key] = e.Value
	}
	return out
}

// Canonical returns the key-sorted JSON form used for identity hashing.
// An empty bag canonicalizes to "[]".
func (o Options) Canonical() string {
	sorted := make([]Option, len(o.entries))
	copy(sorted, o.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	b, _ := json.Marshal(sorted)
	return string(b)
}

// MarshalJSON serializes the attributes as an array, preserving insertion
// order across the session and durable tiers.
func (o Options) MarshalJSON() ([]byte, error) {
	entries := o.entries
	if entries == nil {
		entries = []Option{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON restores an Options bag serialized by MarshalJSON.
func (o *Options) UnmarshalJSON(data []byte) error {
	var entries []Option
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*o = NewOptions(entries...)
	return nil
}
