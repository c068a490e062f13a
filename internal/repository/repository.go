package repository

import (
	"context"
	"errors"

	"github.com/rariteth/go-cart/internal/domain"
)

var (
	ErrCartNotFound  = errors.New("stored cart not found")
	ErrAlreadyStored = errors.New("cart already stored for identifier")
)

// Key addresses a durable cart record. The triple is unique: one record per
// principal, cart instance and auth guard.
type Key struct {
	Identifier int64
	Instance   string
	Guard      string
}

// CartRepository is the durable tier holding per-principal cart snapshots
// that survive across sessions.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	// Get loads the stored collection, ErrCartNotFound when absent.
	Get(ctx context.Context, key Key) (domain.Collection, error)

	// Upsert writes the full collection, creating or replacing the record.
	Upsert(ctx context.Context, key Key, items domain.Collection) error

	// Insert creates the record and fails with ErrAlreadyStored when the
	// key already holds one.
	Insert(ctx context.Context, key Key, items domain.Collection) error

	// Delete removes the record, ErrCartNotFound when absent.
	Delete(ctx context.Context, key Key) error

	// Exists reports whether a record is stored under the key.
	Exists(ctx context.Context, key Key) (bool, error)
}
