package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rariteth/go-cart/internal/domain"
)

// ErrNotFound is returned when the session tier has no entry for a key.
var ErrNotFound = errors.New("session entry not found")

// Store is the ephemeral session tier: a key-value store holding the cart
// collection for the lifetime of one browser session.
type Store interface {
	Get(ctx context.Context, key string) (domain.Collection, error)
	Put(ctx context.Context, key string, items domain.Collection) error
	Forget(ctx context.Context, key string) error
}

// Scoped wraps a store so every key is prefixed with a session identifier,
// isolating carts of different browser sessions inside one backing store.
func Scoped(store Store, sessionID string) Store {
	return &scopedStore{store: store, sessionID: sessionID}
}

type scopedStore struct {
	store     Store
	sessionID string
}

func (s *scopedStore) Get(ctx context.Context, key string) (domain.Collection, error) {
	return s.store.Get(ctx, s.key(key))
}

func (s *scopedStore) Put(ctx context.Context, key string, items domain.Collection) error {
	return s.store.Put(ctx, s.key(key), items)
}

func (s *scopedStore) Forget(ctx context.Context, key string) error {
	return s.store.Forget(ctx, s.key(key))
}

func (s *scopedStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.sessionID, key)
}
