// Package cart holds the reconciliation engine: it owns the item collection
// for one cart scope and keeps the session tier and the durable tier
// coherent across anonymous and authenticated states.
//
// Dual-tier rule: the session write is the correctness guarantee for the
// current request, the durable record is authoritative across sessions. On
// identity collision during load the durable entry wins. There is no
// transaction spanning both tiers; a durable write failure after a committed
// session write is an accepted inconsistency window resolved by the next
// mutation's overwrite.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rariteth/go-cart/internal/config"
	"github.com/rariteth/go-cart/internal/domain"
	"github.com/rariteth/go-cart/internal/events"
	"github.com/rariteth/go-cart/internal/identity"
	"github.com/rariteth/go-cart/internal/repository"
	"github.com/rariteth/go-cart/internal/session"
)

// BuyableResolver re-resolves a buyable by its identifier during refresh.
// Consumers define this interface; internal/catalog satisfies it.
type BuyableResolver interface {
	Buyable(ctx context.Context, id int64) (domain.Buyable, error)
}

// Engine is bound to one cart scope and assumes a single mutation stream per
// instance: no internal locking, construct one engine per request.
type Engine struct {
	scope    domain.Scope
	cfg      config.Config
	sessions session.Store
	repo     repository.CartRepository
	identity identity.Resolver
	catalog  BuyableResolver
	sink     events.Sink

	// nil until the first access; loaded once per engine instance.
	items domain.Collection
}

func NewEngine(
	scope domain.Scope,
	cfg config.Config,
	sessions session.Store,
	repo repository.CartRepository,
	resolver identity.Resolver,
	catalog BuyableResolver,
	sink events.Sink,
) *Engine {
	return &Engine{
		scope:    scope,
		cfg:      cfg,
		sessions: sessions,
		repo:     repo,
		identity: resolver,
		catalog:  catalog,
		sink:     sink,
	}
}

// Scope returns the cart scope the engine is bound to.
func (e *Engine) Scope() domain.Scope {
	return e.scope
}

// Instance returns a new engine bound to another cart scope, sharing the
// stores but with its own collection. The receiver is never mutated.
func (e *Engine) Instance(scope domain.Scope) *Engine {
	return NewEngine(scope, e.cfg, e.sessions, e.repo, e.identity, e.catalog, e.sink)
}

// Items returns the merged cart collection, loading it on first access:
// session tier first, then the durable record merged on top when a principal
// is resolvable and durable storage is enabled.
func (e *Engine) Items(ctx context.Context) (domain.Collection, error) {
	if e.items != nil {
		return e.items, nil
	}

	items, err := e.sessions.Get(ctx, e.sessionKey())
	if errors.Is(err, session.ErrNotFound) {
		items = domain.Collection{}
	} else if err != nil {
		return nil, err
	}

	if id, ok := e.principal(ctx); ok && e.cfg.StoreInDatabase {
		stored, err := e.repo.Get(ctx, e.repoKey(id))
		if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		items.Merge(stored)
	}

	e.items = items
	return e.items, nil
}

// Get returns the item with the given row identity, ErrUnknownRowID when the
// cart holds no such row.
func (e *Engine) Get(ctx context.Context, rowID string) (*domain.Item, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := items.Get(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRowID, rowID)
	}
	return item, nil
}

// Add puts the buyable into the cart. When a row with the same identity
// already exists its quantity is accumulated into the new item. The item is
// marked authorized when a principal is resolvable right now. A quantity
// below one is refused; rows never persist with a non-positive quantity.
func (e *Engine) Add(ctx context.Context, buyable domain.Buyable, opts domain.Options, qty int) (*domain.Item, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}

	items, err := e.Items(ctx)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewItem(buyable, opts, e.cfg.AllowZeroPrice)
	if err != nil {
		return nil, err
	}

	_, item.Authorized = e.principal(ctx)

	if existing, ok := items.Get(item.RowID); ok {
		qty += existing.Qty
	}
	item.Qty = qty
	items.Put(item)

	if err := e.storeItems(ctx, items); err != nil {
		return nil, err
	}

	e.emit(ctx, events.CartAdded, item)
	return item, nil
}

// AddBatch adds each buyable with quantity 1 and no options, returning the
// resulting items in input order.
func (e *Engine) AddBatch(ctx context.Context, buyables []domain.Buyable) ([]*domain.Item, error) {
	added := make([]*domain.Item, 0, len(buyables))
	for _, buyable := range buyables {
		item, err := e.Add(ctx, buyable, domain.Options{}, 1)
		if err != nil {
			return added, err
		}
		added = append(added, item)
	}
	return added, nil
}

// Update overwrites the collection entry for the item's identity. A quantity
// of zero or less removes the row instead.
func (e *Engine) Update(ctx context.Context, item *domain.Item) error {
	if item.Qty <= 0 {
		return e.Remove(ctx, item)
	}

	items, err := e.Items(ctx)
	if err != nil {
		return err
	}
	items.Put(item)

	if err := e.storeItems(ctx, items); err != nil {
		return err
	}

	e.emit(ctx, events.CartUpdated, item)
	return nil
}

// Remove deletes the item's row from the cart.
func (e *Engine) Remove(ctx context.Context, item *domain.Item) error {
	items, err := e.Items(ctx)
	if err != nil {
		return err
	}
	items.Forget(item.RowID)

	if err := e.storeItems(ctx, items); err != nil {
		return err
	}

	e.emit(ctx, events.CartRemoved, item)
	return nil
}

// RemoveBatch deletes the given rows and emits one batch event. A no-op for
// an empty batch.
func (e *Engine) RemoveBatch(ctx context.Context, batch []*domain.Item) error {
	if len(batch) == 0 {
		return nil
	}

	items, err := e.Items(ctx)
	if err != nil {
		return err
	}
	for _, item := range batch {
		items.Forget(item.RowID)
	}

	if err := e.storeItems(ctx, items); err != nil {
		return err
	}

	e.emit(ctx, events.CartRemovedBatch, batch...)
	return nil
}

// Refresh re-pulls the authorization flag and the name/price snapshot of
// each given item from the catalog, merges the results into the cart and
// emits one batch event. A no-op for an empty batch.
func (e *Engine) Refresh(ctx context.Context, batch []*domain.Item) error {
	if len(batch) == 0 {
		return nil
	}

	items, err := e.Items(ctx)
	if err != nil {
		return err
	}

	_, authorized := e.principal(ctx)
	for _, item := range batch {
		buyable, err := e.catalog.Buyable(ctx, item.Identifier)
		if err != nil {
			return fmt.Errorf("refresh row %s: %w", item.RowID, err)
		}
		item.Authorized = authorized
		items.Put(item.Update(buyable))
	}

	if err := e.storeItems(ctx, items); err != nil {
		return err
	}

	e.emit(ctx, events.CartRefreshed, batch...)
	return nil
}

// Clear empties both tiers for the bound scope. The in-memory collection
// need not be loaded first.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.sessions.Forget(ctx, e.sessionKey()); err != nil {
		return err
	}

	if id, ok := e.principal(ctx); ok && e.cfg.StoreInDatabase {
		err := e.repo.Delete(ctx, e.repoKey(id))
		if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return err
		}
	}

	e.items = domain.Collection{}
	e.emit(ctx, events.CartCleared)
	return nil
}

// Destroy wipes the session-tier cart only, leaving any durable record for a
// later restore. Used on logout.
func (e *Engine) Destroy(ctx context.Context) error {
	if err := e.sessions.Forget(ctx, e.sessionKey()); err != nil {
		return err
	}
	e.items = domain.Collection{}
	return nil
}

// Store snapshots the current collection into the durable tier under the
// given identifier using the unconditional-insert path: a record already
// stored under the key fails with repository.ErrAlreadyStored.
func (e *Engine) Store(ctx context.Context, identifier int64) error {
	items, err := e.Items(ctx)
	if err != nil {
		return err
	}

	if err := e.repo.Insert(ctx, e.repoKey(identifier), items); err != nil {
		return err
	}

	e.emit(ctx, events.CartStored)
	return nil
}

// Restore merges the durable record for the identifier into the session
// cart, stored entries winning on identity collision, then deletes the
// record. A silent no-op when nothing is stored.
func (e *Engine) Restore(ctx context.Context, identifier int64) error {
	key := e.repoKey(identifier)

	stored, err := e.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	items, err := e.Items(ctx)
	if err != nil {
		return err
	}
	items.Merge(stored)

	if err := e.sessions.Put(ctx, e.sessionKey(), items); err != nil {
		return err
	}
	e.items = items

	if err := e.repo.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return err
	}

	e.emit(ctx, events.CartRestored)
	return nil
}

// GuestItems returns the items added while no principal was resolvable.
func (e *Engine) GuestItems(ctx context.Context) (domain.Collection, error) {
	return e.filter(ctx, func(item *domain.Item) bool { return !item.Authorized })
}

// AuthorizedItems returns the items added or refreshed while authenticated.
func (e *Engine) AuthorizedItems(ctx context.Context) (domain.Collection, error) {
	return e.filter(ctx, func(item *domain.Item) bool { return item.Authorized })
}

// Search returns the items matching the predicate. No mutation.
func (e *Engine) Search(ctx context.Context, pred func(*domain.Item) bool) (domain.Collection, error) {
	return e.filter(ctx, pred)
}

// HasItem reports whether the cart holds a row with the item's identity.
func (e *Engine) HasItem(ctx context.Context, item *domain.Item) (bool, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return false, err
	}
	_, ok := items.Get(item.RowID)
	return ok, nil
}

// Total sums quantity times unit price over the cart.
func (e *Engine) Total(ctx context.Context) (float64, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return 0, err
	}
	return items.Total(), nil
}

// Count sums the quantities of all items.
func (e *Engine) Count(ctx context.Context) (int, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return 0, err
	}
	return items.Count(), nil
}

// IsEmpty reports whether the cart has no rows.
func (e *Engine) IsEmpty(ctx context.Context) (bool, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return false, err
	}
	return items.IsEmpty(), nil
}

func (e *Engine) filter(ctx context.Context, pred func(*domain.Item) bool) (domain.Collection, error) {
	items, err := e.Items(ctx)
	if err != nil {
		return nil, err
	}
	return items.Filter(pred), nil
}

// storeItems writes the full collection to the session tier, then to the
// durable tier when a principal is resolvable and durable storage is
// enabled. A durable failure propagates with the session write already
// committed; the next mutation's overwrite closes the window.
func (e *Engine) storeItems(ctx context.Context, items domain.Collection) error {
	if err := e.sessions.Put(ctx, e.sessionKey(), items); err != nil {
		return err
	}

	if id, ok := e.principal(ctx); ok && e.cfg.StoreInDatabase {
		if err := e.repo.Upsert(ctx, e.repoKey(id), items); err != nil {
			return err
		}
	}

	e.items = items
	return nil
}

// emit publishes a lifecycle event after the tiers are written. Best-effort:
// a publish failure is logged, never returned.
func (e *Engine) emit(ctx context.Context, name string, items ...*domain.Item) {
	if err := e.sink.Publish(ctx, events.New(name, e.scope, items...)); err != nil {
		log.Printf("failed to publish %s event: %v", name, err)
	}
}

func (e *Engine) principal(ctx context.Context) (int64, bool) {
	return e.identity.Resolve(ctx, e.scope.Guard())
}

func (e *Engine) sessionKey() string {
	return fmt.Sprintf("%s.%s", e.cfg.SessionRootKey, e.scope.Instance())
}

func (e *Engine) repoKey(identifier int64) repository.Key {
	return repository.Key{
		Identifier: identifier,
		Instance:   e.scope.Instance(),
		Guard:      e.scope.Guard(),
	}
}
