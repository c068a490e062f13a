package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rariteth/go-cart/internal/domain"
)

// Lifecycle event names emitted after successful cart mutations.
const (
	CartAdded        = "cart.added"
	CartUpdated      = "cart.updated"
	CartRemoved      = "cart.removed"
	CartRemovedBatch = "cart.removed_batch"
	CartRefreshed    = "cart.refreshed"
	CartCleared      = "cart.cleared"
	CartStored       = "cart.stored"
	CartRestored     = "cart.restored"
)

// Event is a cart lifecycle notification. Items carries the affected lines;
// empty for cleared/stored/restored.
type Event struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Instance   string         `json:"instance"`
	Guard      string         `json:"guard"`
	Items      []*domain.Item `json:"items,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// New stamps a lifecycle event for the given cart scope.
func New(name string, scope domain.Scope, items ...*domain.Item) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		Instance:   scope.Instance(),
		Guard:      scope.Guard(),
		Items:      items,
		OccurredAt: time.Now(),
	}
}

// Sink receives lifecycle events. Delivery is best-effort: the engine logs
// publish errors and moves on.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
