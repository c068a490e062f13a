package domain

// Well-known defaults for the cart scope.
const (
	DefaultInstance = "default"
	DefaultGuard    = "web"
)

// Scope identifies which cart an engine is bound to: an instance name
// (multiple independent carts per principal, e.g. "default", "wishlist")
// and the auth guard that owns it. Immutable value object.
type Scope struct {
	instance string
	guard    string
}

// NewScope validates and builds a cart scope. Blank parts are rejected.
func NewScope(instance, guard string) (Scope, error) {
	if instance == "" {
		return Scope{}, ErrBlankInstance
	}
	if guard == "" {
		return Scope{}, ErrBlankGuard
	}
	return Scope{instance: instance, guard: guard}, nil
}

// DefaultScope returns the "default" instance under the "web" guard.
func DefaultScope() Scope {
	return Scope{instance: DefaultInstance, guard: DefaultGuard}
}

func (s Scope) Instance() string { return s.instance }

func (s Scope) Guard() string { return s.guard }
