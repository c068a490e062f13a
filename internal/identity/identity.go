package identity

import "context"

// Resolver yields the numeric identifier of the current principal under a
// named guard, or false when the request is anonymous for that guard.
type Resolver interface {
	Resolve(ctx context.Context, guard string) (int64, bool)
}

type principalKey struct{ guard string }

// WithPrincipal records an authenticated principal for the guard in the
// request context. Set by the auth middleware.
func WithPrincipal(ctx context.Context, guard string, id int64) context.Context {
	return context.WithValue(ctx, principalKey{guard: guard}, id)
}

// ContextResolver reads the principal the auth middleware put into the
// request context.
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context, guard string) (int64, bool) {
	id, ok := ctx.Value(principalKey{guard: guard}).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// Static resolves principals from a fixed guard-to-identifier map. Used in
// tests and single-tenant wiring.
type Static map[string]int64

func (s Static) Resolve(_ context.Context, guard string) (int64, bool) {
	id, ok := s[guard]
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
