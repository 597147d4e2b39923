package cache

import "context"

type invalidationsContextKey struct{}

// WithInvalidations attaches extra key prefixes to ctx. A mutation executed
// under ctx invalidates them when it settles, in addition to its configured
// targets. Callers use this when they know a write's blast radius better
// than the mutation's wiring does, such as a resolution that should also
// refresh the case it was opened from.
func WithInvalidations(ctx context.Context, keys ...Key) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(keys) == 0 {
		return ctx
	}
	combined := append(invalidationsFromContext(ctx), keys...)
	return context.WithValue(ctx, invalidationsContextKey{}, combined)
}

func invalidationsFromContext(ctx context.Context) []Key {
	if ctx == nil {
		return nil
	}
	if keys, ok := ctx.Value(invalidationsContextKey{}).([]Key); ok {
		return append([]Key(nil), keys...)
	}
	return nil
}
