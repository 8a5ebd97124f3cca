package tally

import "context"

type callerKey struct{}

// WithCaller records the verified caller identity on the context. Verification
// is the transport's problem; by the time a command handler runs the identity
// is taken at face value.
func WithCaller(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

func CallerFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(callerKey{}).(Identity)
	if !ok || id.IsZero() {
		return Anonymous, false
	}

	return id, true
}
