package dashboard

import "context"

// ActivityContext identifies who triggered a dashboard change.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

// IsZero reports whether no identifier is set.
func (a ActivityContext) IsZero() bool {
	return a == ActivityContext{}
}

type activityKey int

const actorKey activityKey = iota

// ContextWithActivity attaches meta to ctx. A zero meta leaves ctx untouched.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, actorKey, meta)
}

// ActivityFromContext returns the actor attached to ctx, or the zero value.
func ActivityFromContext(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	meta, _ := ctx.Value(actorKey).(ActivityContext)
	return meta
}
