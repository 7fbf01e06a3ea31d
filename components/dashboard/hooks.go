package dashboard

import (
	"context"
	"errors"
)

// RefreshHookFunc adapts a function to RefreshHook.
type RefreshHookFunc func(ctx context.Context, event WidgetEvent) error

// WidgetUpdated calls f.
func (f RefreshHookFunc) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	return f(ctx, event)
}

// RefreshHooks fans an event out to several hooks. Every hook runs; failures are joined.
type RefreshHooks []RefreshHook

// WidgetUpdated forwards the event to each non-nil hook in order.
func (h RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
