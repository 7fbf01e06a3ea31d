package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

type viewService interface {
	View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error)
}

// ViewQuery executes read-only view resolution.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.View] = (*ViewQuery)(nil)

// Query resolves the render model for the viewer.
func (q *ViewQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error) {
	return q.service.View(ctx, viewer)
}
