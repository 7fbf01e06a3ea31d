package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

// FilteredViewInput narrows a viewer's committed tree without storing the term.
type FilteredViewInput struct {
	Viewer dashboard.ViewerContext
	Term   string
}

type filterService interface {
	FilteredView(ctx context.Context, viewer dashboard.ViewerContext, term string) (dashboard.Tree, error)
}

// FilteredViewQuery returns the committed tree filtered by a search term.
type FilteredViewQuery struct {
	service filterService
}

// NewFilteredViewQuery builds the query.
func NewFilteredViewQuery(service filterService) *FilteredViewQuery {
	return &FilteredViewQuery{service: service}
}

var _ gocommand.Querier[FilteredViewInput, dashboard.Tree] = (*FilteredViewQuery)(nil)

// Query filters the viewer's committed tree.
func (q *FilteredViewQuery) Query(ctx context.Context, input FilteredViewInput) (dashboard.Tree, error) {
	return q.service.FilteredView(ctx, input.Viewer, input.Term)
}
