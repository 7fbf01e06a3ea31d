package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-widgetboard/components/dashboard"
)

type stubViewService struct {
	calls int
}

func (s *stubViewService) View(context.Context, dashboard.ViewerContext) (dashboard.View, error) {
	s.calls++
	return dashboard.View{WidgetCount: 6}, nil
}

type stubFilterService struct {
	term string
}

func (s *stubFilterService) FilteredView(_ context.Context, _ dashboard.ViewerContext, term string) (dashboard.Tree, error) {
	s.term = term
	return dashboard.Tree{}, nil
}

func TestViewQuery(t *testing.T) {
	service := &stubViewService{}
	query := NewViewQuery(service)
	view, err := query.Query(context.Background(), dashboard.ViewerContext{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 {
		t.Fatalf("expected 1 call, got %d", service.calls)
	}
	assert.Equal(t, 6, view.WidgetCount)
}

func TestFilteredViewQuery(t *testing.T) {
	service := &stubFilterService{}
	query := NewFilteredViewQuery(service)
	_, err := query.Query(context.Background(), FilteredViewInput{Term: "alerts"})
	require.NoError(t, err)
	assert.Equal(t, "alerts", service.term)
}

func TestFilteredViewQueryAgainstService(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	tree, err := NewFilteredViewQuery(service).Query(context.Background(), FilteredViewInput{Term: "image"})
	require.NoError(t, err)
	require.Len(t, tree.Categories, 3)
	assert.Empty(t, tree.Categories[0].Widgets)
	assert.Len(t, tree.Categories[2].Widgets, 2)

	view, err := NewViewQuery(service).Query(context.Background(), dashboard.ViewerContext{})
	require.NoError(t, err)
	assert.Equal(t, 6, view.WidgetCount)
}
