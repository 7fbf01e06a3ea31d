package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

type stubViewResolver struct {
	view View
	tree Tree
	err  error
}

func (s stubViewResolver) View(context.Context, ViewerContext) (View, error) {
	return s.view, s.err
}

func (s stubViewResolver) FilteredView(context.Context, ViewerContext, string) (Tree, error) {
	return s.tree, s.err
}

func TestControllerRenderTemplate(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  stubViewResolver{view: BuildView(NewSession(DefaultTree()))},
		Renderer: renderer,
		BasePath: "/admin/dashboard",
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{UserID: "user"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != "dashboard.html" {
		t.Fatalf("expected dashboard template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	assert.Equal(t, "/admin/dashboard", renderer.lastPayload["base_path"])
	view, ok := renderer.lastPayload["view"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 6, view["widget_count"])
	dialog := view["dialog"].(map[string]any)
	assert.Equal(t, "Add New Widget", dialog["title"])
}

func TestControllerRenderTemplateErrors(t *testing.T) {
	controller := NewController(ControllerOptions{Service: stubViewResolver{}})
	err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard)
	assert.ErrorIs(t, err, errMissingRenderer)

	boom := errors.New("boom")
	controller = NewController(ControllerOptions{Service: stubViewResolver{err: boom}, Renderer: &stubRenderer{}})
	err = controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard)
	assert.ErrorIs(t, err, boom)

	controller = NewController(ControllerOptions{Service: stubViewResolver{}, Renderer: &stubRenderer{err: boom}})
	err = controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard)
	assert.ErrorIs(t, err, boom)
}

func TestControllerOverview(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service: stubViewResolver{tree: DefaultTree()},
		Chart:   NewOverviewChart(WithChartCache(nil)),
	})
	html, err := controller.Overview(context.Background(), ViewerContext{})
	require.NoError(t, err)
	assert.Contains(t, html, "CSPM")
}

func TestControllerWithTemplateRenderer(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	service := NewService(Options{})
	require.NoError(t, service.OpenAddDialog(context.Background(), ViewerContext{}, "Registry Scan"))

	controller := NewController(ControllerOptions{Service: service, Renderer: renderer, BasePath: "/admin/dashboard"})
	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), ViewerContext{}, &buf))

	html := buf.String()
	assert.Contains(t, html, "CSPM Executive Dashboard")
	assert.Contains(t, html, "Image Security Issues")
	assert.Contains(t, html, "Add New Widget in RS")
	assert.Contains(t, html, "/admin/dashboard/widgets")
}

func TestControllerLocalizesShell(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:    stubViewResolver{},
		Renderer:   renderer,
		Titles:     map[string]string{"es": "Tablero"},
		Translator: catalogTranslator{"dashboard.reset": {"es": "Restablecer"}},
	})

	require.NoError(t, controller.RenderTemplate(context.Background(), ViewerContext{Locale: "es-AR"}, io.Discard))
	assert.Equal(t, "Tablero", renderer.lastPayload["title"])
	assert.Equal(t, "es-ar", renderer.lastPayload["locale"])
	labels := renderer.lastPayload["labels"].(map[string]string)
	assert.Equal(t, "Restablecer", labels["reset"])

	require.NoError(t, controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard))
	assert.Equal(t, "Dashboard", renderer.lastPayload["title"])
	assert.Equal(t, "en", renderer.lastPayload["locale"])
}
