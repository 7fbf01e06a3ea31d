package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const defaultTemplate = "dashboard.html"

// ViewResolver is the part of the Service the controller renders from.
type ViewResolver interface {
	View(ctx context.Context, viewer ViewerContext) (View, error)
	FilteredView(ctx context.Context, viewer ViewerContext, term string) (Tree, error)
}

// ControllerOptions configures the HTML controller.
type ControllerOptions struct {
	Service  ViewResolver
	Renderer Renderer
	Template string
	Chart    *OverviewChart
	BasePath string
	Title    string
	// Titles holds localized page titles keyed by locale.
	Titles     map[string]string
	Translator TranslationService
}

// Controller renders the dashboard shell and its overview chart.
type Controller struct {
	opts ControllerOptions
}

var errMissingRenderer = errors.New("dashboard: controller requires a renderer")

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.Chart == nil {
		opts.Chart = NewOverviewChart()
	}
	if opts.Title == "" {
		opts.Title = "Dashboard"
	}
	return &Controller{opts: opts}
}

// View returns the viewer's render model.
func (c *Controller) View(ctx context.Context, viewer ViewerContext) (View, error) {
	if c.opts.Service == nil {
		return View{}, nil
	}
	return c.opts.Service.View(ctx, viewer)
}

// RenderTemplate renders the dashboard shell into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	view, err := c.View(ctx, viewer)
	if err != nil {
		return err
	}
	payload, err := c.ViewPayload(view)
	if err != nil {
		return err
	}
	c.localize(ctx, viewer.Locale, payload)
	if _, err := c.opts.Renderer.Render(c.opts.Template, payload, out); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", c.opts.Template, err)
	}
	return nil
}

// ViewPayload converts the view into the template context. Keys follow the
// view's JSON names.
func (c *Controller) ViewPayload(view View) (map[string]any, error) {
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode view: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("dashboard: decode view: %w", err)
	}
	return map[string]any{
		"title":     c.opts.Title,
		"base_path": c.opts.BasePath,
		"view":      data,
	}, nil
}

func (c *Controller) localize(ctx context.Context, locale string, payload map[string]any) {
	payload["title"] = ResolveLocalizedValue(c.opts.Titles, locale, c.opts.Title)
	payload["labels"] = Labels(ctx, c.opts.Translator, locale)
	if locale = normalizeLocale(locale); locale == "" {
		locale = "en"
	}
	payload["locale"] = locale
}

// Overview renders the bar chart of the viewer's committed tree.
func (c *Controller) Overview(ctx context.Context, viewer ViewerContext) (string, error) {
	if c.opts.Service == nil {
		return c.opts.Chart.Render(Tree{})
	}
	tree, err := c.opts.Service.FilteredView(ctx, viewer, "")
	if err != nil {
		return "", err
	}
	return c.opts.Chart.Render(tree)
}
