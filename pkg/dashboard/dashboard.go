// Package dashboard re-exports the widget dashboard for host applications.
package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	core "github.com/goliatone/go-widgetboard/components/dashboard"
	"github.com/goliatone/go-widgetboard/components/dashboard/httpapi"
)

type (
	// Service applies dashboard operations to viewer sessions.
	Service = core.Service
	Options = core.Options

	Tree     = core.Tree
	Category = core.Category
	Widget   = core.Widget
	View     = core.View

	// ViewerContext identifies the session an operation targets.
	ViewerContext = core.ViewerContext
)

// NewService builds a dashboard service.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// DefaultTree returns the starter dashboard.
func DefaultTree() Tree {
	return core.DefaultTree()
}

// NewHandler mounts the HTML shell and the JSON API of svc under
// basePath+"/dashboard" using the embedded templates. Viewers are read from
// request headers.
func NewHandler(svc *Service, basePath, title string) (http.Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("dashboard: handler requires a service")
	}
	if basePath == "" {
		basePath = "/admin"
	}
	renderer, err := core.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("dashboard: template renderer: %w", err)
	}
	controller := core.NewController(core.ControllerOptions{
		Service:  svc,
		Renderer: renderer,
		BasePath: strings.TrimRight(basePath, "/") + "/dashboard",
		Title:    title,
	})
	handlers := &httpapi.Handlers{
		API:        httpapi.NewCommandExecutor(svc, nil),
		Controller: controller,
	}
	return handlers.Mux(basePath), nil
}
