package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-widgetboard/components/dashboard"
	"github.com/goliatone/go-widgetboard/components/dashboard/commands"
	"github.com/goliatone/go-widgetboard/components/dashboard/httpapi"
	"github.com/goliatone/go-widgetboard/components/dashboard/queries"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, API and broadcast hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	State     string
	Tree      string
	Overview  string
	Widgets   string
	WidgetID  string
	Search    string
	Dialog    string
	Panel     string
	Toggle    string
	Apply     string
	Cancel    string
	Reset     string
	Refresh   string
	WebSocket string
}

// routeRegistrar is the subset of router.Router used to mount routes.
type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// request carries what a handler reads from a router.Context.
type request struct {
	ctx    context.Context
	body   []byte
	viewer dashboard.ViewerContext
	param  func(string) string
	query  func(string) string
}

type response struct {
	status int
	html   []byte
	body   any
}

type handler func(request) (response, error)

type route struct {
	method string
	path   string
	handle handler
}

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}
	mount(cfg.Router.Group(base), cfg.Controller, cfg.API, cfg.Broadcast, resolver, defaultRouteConfig(cfg.Routes))
	return nil
}

func mount(r routeRegistrar, controller *dashboard.Controller, api httpapi.Executor, hook *dashboard.BroadcastHook, resolver ViewerResolver, routes RouteConfig) {
	for _, rt := range buildRoutes(controller, api, routes) {
		h := wrap(rt.handle, resolver)
		switch rt.method {
		case http.MethodGet:
			r.Get(rt.path, h)
		case http.MethodPost:
			r.Post(rt.path, h)
		case http.MethodDelete:
			r.Delete(rt.path, h)
		}
	}
	if hook != nil {
		registerWebSocket(r, hook, routes.WebSocket, resolver)
	}
}

func buildRoutes(controller *dashboard.Controller, api httpapi.Executor, routes RouteConfig) []route {
	out := []route{
		{http.MethodGet, routes.HTML, htmlHandler(controller)},
		{http.MethodGet, routes.Overview, overviewHandler(controller)},
	}
	if api == nil {
		return out
	}
	return append(out,
		route{http.MethodGet, routes.State, stateHandler(api)},
		route{http.MethodGet, routes.Tree, treeHandler(api)},
		route{http.MethodPost, routes.Widgets, addHandler(api)},
		route{http.MethodDelete, routes.WidgetID, removeHandler(api)},
		route{http.MethodPost, routes.Search, searchHandler(api)},
		route{http.MethodPost, routes.Dialog, dialogHandler(api)},
		route{http.MethodPost, routes.Panel, panelHandler(api, "")},
		route{http.MethodPost, routes.Toggle, toggleHandler(api)},
		route{http.MethodPost, routes.Apply, panelHandler(api, commands.PanelApply)},
		route{http.MethodPost, routes.Cancel, panelHandler(api, commands.PanelCancel)},
		route{http.MethodPost, routes.Reset, resetHandler(api)},
		route{http.MethodPost, routes.Refresh, refreshHandler(api)},
	)
}

func wrap(h handler, resolver ViewerResolver) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		res, err := h(request{
			ctx:    ctx.Context(),
			body:   ctx.Body(),
			viewer: resolver(ctx),
			param:  func(name string) string { return ctx.Param(name) },
			query:  func(name string) string { return ctx.Query(name) },
		})
		if err != nil {
			return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
		}
		if res.html != nil {
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(res.html)
		}
		return ctx.JSON(res.status, res.body)
	})
}

func htmlHandler(controller *dashboard.Controller) handler {
	return func(req request) (response, error) {
		var buf bytes.Buffer
		if err := controller.RenderTemplate(req.ctx, req.viewer, &buf); err != nil {
			return response{}, err
		}
		return response{status: http.StatusOK, html: buf.Bytes()}, nil
	}
}

func overviewHandler(controller *dashboard.Controller) handler {
	return func(req request) (response, error) {
		html, err := controller.Overview(req.ctx, req.viewer)
		if err != nil {
			return response{}, err
		}
		return response{status: http.StatusOK, html: []byte(html)}, nil
	}
}

func stateHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		return viewResponse(req, api, http.StatusOK)
	}
}

func treeHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		tree, err := api.FilteredView(req.ctx, queries.FilteredViewInput{Viewer: req.viewer, Term: req.query("term")})
		if err != nil {
			return response{}, err
		}
		return response{status: http.StatusOK, body: tree}, nil
	}
}

func addHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		var payload commands.AddWidgetInput
		if err := decode(req.body, &payload); err != nil {
			return response{}, err
		}
		payload.Viewer = req.viewer
		payload.Actor = httpapi.ActorFor(req.viewer)
		if err := api.AddWidget(req.ctx, payload); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusCreated)
	}
}

func removeHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		input := commands.RemoveWidgetInput{
			Viewer:   req.viewer,
			Category: req.param("category"),
			WidgetID: req.param("id"),
			Actor:    httpapi.ActorFor(req.viewer),
		}
		if input.WidgetID == "" {
			return response{}, httpapi.BadInput(errors.New("widget id is required"), "gorouter: remove widget")
		}
		if err := api.RemoveWidget(req.ctx, input); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

func searchHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		var payload commands.SetSearchInput
		if err := decode(req.body, &payload); err != nil {
			return response{}, err
		}
		payload.Viewer = req.viewer
		if err := api.Search(req.ctx, payload); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

func dialogHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		var payload commands.DialogInput
		if err := decode(req.body, &payload); err != nil {
			return response{}, err
		}
		payload.Viewer = req.viewer
		payload.Actor = httpapi.ActorFor(req.viewer)
		if err := api.Dialog(req.ctx, payload); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

// panelHandler reads the action from the body unless one is bound.
func panelHandler(api httpapi.Executor, action string) handler {
	return func(req request) (response, error) {
		payload := commands.PanelInput{Action: action}
		if action == "" {
			if err := decode(req.body, &payload); err != nil {
				return response{}, err
			}
		}
		payload.Viewer = req.viewer
		payload.Actor = httpapi.ActorFor(req.viewer)
		if err := api.Panel(req.ctx, payload); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

func toggleHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		var payload commands.ToggleWidgetInput
		if err := decode(req.body, &payload); err != nil {
			return response{}, err
		}
		payload.Viewer = req.viewer
		if err := api.ToggleWidget(req.ctx, payload); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

func resetHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		input := commands.ResetDashboardInput{Viewer: req.viewer, Actor: httpapi.ActorFor(req.viewer)}
		if err := api.Reset(req.ctx, input); err != nil {
			return response{}, err
		}
		return viewResponse(req, api, http.StatusOK)
	}
}

func refreshHandler(api httpapi.Executor) handler {
	return func(req request) (response, error) {
		var payload commands.RefreshWidgetInput
		if err := decode(req.body, &payload); err != nil {
			return response{}, err
		}
		payload.Viewer = req.viewer
		if err := api.Refresh(req.ctx, payload); err != nil {
			return response{}, err
		}
		return response{status: http.StatusAccepted, body: map[string]string{"status": "queued"}}, nil
	}
}

func viewResponse(req request, api httpapi.Executor, status int) (response, error) {
	view, err := api.View(req.ctx, req.viewer)
	if err != nil {
		return response{}, err
	}
	return response{status: status, body: view}, nil
}

func decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return httpapi.BadInput(err, "gorouter: decode body")
	}
	return nil
}

// registerWebSocket streams the events of the connecting viewer's session.
func registerWebSocket(r routeRegistrar, hook *dashboard.BroadcastHook, path string, resolver ViewerResolver) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.SubscribeSession(socketSession(ws, resolver))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// socketSession resolves the session of a websocket connection. Contexts that
// do not expose request data fall back to the default session.
func socketSession(ws any, resolver ViewerResolver) string {
	if ctx, ok := ws.(router.Context); ok && resolver != nil {
		return resolver(ctx).SessionKey()
	}
	return dashboard.ViewerContext{}.SessionKey()
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	viewer := viewerFromLocals(ctx.Locals)
	if session := strings.TrimSpace(ctx.Query("session")); session != "" {
		viewer.SessionID = session
	}
	if viewer.Locale == "" {
		viewer.Locale = httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
	}
	return viewer
}

// viewerFromLocals reads the identity set by upstream auth middleware.
func viewerFromLocals(locals func(key any, value ...any) any) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if v, ok := locals("session_id").(string); ok {
		viewer.SessionID = v
	}
	if roles, ok := locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	if locale, ok := locals("locale").(string); ok {
		viewer.Locale = locale
	}
	return viewer
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&routes.HTML, "/dashboard")
	set(&routes.State, "/dashboard/_state")
	set(&routes.Tree, "/dashboard/_tree")
	set(&routes.Overview, "/dashboard/overview")
	set(&routes.Widgets, "/dashboard/widgets")
	set(&routes.WidgetID, "/dashboard/widgets/:category/:id")
	set(&routes.Search, "/dashboard/search")
	set(&routes.Dialog, "/dashboard/dialog")
	set(&routes.Panel, "/dashboard/panel")
	set(&routes.Toggle, "/dashboard/panel/toggle")
	set(&routes.Apply, "/dashboard/panel/apply")
	set(&routes.Cancel, "/dashboard/panel/cancel")
	set(&routes.Reset, "/dashboard/reset")
	set(&routes.Refresh, "/dashboard/refresh")
	set(&routes.WebSocket, "/dashboard/ws")
	return routes
}
