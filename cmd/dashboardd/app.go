package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-widgetboard/components/dashboard"
	"github.com/goliatone/go-widgetboard/components/dashboard/gorouter"
	"github.com/goliatone/go-widgetboard/components/dashboard/httpapi"
	"github.com/goliatone/go-widgetboard/components/dashboard/metrics"
	"github.com/goliatone/go-widgetboard/pkg/activity"
	"github.com/goliatone/go-widgetboard/pkg/activity/usersink"
)

const (
	defaultFiberMetricsAddr = ":9090"
	shutdownTimeout         = 5 * time.Second
)

type appConfig struct {
	Addr        string
	BasePath    string
	SeedPath    string
	Engine      string
	Title       string
	MetricsAddr string
	ChartTheme  string
	AssetsHost  string
	Activity    bool
	Templates   string
}

// app holds the wired dashboard components of one server process.
type app struct {
	cfg        appConfig
	logger     *log.Logger
	sessions   *dashboard.InMemorySessionStore
	service    *dashboard.Service
	controller *dashboard.Controller
	executor   *httpapi.CommandExecutor
	broadcast  *dashboard.BroadcastHook
	metrics    *metrics.Telemetry
}

func newLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	formatter := log.TextFormatter
	switch format {
	case "logfmt":
		formatter = log.LogfmtFormatter
	case "json":
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "dashboardd",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	}), nil
}

func newApp(cfg appConfig, logger *log.Logger) (*app, error) {
	seed := dashboard.DefaultTree()
	if cfg.SeedPath != "" {
		doc, err := dashboard.ReadSeed(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		seed = doc.Tree(nil)
		logger.Info("seed loaded", "path", cfg.SeedPath, "categories", len(seed.Categories), "widgets", seed.WidgetCount())
	}

	sessions := dashboard.NewInMemorySessionStore()
	prom := metrics.New(metrics.Options{Sessions: sessions.Len})
	telemetry := dashboard.MultiTelemetry{dashboard.NewLogTelemetry(logger), prom}
	broadcast := dashboard.NewBroadcastHook()

	opts := dashboard.Options{
		Sessions:    sessions,
		Seed:        seed,
		RefreshHook: dashboard.RefreshHooks{broadcast, logRefreshHook(logger)},
		Telemetry:   telemetry,
	}
	if cfg.Activity {
		opts.ActivityHooks = activity.Hooks{usersink.Hook{Sink: logSink{logger: logger}}}
		opts.ActivityConfig = activity.Config{Enabled: true}
	}
	service := dashboard.NewService(opts)

	var templateOpts []dashboard.TemplateOption
	if cfg.Templates != "" {
		templateOpts = append(templateOpts, dashboard.WithTemplateFS(os.DirFS(cfg.Templates), "."))
		logger.Info("templates overridden", "dir", cfg.Templates)
	}
	renderer, err := dashboard.NewTemplateRenderer(templateOpts...)
	if err != nil {
		return nil, fmt.Errorf("dashboardd: template renderer: %w", err)
	}
	chart := dashboard.NewOverviewChart(
		dashboard.WithChartTheme(cfg.ChartTheme),
		dashboard.WithChartAssetsHost(cfg.AssetsHost),
	)
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Chart:    chart,
		BasePath: strings.TrimRight(cfg.BasePath, "/") + "/dashboard",
		Title:    cfg.Title,
	})

	return &app{
		cfg:        cfg,
		logger:     logger,
		sessions:   sessions,
		service:    service,
		controller: controller,
		executor:   httpapi.NewCommandExecutor(service, telemetry),
		broadcast:  broadcast,
		metrics:    prom,
	}, nil
}

// Handler mounts the dashboard and, without a metrics listener, /metrics on a
// standard library mux.
func (a *app) Handler() http.Handler {
	handlers := &httpapi.Handlers{
		API:        a.executor,
		Controller: a.controller,
		Broadcast:  a.broadcast,
	}
	mux := handlers.Mux(a.cfg.BasePath)
	if a.cfg.MetricsAddr == "" {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}
	return mux
}

// Run serves until ctx is cancelled or a listener fails. A failing listener
// stops the others.
func (a *app) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if a.cfg.MetricsAddr != "" || a.cfg.Engine == "fiber" {
		addr := a.cfg.MetricsAddr
		if addr == "" {
			addr = defaultFiberMetricsAddr
		}
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", a.metrics.Handler())
		g.Go(func() error {
			if err := a.serveHTTP(ctx, addr, mux); err != nil {
				return fmt.Errorf("dashboardd: metrics listener: %w", err)
			}
			return nil
		})
	}
	if a.cfg.Engine == "fiber" {
		g.Go(func() error { return a.serveFiber(ctx) })
	} else {
		g.Go(func() error { return a.serveHTTP(ctx, a.cfg.Addr, a.Handler()) })
	}
	return g.Wait()
}

func (a *app) serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	a.logger.Info("listening", "addr", addr, "engine", "http")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("server stopped", "addr", addr, "err", err)
		return err
	}
	return nil
}

func (a *app) serveFiber(ctx context.Context) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: a.controller,
		API:        a.executor,
		Broadcast:  a.broadcast,
		BasePath:   a.cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("dashboardd: register routes: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Addr, "engine", "fiber")
		done <- server.Serve(a.cfg.Addr)
	}()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Error("server stopped", "addr", a.cfg.Addr, "err", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownFiber(shutdownCtx, server); err != nil {
		return fmt.Errorf("dashboardd: fiber shutdown: %w", err)
	}
	select {
	case err := <-done:
		return err
	case <-shutdownCtx.Done():
		return fmt.Errorf("dashboardd: fiber shutdown: %w", shutdownCtx.Err())
	}
}

// shutdownFiber stops the adapter, or the fiber app behind it.
func shutdownFiber(ctx context.Context, server any) error {
	switch s := server.(type) {
	case interface{ Shutdown(context.Context) error }:
		return s.Shutdown(ctx)
	case interface{ WrappedRouter() *fiber.App }:
		return s.WrappedRouter().ShutdownWithContext(ctx)
	}
	return errors.New("adapter cannot be shut down")
}

// Close disconnects live subscribers.
func (a *app) Close() {
	a.broadcast.Close()
}

func logRefreshHook(logger *log.Logger) dashboard.RefreshHookFunc {
	return func(_ context.Context, event dashboard.WidgetEvent) error {
		logger.Debug("widget event", "reason", event.Reason, "session", event.SessionKey, "widget_id", event.WidgetID)
		return nil
	}
}

// logSink writes go-users activity records to the process log.
type logSink struct {
	logger *log.Logger
}

func (s logSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.logger.Info("activity",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"channel", record.Channel,
		"data", record.Data,
	)
	return nil
}
