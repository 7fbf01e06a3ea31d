package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-widgetboard/components/dashboard"
)

type cli struct {
	Serve        serveCmd        `cmd:"" default:"withargs" help:"Serve the dashboard over HTTP."`
	ValidateSeed validateSeedCmd `cmd:"" name:"validate-seed" help:"Validate a seed file and exit."`
}

type serveCmd struct {
	Addr        string `default:":8080" env:"WIDGETBOARD_ADDR" help:"Listen address."`
	BasePath    string `name:"base-path" default:"/admin" env:"WIDGETBOARD_BASE_PATH" help:"Prefix for every dashboard route."`
	Seed        string `type:"existingfile" env:"WIDGETBOARD_SEED" help:"Seed file replacing the starter dashboard."`
	Engine      string `default:"http" enum:"http,fiber" env:"WIDGETBOARD_ENGINE" help:"HTTP engine (http, fiber)."`
	Title       string `default:"Dashboard" env:"WIDGETBOARD_TITLE" help:"Page title."`
	LogLevel    string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"WIDGETBOARD_LOG_LEVEL" help:"Log level."`
	LogFormat   string `name:"log-format" default:"text" enum:"text,logfmt,json" env:"WIDGETBOARD_LOG_FORMAT" help:"Log formatter."`
	MetricsAddr string `name:"metrics-addr" env:"WIDGETBOARD_METRICS_ADDR" help:"Separate listener for /metrics. Empty serves it next to the dashboard."`
	ChartTheme  string `name:"chart-theme" default:"westeros" env:"WIDGETBOARD_CHART_THEME" help:"ECharts theme."`
	EChartsCDN  string `name:"echarts-cdn" env:"WIDGETBOARD_ECHARTS_CDN" help:"Assets host for the ECharts runtime."`
	Activity    bool   `default:"true" negatable:"" env:"WIDGETBOARD_ACTIVITY" help:"Log audited dashboard activity."`
	Templates   string `type:"existingdir" env:"WIDGETBOARD_TEMPLATES" help:"Directory overriding the embedded HTML templates."`
}

type validateSeedCmd struct {
	Path string `arg:"" type:"existingfile" help:"Seed file to check."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli{},
		kong.Name("dashboardd"),
		kong.Description("Widget dashboard server."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	kctx.FatalIfErrorf(kctx.Run())
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	logger, err := newLogger(os.Stderr, cmd.LogLevel, cmd.LogFormat)
	if err != nil {
		return err
	}
	app, err := newApp(cmd.config(), logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}

func (cmd *serveCmd) config() appConfig {
	return appConfig{
		Addr:        cmd.Addr,
		BasePath:    cmd.BasePath,
		SeedPath:    cmd.Seed,
		Engine:      cmd.Engine,
		Title:       cmd.Title,
		MetricsAddr: cmd.MetricsAddr,
		ChartTheme:  cmd.ChartTheme,
		AssetsHost:  cmd.EChartsCDN,
		Activity:    cmd.Activity,
		Templates:   cmd.Templates,
	}
}

func (cmd *validateSeedCmd) Run(out io.Writer) error {
	doc, err := dashboard.ReadSeed(cmd.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s is valid (%d categories)\n", cmd.Path, len(doc.Categories))
	return nil
}
