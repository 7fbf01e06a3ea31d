package dashboard

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight = "320px"
	defaultChartTitle  = "Widgets per category"
	overviewSeries     = "Widgets"
)

// OverviewChart renders a bar chart with one bar per category of a tree.
type OverviewChart struct {
	cache      RenderCache
	theme      string
	assetsHost string
	title      string
}

// OverviewChartOption customizes the chart.
type OverviewChartOption func(*OverviewChart)

// WithChartCache injects a render cache. Pass nil to render on every call.
func WithChartCache(cache RenderCache) OverviewChartOption {
	return func(c *OverviewChart) {
		c.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) OverviewChartOption {
	return func(c *OverviewChart) {
		if theme = strings.TrimSpace(theme); theme != "" {
			c.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) OverviewChartOption {
	return func(c *OverviewChart) {
		c.assetsHost = strings.TrimSpace(host)
	}
}

// WithChartTitle overrides the chart title.
func WithChartTitle(title string) OverviewChartOption {
	return func(c *OverviewChart) {
		if title != "" {
			c.title = title
		}
	}
}

// NewOverviewChart builds a chart renderer with a five minute cache.
func NewOverviewChart(options ...OverviewChartOption) *OverviewChart {
	c := &OverviewChart{
		cache: NewChartCache(5 * time.Minute),
		theme: types.ThemeWesteros,
		title: defaultChartTitle,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// OverviewPoint is one bar of the overview chart.
type OverviewPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OverviewPoints counts widgets per category, labelled by short form when present.
func OverviewPoints(tree Tree) []OverviewPoint {
	points := make([]OverviewPoint, len(tree.Categories))
	for i, c := range tree.Categories {
		label := c.ShortForm
		if label == "" {
			label = c.Name
		}
		points[i] = OverviewPoint{Label: label, Count: len(c.Widgets)}
	}
	return points
}

// Render returns the chart markup for tree. Identical trees share a cache entry.
func (c *OverviewChart) Render(tree Tree) (string, error) {
	points := OverviewPoints(tree)
	render := func() (string, error) {
		return c.renderBar(points)
	}
	if c.cache == nil {
		return render()
	}
	key := strings.Join([]string{"overview", c.theme, c.title, contentHash(points)}, ":")
	return c.cache.GetOrRender(key, render)
}

func (c *OverviewChart) renderBar(points []OverviewPoint) (string, error) {
	labels := make([]string, len(points))
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		labels[i] = p.Label
		data[i] = opts.BarData{Name: p.Label, Value: p.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(c.globalOptions()...)
	bar.SetXAxis(labels)
	bar.AddSeries(overviewSeries, data)
	return renderChart(bar)
}

func (c *OverviewChart) globalOptions() []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  c.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if c.assetsHost != "" {
		initOpts.AssetsHost = c.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: c.title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
