package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg appConfig) (*app, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger, err := newLogger(&logs, "debug", "logfmt")
	require.NoError(t, err)
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin"
	}
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, &logs
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(io.Discard, "loud", "text")
	require.Error(t, err)
}

func TestAppServesDashboardAndMetrics(t *testing.T) {
	a, logs := newTestApp(t, appConfig{Activity: true})
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/admin/dashboard?session=app")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "CSPM Executive Dashboard")

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/admin/dashboard/widgets/CWPP%20Dashboard/workload-alerts?session=app", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `widgetboard_dashboard_events_total{event="dashboard.widget.remove"} 1`)
	assert.Contains(t, string(body), "widgetboard_dashboard_sessions_active 1")

	assert.Contains(t, logs.String(), "verb=dashboard.widget.remove")
}

func TestAppWithoutActivityLogsNoRecords(t *testing.T) {
	a, logs := newTestApp(t, appConfig{})
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/admin/dashboard/reset?session=quiet", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotContains(t, logs.String(), "msg=activity")
}

func TestAppLoadsSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := strings.Join([]string{
		`version: "1"`,
		`categories:`,
		`  - name: Compliance`,
		`    short_form: CMP`,
		`    widgets:`,
		`      - id: cis`,
		`        name: CIS Benchmarks`,
		`        content: CIS Widget`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	a, _ := newTestApp(t, appConfig{SeedPath: path})
	server := httptest.NewServer(a.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/admin/dashboard/_state?session=seeded")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `"name":"Compliance"`)
	assert.NotContains(t, string(body), "CSPM")
}

func TestAppRejectsInvalidSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\ncategories: []\n"), 0o600))

	logger, err := newLogger(io.Discard, "info", "text")
	require.NoError(t, err)
	_, err = newApp(appConfig{SeedPath: path}, logger)
	require.Error(t, err)
}

func TestValidateSeedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\ncategories:\n  - name: Solo\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, (&validateSeedCmd{Path: path}).Run(&out))
	assert.Contains(t, out.String(), "1 categories")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func runInBackground(ctx context.Context, a *app) <-chan error {
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	return done
}

func waitListening(t *testing.T, addr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRunStopsOnCancel(t *testing.T) {
	for _, engine := range []string{"http", "fiber"} {
		t.Run(engine, func(t *testing.T) {
			addr := freeAddr(t)
			a, _ := newTestApp(t, appConfig{Engine: engine, Addr: addr, MetricsAddr: freeAddr(t)})
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := runInBackground(ctx, a)
			waitListening(t, addr)
			cancel()

			select {
			case err := <-done:
				if engine == "http" {
					assert.NoError(t, err)
				}
			case <-time.After(2 * shutdownTimeout):
				t.Fatalf("%s engine did not stop after cancel", engine)
			}
		})
	}
}

func TestRunFailsWhenMetricsAddrIsTaken(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	a, _ := newTestApp(t, appConfig{Addr: freeAddr(t), MetricsAddr: taken.Addr().String()})
	done := runInBackground(context.Background(), a)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metrics listener")
	case <-time.After(2 * shutdownTimeout):
		t.Fatalf("run kept serving without its metrics listener")
	}
}
