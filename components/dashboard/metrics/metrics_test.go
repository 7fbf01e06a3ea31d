package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgetboard/components/dashboard"
)

func TestRecordCountsEvents(t *testing.T) {
	m := New(Options{})
	m.Record(context.Background(), "dashboard.widget.add", nil)
	m.Record(context.Background(), "dashboard.widget.add", nil)
	m.Record(context.Background(), "dashboard.activity_error", map[string]any{"error": "sink down"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("dashboard.widget.add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors))
}

func TestSessionsGauge(t *testing.T) {
	store := dashboard.NewInMemorySessionStore()
	m := New(Options{Sessions: store.Len})
	require.NoError(t, store.Save(context.Background(), "s1", dashboard.NewSession(dashboard.DefaultTree())))

	count, err := testutil.GatherAndCount(m.Registry(), "widgetboard_dashboard_sessions_active")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceEventsReachHandler(t *testing.T) {
	m := New(Options{Namespace: "test"})
	service := dashboard.NewService(dashboard.Options{Telemetry: m})
	viewer := dashboard.ViewerContext{SessionID: "s1"}
	require.NoError(t, service.OpenManagePanel(context.Background(), viewer))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `test_dashboard_events_total{event="dashboard.panel.open"} 1`)
}
