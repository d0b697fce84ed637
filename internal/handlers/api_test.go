package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"air-alert-monitor/internal/metrics"
	"air-alert-monitor/internal/models"
	"air-alert-monitor/internal/notify"
	"air-alert-monitor/internal/regions"
	"air-alert-monitor/internal/scheduler"
)

type stubFetcher struct {
	result map[string]models.AlertType
	err    error
}

func (f *stubFetcher) FetchStatuses(ctx context.Context) (map[string]models.AlertType, error) {
	return f.result, f.err
}

func fullMap(active ...string) map[string]models.AlertType {
	isActive := make(map[string]bool, len(active))
	for _, name := range active {
		isActive[name] = true
	}
	result := make(map[string]models.AlertType, regions.Count())
	for _, uid := range regions.SortedUIDs() {
		name := regions.UIDMap[uid]
		if isActive[name] {
			result[name] = models.AlertActive
		} else {
			result[name] = models.AlertInactive
		}
	}
	return result
}

// newTestApp builds a Fiber app backed by a scheduler. When fetch is nil the
// scheduler never ran a cycle.
func newTestApp(t *testing.T, fetch *stubFetcher) (*fiber.App, *metrics.Collector) {
	t.Helper()

	collector := metrics.NewCollector()
	disabled, err := notify.NewTelegram("", "")
	require.NoError(t, err)

	sched := scheduler.New(&stubFetcher{err: errors.New("unused")}, disabled, collector, nil, time.Hour, 5)
	if fetch != nil {
		sched = scheduler.New(fetch, disabled, collector, nil, time.Hour, 5)
		sched.Reconcile(context.Background())
	}

	h := &Handlers{Scheduler: sched, Notifier: disabled, Metrics: collector}
	app := fiber.New()
	app.Use(h.MetricsMiddleware)
	h.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	return app, collector
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ── /api/v1/status ───────────────────────────────────────────────────

func TestGetStatusReturnsAllRegionsWithMeta(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap("м. Київ", "Одеська область")})

	status, body := getJSON(t, app, "/api/v1/status")
	require.Equal(t, http.StatusOK, status)

	meta, ok := body["_meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(regions.Count()), meta["total_regions"])
	assert.Equal(t, float64(2), meta["active_alerts"])
	assert.Equal(t, "ok", meta["api_status"])
	assert.NotEmpty(t, meta["last_update"])

	kyiv, ok := body["м. Київ"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, kyiv["is_alert"])
	assert.Equal(t, "active", kyiv["alert_type"])
	assert.NotEmpty(t, kyiv["last_updated"])

	lviv, ok := body["Львівська область"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, lviv["is_alert"])
	assert.Equal(t, "inactive", lviv["alert_type"])
}

func TestGetStatusDegradesBeforeFirstCycle(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body := getJSON(t, app, "/api/v1/status")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body, 1) // only _meta

	meta := body["_meta"].(map[string]any)
	assert.Equal(t, "error", meta["api_status"])
	assert.Equal(t, float64(0), meta["total_regions"])
}

func TestLegacyStatusIsFlatBoolMap(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap("м. Київ")})

	status, body := getJSON(t, app, "/status")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body, regions.Count())
	assert.Equal(t, true, body["м. Київ"])
	assert.Equal(t, false, body["Волинська область"])
}

// ── /api/v1/region/:name ─────────────────────────────────────────────

func TestGetRegionNotFoundReturns404(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap()})

	status, body := getJSON(t, app, "/api/v1/region/xyz")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}

func TestGetRegionReturnsAllSubstringMatches(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap("м. Київ")})

	// "Київ" matches both the city and the oblast, case-insensitively.
	status, body := getJSON(t, app, "/api/v1/region/"+url.PathEscape("київ"))
	require.Equal(t, http.StatusOK, status)

	meta := body["_meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["found_count"])

	city := body["м. Київ"].(map[string]any)
	assert.Equal(t, true, city["is_alert"])
	oblast := body["Київська область"].(map[string]any)
	assert.Equal(t, false, oblast["is_alert"])
}

func TestGetRegionSingleMatch(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap()})

	status, body := getJSON(t, app, "/api/v1/region/"+url.PathEscape("Севастополь"))
	require.Equal(t, http.StatusOK, status)
	meta := body["_meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["found_count"])
}

// ── /health ──────────────────────────────────────────────────────────

func TestHealthUnhealthyBeforeFirstSnapshot(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body := getJSON(t, app, "/health")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unhealthy", body["status"])

	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "unknown", deps["api"])
	assert.Equal(t, "disabled", deps["telegram"])
}

func TestHealthHealthyAfterSuccessfulCycle(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap()})

	for _, path := range []string{"/health", "/api/v1/health"} {
		status, body := getJSON(t, app, path)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body["status"], path)
		deps := body["dependencies"].(map[string]any)
		assert.Equal(t, "ok", deps["api"], path)
	}
}

// ── /api/v1/stats ────────────────────────────────────────────────────

func TestStatsAggregates(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap("м. Київ", "Сумська область", "Луганська область")})

	status, body := getJSON(t, app, "/api/v1/stats")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(regions.Count()), body["total_regions"])
	assert.Equal(t, float64(3), body["active_alerts"])
	assert.Equal(t, float64(regions.Count()-3), body["inactive_regions"])
	assert.InDelta(t, 100*3.0/float64(regions.Count()), body["alert_percentage"].(float64), 0.01)
	assert.Equal(t, "ok", body["api_status"])
}

func TestStatsDegradesBeforeFirstCycle(t *testing.T) {
	app, _ := newTestApp(t, nil)

	status, body := getJSON(t, app, "/api/v1/stats")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["total_regions"])
	assert.Equal(t, "error", body["api_status"])
}

// ── /metrics ─────────────────────────────────────────────────────────

func TestMetricsExposition(t *testing.T) {
	app, _ := newTestApp(t, &stubFetcher{result: fullMap("м. Київ")})

	// Serve one API request first so HTTP metrics exist.
	_, _ = getJSON(t, app, "/api/v1/status")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	exposition := string(raw)

	assert.Contains(t, exposition, `air_alert_regions_total{status="active"} 1`)
	assert.Contains(t, exposition, `air_alert_regions_total{status="inactive"} 26`)
	assert.Contains(t, exposition, "air_alert_last_update_timestamp")
	assert.Contains(t, exposition, `air_alert_api_requests_total{status="success"} 1`)
	assert.Contains(t, exposition, "air_alert_http_requests_total")
}
