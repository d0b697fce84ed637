package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"air-alert-monitor/internal/metrics"
	"air-alert-monitor/internal/models"
	"air-alert-monitor/internal/ping"
	"air-alert-monitor/internal/scheduler"
)

const version = "1.0.0"

type Handlers struct {
	Scheduler *scheduler.Scheduler
	Notifier  scheduler.Notifier
	Prober    *ping.Prober // may be nil
	Metrics   *metrics.Collector
}

// RegisterRoutes mounts the API on the given app. The bare /status and
// /health aliases exist for clients predating the /api/v1 prefix.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/status", h.GetStatus)
	api.Get("/region/:name", h.GetRegion)
	api.Get("/health", h.Health)
	api.Get("/stats", h.GetStats)

	app.Get("/status", h.GetStatusLegacy)
	app.Get("/health", h.Health)
}

// MetricsMiddleware records request counts and latency per route.
func (h *Handlers) MetricsMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	endpoint := c.Route().Path
	h.Metrics.RecordHTTPRequest(c.Method(), endpoint, c.Response().StatusCode(), time.Since(start))
	return err
}

// GetStatus returns every region's status plus a _meta block. Before the
// first successful cycle it degrades to an empty region set with
// api_status=error rather than failing.
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	snap := h.Scheduler.Snapshot()

	response := fiber.Map{}
	for name, st := range snapRegions(snap) {
		response[name] = regionBody(st)
	}
	response["_meta"] = metaBlock(snap)
	return c.JSON(response)
}

// GetStatusLegacy returns the original flat region→bool map.
func (h *Handlers) GetStatusLegacy(c *fiber.Ctx) error {
	snap := h.Scheduler.Snapshot()

	response := fiber.Map{}
	for name, st := range snapRegions(snap) {
		response[name] = st.IsAlert
	}
	return c.JSON(response)
}

// GetRegion performs a case-insensitive substring search over region names
// and returns every match. Zero matches is the one real 404 in the API.
func (h *Handlers) GetRegion(c *fiber.Ctx) error {
	name := c.Params("name")
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}
	search := strings.ToLower(name)

	snap := h.Scheduler.Snapshot()
	found := fiber.Map{}
	count := 0
	for region, st := range snapRegions(snap) {
		if strings.Contains(strings.ToLower(region), search) {
			found[region] = regionBody(st)
			count++
		}
	}

	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "регіон не знайдено",
		})
	}

	found["_meta"] = fiber.Map{
		"search_query": name,
		"found_count":  count,
	}
	return c.JSON(found)
}

// Health reports true upstream health: unhealthy until a snapshot has been
// obtained and while the provider keeps failing.
func (h *Handlers) Health(c *fiber.Ctx) error {
	snap := h.Scheduler.Snapshot()

	apiStatus := "unknown"
	if snap != nil {
		apiStatus = snap.APIStatus
	}

	telegramStatus := "disabled"
	if h.Notifier != nil && h.Notifier.Enabled() {
		telegramStatus = "ok"
	}

	dependencies := fiber.Map{
		"api":      apiStatus,
		"telegram": telegramStatus,
	}
	if h.Prober != nil {
		reachable, known := h.Prober.Reachable()
		switch {
		case !known:
			dependencies["provider_host"] = "unknown"
		case reachable:
			dependencies["provider_host"] = "reachable"
		default:
			dependencies["provider_host"] = "unreachable"
		}
	}

	healthy := snap != nil && snap.APIStatus == "ok"
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return c.JSON(fiber.Map{
		"status":       status,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      version,
		"dependencies": dependencies,
	})
}

// GetStats returns aggregate counts and the alert percentage.
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	snap := h.Scheduler.Snapshot()
	if snap == nil {
		return c.JSON(fiber.Map{
			"total_regions":    0,
			"active_alerts":    0,
			"inactive_regions": 0,
			"alert_percentage": 0.0,
			"last_update":      nil,
			"api_status":       "error",
		})
	}

	percentage := 0.0
	if snap.TotalRegions > 0 {
		percentage = float64(snap.ActiveAlerts) / float64(snap.TotalRegions) * 100
		percentage = float64(int(percentage*100+0.5)) / 100
	}

	return c.JSON(fiber.Map{
		"total_regions":    snap.TotalRegions,
		"active_alerts":    snap.ActiveAlerts,
		"inactive_regions": snap.TotalRegions - snap.ActiveAlerts,
		"alert_percentage": percentage,
		"last_update":      snap.LastUpdate.Format(time.RFC3339),
		"api_status":       snap.APIStatus,
	})
}

func snapRegions(snap *models.AlertSnapshot) map[string]models.RegionStatus {
	if snap == nil {
		return nil
	}
	return snap.Regions
}

func regionBody(st models.RegionStatus) fiber.Map {
	return fiber.Map{
		"is_alert":     st.IsAlert,
		"alert_type":   st.AlertType,
		"last_updated": st.LastUpdated.Format(time.RFC3339),
	}
}

func metaBlock(snap *models.AlertSnapshot) fiber.Map {
	if snap == nil {
		return fiber.Map{
			"total_regions": 0,
			"active_alerts": 0,
			"last_update":   nil,
			"api_status":    "error",
		}
	}
	return fiber.Map{
		"total_regions": snap.TotalRegions,
		"active_alerts": snap.ActiveAlerts,
		"last_update":   snap.LastUpdate.Format(time.RFC3339),
		"api_status":    snap.APIStatus,
	}
}
