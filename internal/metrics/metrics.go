// Package metrics exposes Prometheus metrics for the reconciliation pipeline
// and the HTTP surface. All metrics live on a private registry so tests can
// create collectors freely.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	alertRegions      *prometheus.GaugeVec
	lastUpdate        prometheus.Gauge
	apiRequests       *prometheus.CounterVec
	apiDuration       prometheus.Histogram
	notifications     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	systemStatus      prometheus.Gauge
	startTime         prometheus.Gauge
	providerReachable prometheus.Gauge
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		alertRegions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "air_alert_regions_total",
			Help: "Number of regions by alert status",
		}, []string{"status"}),
		lastUpdate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "air_alert_last_update_timestamp",
			Help: "Unix timestamp of the last successful data update",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "air_alert_api_requests_total",
			Help: "Total alerts API fetch cycles by outcome",
		}, []string{"status"}),
		apiDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "air_alert_api_request_duration_seconds",
			Help: "Duration of alerts API fetch cycles",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "air_alert_telegram_notifications_total",
			Help: "Total notification deliveries by outcome",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "air_alert_http_requests_total",
			Help: "Total HTTP requests served",
		}, []string{"method", "endpoint", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "air_alert_http_request_duration_seconds",
			Help: "Duration of HTTP requests",
		}, []string{"method", "endpoint"}),
		systemStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "air_alert_system_status",
			Help: "Overall system health (1 healthy, 0 degraded)",
		}),
		startTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "air_alert_start_time_timestamp",
			Help: "Unix timestamp of process start",
		}),
		providerReachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "air_alert_provider_reachable",
			Help: "ICMP reachability of the provider host (1 reachable, 0 not)",
		}),
	}

	registry.MustRegister(
		c.alertRegions, c.lastUpdate, c.apiRequests, c.apiDuration,
		c.notifications, c.httpRequests, c.httpDuration,
		c.systemStatus, c.startTime, c.providerReachable,
	)
	c.startTime.SetToCurrentTime()

	return c
}

// Handler serves the exposition format for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// UpdateAlertMetrics refreshes the per-status region gauges after a
// successful reconciliation.
func (c *Collector) UpdateAlertMetrics(active, total int, updateTime time.Time) {
	c.alertRegions.WithLabelValues("active").Set(float64(active))
	c.alertRegions.WithLabelValues("inactive").Set(float64(total - active))
	c.alertRegions.WithLabelValues("total").Set(float64(total))
	c.lastUpdate.Set(float64(updateTime.Unix()))
}

// RecordAPIRequest records one fetch cycle outcome ("success" or "error").
func (c *Collector) RecordAPIRequest(status string, duration time.Duration) {
	c.apiRequests.WithLabelValues(status).Inc()
	c.apiDuration.Observe(duration.Seconds())
}

// RecordNotification records one delivery outcome ("success" or "error").
func (c *Collector) RecordNotification(status string) {
	c.notifications.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode >= 200 && statusCode < 300 {
		status = "success"
	}
	c.httpRequests.WithLabelValues(method, endpoint, status).Inc()
	c.httpDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// UpdateSystemStatus sets the overall health gauge.
func (c *Collector) UpdateSystemStatus(healthy bool) {
	if healthy {
		c.systemStatus.Set(1)
	} else {
		c.systemStatus.Set(0)
	}
}

// SetProviderReachable records the latest ICMP probe result.
func (c *Collector) SetProviderReachable(reachable bool) {
	if reachable {
		c.providerReachable.Set(1)
	} else {
		c.providerReachable.Set(0)
	}
}
