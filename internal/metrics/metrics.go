package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics
var (
	// ScansTotal tracks total scans by trigger and status
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a11ylens_scans_total",
			Help: "Total number of scans by trigger and status",
		},
		[]string{"trigger", "status"},
	)

	// ScanDuration tracks end-to-end scan duration
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "a11ylens_scan_duration_seconds",
			Help:    "Scan duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
		},
		[]string{"trigger"},
	)

	// ScanScore tracks the distribution of scan scores
	ScanScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "a11ylens_scan_score",
			Help:    "Distribution of accessibility scores",
			Buckets: []float64{0, 10, 25, 50, 70, 80, 90, 95, 100},
		},
	)

	// ScanIssuesTotal tracks issues found by severity
	ScanIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a11ylens_scan_issues_total",
			Help: "Total number of issues found by severity",
		},
		[]string{"severity"},
	)
)

// Fetcher metrics
var (
	// FetchErrorsTotal tracks page fetch failures by kind
	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a11ylens_fetch_errors_total",
			Help: "Total number of page fetch failures by kind",
		},
		[]string{"kind"},
	)

	// FetchDuration tracks page fetch latency
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "a11ylens_fetch_duration_seconds",
			Help:    "Page fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)
)

// Monitor metrics
var (
	// MonitorRunsTotal tracks scheduled monitor runs by status
	MonitorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a11ylens_monitor_runs_total",
			Help: "Total number of scheduled monitor runs by status",
		},
		[]string{"status"},
	)

	// MonitorsActive tracks currently active monitors
	MonitorsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "a11ylens_monitors_active",
			Help: "Number of active monitors",
		},
	)

	// MonitorTickLag tracks time since the last scheduler cycle
	MonitorTickLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "a11ylens_monitor_tick_lag_seconds",
			Help: "Time since last monitor scheduler cycle in seconds",
		},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks HTTP requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a11ylens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "a11ylens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)
