package internal

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelcheck_upstream_requests_total",
			Help: "Total number of FuelCheck API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuelcheck_upstream_request_duration_seconds",
			Help:    "FuelCheck API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	decodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelcheck_decode_failures_total",
			Help: "Total number of FuelCheck API responses that could not be decoded",
		},
		[]string{"endpoint"},
	)
	archivedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelcheck_archived_records_total",
			Help: "Total number of stations and prices written to the archive",
		},
		[]string{"kind"},
	)
)

// statusCode 0 means the request never got a response.
func recordUpstreamRequest(endpoint string, statusCode int, elapsed time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	upstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func recordDecodeFailure(endpoint string) {
	decodeFailuresTotal.WithLabelValues(endpoint).Inc()
}

func recordArchived(kind string, count int) {
	archivedRecordsTotal.WithLabelValues(kind).Add(float64(count))
}
