package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samyukta_http_requests_total",
			Help: "Total number of HTTP requests by route and status class",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "samyukta_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samyukta_registrations_total",
			Help: "Registrations submitted by ticket kind and outcome",
		},
		[]string{"ticket_kind", "outcome"},
	)

	capacityRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samyukta_capacity_rejections_total",
			Help: "Registrations refused because a capacity category was closed",
		},
		[]string{"category"},
	)

	quotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samyukta_price_quotes_total",
			Help: "Price quotes computed by ticket kind",
		},
		[]string{"ticket_kind"},
	)

	notificationDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samyukta_notification_deliveries_total",
			Help: "Notification deliveries by channel and result (sent, failed, skipped)",
		},
		[]string{"channel", "result"},
	)

	notificationSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "samyukta_notification_send_duration_seconds",
			Help:    "Duration of one notification fan-out pass",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"audience"},
	)

	registeredParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "samyukta_registered_participants",
			Help: "Registered participants per capacity category at the last snapshot",
		},
		[]string{"category"},
	)
)

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordRegistration(ticketKind, outcome string) {
	registrationsTotal.WithLabelValues(ticketKind, outcome).Inc()
}

func RecordCapacityRejection(category string) {
	capacityRejectionsTotal.WithLabelValues(category).Inc()
}

func RecordQuote(ticketKind string) {
	quotesTotal.WithLabelValues(ticketKind).Inc()
}

func RecordDelivery(channel, result string, n int) {
	if n <= 0 {
		return
	}
	notificationDeliveriesTotal.WithLabelValues(channel, result).Add(float64(n))
}

func RecordNotificationSend(audience string, d time.Duration) {
	notificationSendDuration.WithLabelValues(audience).Observe(d.Seconds())
}

func SetRegistered(category string, n int) {
	registeredParticipants.WithLabelValues(category).Set(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
