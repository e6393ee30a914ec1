package board

import (
	"github.com/prometheus/client_golang/prometheus"

	"leaveby.app/internal/arrivals"
)

// Refresh outcomes recorded on leaveby_refresh_total.
const (
	outcomeOK             = "ok"
	outcomeTransportError = "transport_error"
	outcomeDecodeError    = "decode_error"
)

// Metrics holds the board's Prometheus collectors.
type Metrics struct {
	RefreshTotal         *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec
	PublishedArrivals    *prometheus.GaugeVec
	CountdownTicksTotal  prometheus.Counter
}

// NewMetrics creates the board collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaveby_refresh_total",
				Help: "Refresh cycles per tracked line by outcome",
			},
			[]string{"line", "outcome"},
		),
		FetchDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leaveby_fetch_duration_seconds",
				Help:    "Time to fetch one realtime snapshot for a tracked line",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"line"},
		),
		PublishedArrivals: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "leaveby_published_arrivals",
				Help: "Arrivals in the latest published result per line and direction",
			},
			[]string{"line", "direction"},
		),
		CountdownTicksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "leaveby_countdown_ticks_total",
				Help: "Countdown frames produced",
			},
		),
	}

	registerer.MustRegister(
		metrics.RefreshTotal,
		metrics.FetchDurationSeconds,
		metrics.PublishedArrivals,
		metrics.CountdownTicksTotal,
	)

	return metrics
}

func (m *Metrics) observePublished(result *arrivals.LineResult) {
	m.PublishedArrivals.WithLabelValues(result.Line.ID, arrivals.Inbound.String()).Set(float64(len(result.Inbound)))
	m.PublishedArrivals.WithLabelValues(result.Line.ID, arrivals.Outbound.String()).Set(float64(len(result.Outbound)))
}
