package metrics

import (
	"net/http"
	"time"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "cart_checkout"

	OutcomeOK       = "ok"
	OutcomeReplayed = "replayed"
)

type Metrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	Checkouts     *prometheus.CounterVec
	Confirmations *prometheus.CounterVec
	MergedEntries *prometheus.CounterVec
	GatewayMS     *prometheus.HistogramVec
	Reconcile     *prometheus.CounterVec
	CartClears    *prometheus.CounterVec
}

// New registers the collectors with reg; tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		Confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_confirmations_total",
			Help:      "Payment confirmations by outcome.",
		}, []string{"outcome"}),
		MergedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_merge_entries_total",
			Help:      "Anonymous cart entries processed by merge.",
		}, []string{"result"}),
		GatewayMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_gateway_duration_ms",
			Help:      "Payment gateway call latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"operation"}),
		Reconcile: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reconciliations_total",
			Help:      "Charges left without a committed order.",
		}, []string{"reason"}),
		CartClears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_clears_total",
			Help:      "Background cart clears after confirmation by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.Checkouts, m.Confirmations,
		m.MergedEntries, m.GatewayMS, m.Reconcile, m.CartClears)

	return m
}

func (m *Metrics) CheckoutOutcome(err error, replayed bool) {
	m.Checkouts.WithLabelValues(outcome(err, replayed)).Inc()
}

func (m *Metrics) ConfirmationOutcome(err error, replayed bool) {
	m.Confirmations.WithLabelValues(outcome(err, replayed)).Inc()
}

func (m *Metrics) Merged(result domain.MergeResult) {
	m.MergedEntries.WithLabelValues("inserted").Add(float64(result.Inserted))
	m.MergedEntries.WithLabelValues("kept").Add(float64(result.Kept))
	m.MergedEntries.WithLabelValues("skipped").Add(float64(result.Skipped))
}

func (m *Metrics) ObserveGateway(operation string, started time.Time) {
	m.GatewayMS.WithLabelValues(operation).Observe(float64(time.Since(started).Milliseconds()))
}

func (m *Metrics) Reconciliation(reason domain.ReconciliationReason) {
	m.Reconcile.WithLabelValues(string(reason)).Inc()
}

func outcome(err error, replayed bool) string {
	switch {
	case err != nil:
		return string(domain.KindOf(err))
	case replayed:
		return OutcomeReplayed
	default:
		return OutcomeOK
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
