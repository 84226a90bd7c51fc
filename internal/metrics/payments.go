package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission results.
const (
	ResultUpdated  = "updated"
	ResultNotFound = "not_found"
)

// PaymentMetrics records payment intent activity.
type PaymentMetrics struct {
	created     prometheus.Counter
	submissions *prometheus.CounterVec
	collisions  prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upi_payment_intents_created_total",
		Help: "Payment intents created.",
	})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upi_utr_submissions_total",
		Help: "UTR submissions by outcome.",
	}, []string{"result"})
	collisions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upi_order_id_collisions_total",
		Help: "Order id collisions that forced a regeneration.",
	})
	reg.MustRegister(created, submissions, collisions)
	return &PaymentMetrics{
		created:     created,
		submissions: submissions,
		collisions:  collisions,
	}
}

// IncCreated counts a created payment intent.
func (m *PaymentMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

// IncSubmission counts a UTR submission with the given result.
func (m *PaymentMetrics) IncSubmission(result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// IncCollision counts an order id collision.
func (m *PaymentMetrics) IncCollision() {
	if m == nil || m.collisions == nil {
		return
	}
	m.collisions.Inc()
}
