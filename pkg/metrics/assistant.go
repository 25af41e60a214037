package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ReplyDelivered = "delivered"
	ReplyDiscarded = "discarded"
	ReplyCanceled  = "canceled"
)

// AssistantMetrics counts assistant reply outcomes.
type AssistantMetrics struct {
	replies *prometheus.CounterVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	if reg == nil {
		return &AssistantMetrics{}
	}
	replies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_replies_total",
		Help:      "Assistant replies by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(replies)
	return &AssistantMetrics{replies: replies}
}

// IncReply increments the counter for outcome.
func (m *AssistantMetrics) IncReply(outcome string) {
	if m == nil || m.replies == nil {
		return
	}
	m.replies.WithLabelValues(normalizeLabel(outcome)).Inc()
}
