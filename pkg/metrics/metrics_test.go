package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoreMetricsCountsDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.ObserveDispatch("session/startSession", 20*time.Microsecond)
	m.ObserveDispatch("session/startSession", 30*time.Microsecond)
	m.ObserveDispatch("", time.Microsecond)

	if got := testutil.ToFloat64(m.dispatched.WithLabelValues("session/startSession")); got != 2 {
		t.Fatalf("expected 2 dispatches, got %f", got)
	}
	if got := testutil.ToFloat64(m.dispatched.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty action under unknown, got %f", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 2 {
		t.Fatalf("expected 2 histogram series, got %d", n)
	}
}

func TestAssistantMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.IncReply(ReplyDelivered)
	m.IncReply(ReplyDiscarded)
	m.IncReply(ReplyDelivered)

	expected := `
# HELP trainingdesk_assistant_replies_total Assistant replies by outcome.
# TYPE trainingdesk_assistant_replies_total counter
trainingdesk_assistant_replies_total{outcome="delivered"} 2
trainingdesk_assistant_replies_total{outcome="discarded"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "trainingdesk_assistant_replies_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/v1/products/{productId}", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products/{productId}", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewStoreMetrics(nil).ObserveDispatch("x", time.Millisecond)
	NewAssistantMetrics(nil).IncReply(ReplyCanceled)
	NewHTTPMetrics(nil).ObserveRequest("GET", "/", 200, time.Millisecond)

	var s *StoreMetrics
	s.ObserveDispatch("x", time.Millisecond)
}
