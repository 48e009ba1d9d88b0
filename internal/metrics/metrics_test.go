package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCountsDispatches(t *testing.T) {
	c := NewCollector()
	c.Dispatched("ping", OutcomeSucceeded)
	c.Dispatched("ping", OutcomeSucceeded)
	c.Dispatched("issue_shutdown", OutcomeDeclined)
	c.Observe("ping", 120*time.Millisecond)

	if got := testutil.ToFloat64(c.dispatches.WithLabelValues("ping", OutcomeSucceeded)); got != 2 {
		t.Fatalf("expected 2 ping successes, got %v", got)
	}
	if got := testutil.ToFloat64(c.dispatches.WithLabelValues("issue_shutdown", OutcomeDeclined)); got != 1 {
		t.Fatalf("expected 1 declined shutdown, got %v", got)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	c := NewCollector()
	c.Dispatched("get_ipconfig", OutcomeFailed)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `winadmin_dispatches_total{command="get_ipconfig",outcome="failed"} 1`) {
		t.Fatalf("metric missing from output:\n%s", body)
	}
}
