package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTP(t *testing.T) {
	before := testutil.CollectAndCount(HTTPRequestDuration)
	ObserveHTTP("GET", "GET /api/metrics-test", 200, 15*time.Millisecond)
	after := testutil.CollectAndCount(HTTPRequestDuration)

	if after != before+1 {
		t.Errorf("expected a new series, got %d -> %d", before, after)
	}
}

func TestPlacementCounter(t *testing.T) {
	before := testutil.ToFloat64(Placements.WithLabelValues("overlap"))
	Placements.WithLabelValues("overlap").Inc()
	if got := testutil.ToFloat64(Placements.WithLabelValues("overlap")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
