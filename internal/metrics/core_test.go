package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCore(t *testing.T) {
	before := testutil.ToFloat64(CoreRequestsTotal.WithLabelValues("search", "songs", "ok"))

	ObserveCore("search", "songs", "ok", 2*time.Millisecond, 3)

	after := testutil.ToFloat64(CoreRequestsTotal.WithLabelValues("search", "songs", "ok"))
	if after-before != 1 {
		t.Errorf("expected core_requests_total to grow by 1, got %f", after-before)
	}
	if n := testutil.CollectAndCount(CoreRequestDuration); n < 1 {
		t.Errorf("expected core_request_duration_seconds series, got %d", n)
	}
	if n := testutil.CollectAndCount(CoreResults); n < 1 {
		t.Errorf("expected core_results series, got %d", n)
	}
}

func TestObserveCore_FoldsCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Song", "songs"},
		{"films", "invalid"},
		{"x-unbounded-1", "invalid"},
		{"", "none"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			before := testutil.ToFloat64(CoreRequestsTotal.WithLabelValues("suggest", tc.want, "unknown_category"))
			ObserveCore("suggest", tc.raw, "unknown_category", time.Millisecond, 0)
			after := testutil.ToFloat64(CoreRequestsTotal.WithLabelValues("suggest", tc.want, "unknown_category"))
			if after-before != 1 {
				t.Errorf("category %q: expected label %q to grow by 1, got %f", tc.raw, tc.want, after-before)
			}
		})
	}
	if n := testutil.CollectAndCount(CoreRequestsTotal, "tastematch_core_requests_total"); n == 0 {
		t.Fatal("expected core_requests_total series")
	}
	raw := CoreRequestsTotal.WithLabelValues("suggest", "x-unbounded-1", "unknown_category")
	if testutil.ToFloat64(raw) != 0 {
		t.Error("raw category leaked into the label")
	}
}

func TestRegisterCoreMetrics_Idempotent(t *testing.T) {
	RegisterCoreMetrics()
	RegisterCoreMetrics()
	if !coreMetricsRegistered {
		t.Error("expected metrics to be registered")
	}
}
