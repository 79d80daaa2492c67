package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.ChartRenders.WithLabelValues("png", "ok").Inc()
	m.ChartRenders.WithLabelValues("png", "ok").Inc()

	if got := testutil.ToFloat64(m.ChartRenders.WithLabelValues("png", "ok")); got != 2 {
		t.Errorf("renders = %f, want 2", got)
	}
	if n, err := testutil.GatherAndCount(reg, "test_chart_renders_total"); err != nil || n != 1 {
		t.Errorf("gathered %d series, err %v", n, err)
	}
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ChartRenders.WithLabelValues("svg", "error"))
	RecordRender("svg", time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(DefaultMetrics.ChartRenders.WithLabelValues("svg", "error"))
	if after-before != 1 {
		t.Errorf("error render not counted: %f -> %f", before, after)
	}

	SetFeedConnected(true)
	if v := testutil.ToFloat64(DefaultMetrics.FeedConnected); v != 1 {
		t.Errorf("feed connected = %f, want 1", v)
	}
	SetFeedConnected(false)
	if v := testutil.ToFloat64(DefaultMetrics.FeedConnected); v != 0 {
		t.Errorf("feed connected = %f, want 0", v)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 204: "2xx", 302: "3xx", 404: "4xx", 502: "5xx"}
	for code, want := range cases {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %s, want %s", code, got, want)
		}
	}
}
