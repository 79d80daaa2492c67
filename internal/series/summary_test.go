package series

import (
	"math"
	"testing"
	"time"

	"adam-dashboard/internal/domain"
)

func TestBuildSummary_RoundTrip(t *testing.T) {
	s := BuildSummary(domain.Series{
		{Time: 3600, Value: 200},
		{Time: 0, Value: 100},
	})
	want := domain.Summary{StartTime: 0, EndTime: 3600, StartValue: 100, EndValue: 200, Change: 100, ChangePct: 100}
	if s != want {
		t.Errorf("summary = %+v, want %+v", s, want)
	}
}

func TestBuildSummary_ZeroStart(t *testing.T) {
	s := BuildSummary(domain.Series{{Time: 0, Value: 0}, {Time: 10, Value: 50}})
	if s.ChangePct != 0 {
		t.Errorf("changePct = %f, want 0", s.ChangePct)
	}
	if s.Change != 50 {
		t.Errorf("change = %f, want 50", s.Change)
	}
}

func TestBuildSummary_OrderIndependent(t *testing.T) {
	a := domain.Series{{Time: 1, Value: 80}, {Time: 2, Value: 90}, {Time: 3, Value: 60}}
	b := domain.Series{{Time: 3, Value: 60}, {Time: 1, Value: 80}, {Time: 2, Value: 90}}
	sa, sb := BuildSummary(a), BuildSummary(b)
	if sa != sb {
		t.Errorf("summaries differ: %+v vs %+v", sa, sb)
	}
	if math.Abs(sa.ChangePct-(-25)) > 1e-9 {
		t.Errorf("changePct = %f, want -25", sa.ChangePct)
	}
	if sa.EndValue != 60 {
		t.Errorf("endValue = %f, want value of time-max point 60", sa.EndValue)
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	if s := BuildSummary(nil); s != (domain.Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestDemo_Deterministic(t *testing.T) {
	end := time.Unix(1_700_000_000, 0)
	a := Demo(domain.Range7D, end, DefaultDemo)
	b := Demo(domain.Range7D, end, DefaultDemo)

	if len(a) != domain.Range7D.PointCount() {
		t.Fatalf("expected %d points, got %d", domain.Range7D.PointCount(), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs", i)
		}
	}
	if a[len(a)-1].Time != end.Unix() {
		t.Errorf("last time = %d, want %d", a[len(a)-1].Time, end.Unix())
	}
	if a[0].Value != DefaultDemo.Base {
		t.Errorf("first value = %f, want base %f", a[0].Value, DefaultDemo.Base)
	}
	step := int64(domain.Range7D.Step() / time.Second)
	if a[1].Time-a[0].Time != step {
		t.Errorf("step = %d, want %d", a[1].Time-a[0].Time, step)
	}
}

func TestSortedAndBounds(t *testing.T) {
	in := domain.Series{{Time: 5, Value: 3}, {Time: 1, Value: 9}, {Time: 3, Value: -2}}
	s := Sorted(in)
	if s[0].Time != 1 || s[1].Time != 3 || s[2].Time != 5 {
		t.Errorf("not sorted: %+v", s)
	}
	lo, hi, ok := Bounds(s)
	if !ok || lo != -2 || hi != 9 {
		t.Errorf("bounds = (%f, %f, %v), want (-2, 9, true)", lo, hi, ok)
	}
	if _, _, ok := Bounds(nil); ok {
		t.Error("expected ok=false for empty series")
	}
	if w := Window(s, 2, 5); len(w) != 2 {
		t.Errorf("window len = %d, want 2", len(w))
	}
}
