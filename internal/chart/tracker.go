package chart

import (
	"sync"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/series"
)

// Tracker holds the tooltip state for one chart: Hidden until the pointer
// moves over a non-empty series, Hidden again on leave or when the series
// empties. Every move recomputes synchronously.
type Tracker struct {
	mu      sync.Mutex
	sorted  domain.Series
	rng     domain.Range
	vp      Viewport
	format  Formatter
	current Tooltip
}

// NewTracker creates a hidden tracker.
func NewTracker(vp Viewport, f Formatter) *Tracker {
	return &Tracker{vp: vp, format: f, rng: domain.Range24H}
}

// SetSeries replaces the data snapshot. An empty series hides the tooltip.
func (t *Tracker) SetSeries(data domain.Series, r domain.Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sorted = series.Sorted(data)
	t.rng = r
	if len(t.sorted) == 0 {
		t.current = Tooltip{}
	}
}

// Resize updates the viewport used for mapping.
func (t *Tracker) Resize(vp Viewport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.vp = vp
}

// PointerMove hit-tests (mx, my) and returns the new state.
func (t *Tracker) PointerMove(mx, my float64) Tooltip {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = hit(t.sorted, NewScale(t.sorted, t.vp), t.rng, t.vp, mx, my, t.format)
	return t.current
}

// PointerLeave hides the tooltip.
func (t *Tracker) PointerLeave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = Tooltip{}
}

// Current returns the last computed state.
func (t *Tracker) Current() Tooltip {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
