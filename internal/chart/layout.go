// Package chart renders equity series onto a drawing Surface and maps
// pointer coordinates back to data points.
//
// All geometry is expressed in CSS pixels. Backends scale to physical
// pixels using the effective device pixel ratio.
package chart

import "math"

// Padding reserved around the plot for axis labels.
const (
	PadL = 44.0
	PadR = 18.0
	PadT = 18.0
	PadB = 34.0
)

// DefaultMaxDevicePixelRatio bounds buffer size on very dense displays.
const DefaultMaxDevicePixelRatio = 2.0

const (
	gridLines = 6
	tickCount = 5
)

// Viewport is the CSS size of the drawing surface at draw time.
type Viewport struct {
	Width            float64
	Height           float64
	DevicePixelRatio float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// PlotRect returns the data region inside the padding. Width and height
// may be zero or negative for tiny viewports; callers guard divisions.
func (v Viewport) PlotRect() Rect {
	return Rect{
		X: PadL,
		Y: PadT,
		W: v.Width - PadL - PadR,
		H: v.Height - PadT - PadB,
	}
}

// EffectiveRatio is min(dpr, maxDPR). Non-positive inputs fall back to 1.
func (v Viewport) EffectiveRatio(maxDPR float64) float64 {
	dpr := v.DevicePixelRatio
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	if maxDPR <= 0 {
		maxDPR = DefaultMaxDevicePixelRatio
	}
	return math.Min(dpr, maxDPR)
}

// BufferSize returns the physical pixel dimensions backing the viewport.
func (v Viewport) BufferSize(maxDPR float64) (w, h int, scale float64) {
	scale = v.EffectiveRatio(maxDPR)
	w = int(math.Round(math.Max(1, v.Width) * scale))
	h = int(math.Round(math.Max(1, v.Height) * scale))
	return w, h, scale
}
