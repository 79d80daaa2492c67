package chart

import (
	"math"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/series"
)

// Tooltip geometry.
const (
	TooltipOffset  = 14.0
	tooltipPadX    = 8.0
	tooltipPadY    = 6.0
	tooltipLineGap = 4.0
	glyphW         = 7.0
	glyphH         = 13.0
)

// Tooltip is the display-ready result of a hit-test.
type Tooltip struct {
	Visible bool    `json:"visible"`
	Index   int     `json:"index"`
	Time    int64   `json:"time"`
	Value   float64 `json:"value"`
	Label   string  `json:"label"`
	Amount  string  `json:"amount"`
	PointX  float64 `json:"pointX"`
	PointY  float64 `json:"pointY"`
	Box     Rect    `json:"box"`
}

// HitTest maps a pointer position relative to the chart container to the
// nearest point of data. The series is sorted before lookup, matching
// Render. An empty series yields a hidden tooltip.
func HitTest(data domain.Series, r domain.Range, vp Viewport, mx, my float64, f Formatter) Tooltip {
	sorted := series.Sorted(data)
	return hit(sorted, NewScale(sorted, vp), r, vp, mx, my, f)
}

// HitTest resolves a pointer against an already rendered frame.
func (fr Frame) HitTest(vp Viewport, mx, my float64, f Formatter) Tooltip {
	return hit(fr.Sorted, fr.Scale, fr.Range, vp, mx, my, f)
}

func hit(sorted domain.Series, sc Scale, r domain.Range, vp Viewport, mx, my float64, f Formatter) Tooltip {
	n := len(sorted)
	if n == 0 {
		return Tooltip{}
	}
	idx := IndexAt(mx, n, vp.PlotRect())
	p := sorted[idx]
	x, y := sc.ToXY(idx, p.Value)

	tip := Tooltip{
		Visible: true,
		Index:   idx,
		Time:    p.Time,
		Value:   p.Value,
		Label:   f.Tooltip(r, p.Time),
		Amount:  FormatCurrency(p.Value),
		PointX:  x,
		PointY:  y,
	}
	w, h := TooltipSize(tip.Label, tip.Amount)
	tip.Box = PlaceTooltip(mx, my, w, h, vp.Width, vp.Height)
	return tip
}

// TooltipSize estimates the box for a two-line tooltip in the basic font.
func TooltipSize(lines ...string) (w, h float64) {
	longest := 0
	for _, l := range lines {
		if len(l) > longest {
			longest = len(l)
		}
	}
	w = float64(longest)*glyphW + 2*tooltipPadX
	h = float64(len(lines))*glyphH + float64(max(0, len(lines)-1))*tooltipLineGap + 2*tooltipPadY
	return w, h
}

// PlaceTooltip positions a w x h box near the pointer. The box sits below
// and right of the pointer, flips to the other side on overflow, and is
// then clamped to the container.
func PlaceTooltip(mx, my, w, h, containerW, containerH float64) Rect {
	x := mx + TooltipOffset
	if x+w > containerW {
		x = mx - TooltipOffset - w
	}
	y := my + TooltipOffset
	if y+h > containerH {
		y = my - TooltipOffset - h
	}
	x = clamp(x, 0, math.Max(0, containerW-w))
	y = clamp(y, 0, math.Max(0, containerH-h))
	return Rect{X: x, Y: y, W: w, H: h}
}
