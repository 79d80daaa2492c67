package chart

import (
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/series"
)

const (
	lineWidth     = 2.0
	glowWidth     = 6.0
	markerRadius  = 2.5
	markerOutline = 1.0
	tickGap       = 8.0
	noDataLabel   = "NO DATA"
)

// Options configures a render pass.
type Options struct {
	Theme  Theme
	Format Formatter
}

// Frame is what a render pass computed. It can be reused for hit-testing
// without redrawing.
type Frame struct {
	Sorted domain.Series
	Scale  Scale
	Range  domain.Range
	Empty  bool
}

// Render clears surf and draws data for r. The caller's series is not
// modified. A nil surface is a no-op.
func Render(surf Surface, data domain.Series, r domain.Range, vp Viewport, opts Options) Frame {
	th := opts.Theme
	if th.Name == "" {
		th = ThemeClassic
	}
	plot := vp.PlotRect()
	sorted := series.Sorted(data)
	frame := Frame{
		Sorted: sorted,
		Scale:  NewScale(sorted, vp),
		Range:  r,
		Empty:  len(sorted) == 0,
	}
	if surf == nil {
		return frame
	}

	surf.Clear(th.Background)
	drawGrid(surf, plot, th)

	if frame.Empty {
		surf.Text(noDataLabel, Point{X: vp.Width / 2, Y: vp.Height / 2}, 0.5, 0.5, th.Placeholder)
		return frame
	}

	pts := frame.Scale.Points(sorted)
	drawTicks(surf, sorted, pts, plot, r, opts.Format, th)

	surf.StrokePolyline(pts, glowWidth, th.Glow)
	surf.StrokePolyline(pts, lineWidth, th.Line)

	area := make([]Point, 0, len(pts)+2)
	area = append(area, pts...)
	area = append(area,
		Point{X: pts[len(pts)-1].X, Y: plot.Bottom()},
		Point{X: pts[0].X, Y: plot.Bottom()},
	)
	surf.FillGradient(area, plot.Y, plot.Bottom(), th.FillTop, th.FillBottom)

	for _, p := range pts {
		surf.Circle(p, markerRadius, th.Marker, markerOutline, th.MarkerOutline)
	}
	return frame
}

func drawGrid(surf Surface, plot Rect, th Theme) {
	for i := 0; i < gridLines; i++ {
		y := plot.Y + plot.H*float64(i)/float64(gridLines-1)
		surf.StrokeLine(Point{X: plot.X, Y: y}, Point{X: plot.Right(), Y: y}, 1, th.Grid)
	}
}

func drawTicks(surf Surface, sorted domain.Series, pts []Point, plot Rect, r domain.Range, f Formatter, th Theme) {
	for _, idx := range TickIndices(len(sorted), tickCount) {
		label := f.Tick(r, sorted[idx].Time)
		surf.Text(label, Point{X: pts[idx].X, Y: plot.Bottom() + tickGap}, 0.5, 1, th.Label)
	}
}
