package chart

import (
	"image/color"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const svgFontSize = 9.0

// SVGSurface draws through a go-chart vector renderer. The output is
// resolution independent, so the device pixel ratio is ignored. Gradient
// fills are flattened to the midpoint color.
type SVGSurface struct {
	r       gochart.Renderer
	w, h    int
	hasFont bool
}

var _ Surface = (*SVGSurface)(nil)

// NewSVGSurface creates a vector surface of the viewport's CSS size.
func NewSVGSurface(vp Viewport) (*SVGSurface, error) {
	w := int(math.Round(math.Max(1, vp.Width)))
	h := int(math.Round(math.Max(1, vp.Height)))
	r, err := gochart.SVG(w, h)
	if err != nil {
		return nil, err
	}
	s := &SVGSurface{r: r, w: w, h: h}
	if f, err := gochart.GetDefaultFont(); err == nil {
		r.SetFont(f)
		r.SetFontSize(svgFontSize)
		s.hasFont = true
	}
	return s, nil
}

func toDrawing(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func mix(a, b color.Color) color.Color {
	x := color.NRGBAModel.Convert(a).(color.NRGBA)
	y := color.NRGBAModel.Convert(b).(color.NRGBA)
	return color.NRGBA{
		R: uint8((int(x.R) + int(y.R)) / 2),
		G: uint8((int(x.G) + int(y.G)) / 2),
		B: uint8((int(x.B) + int(y.B)) / 2),
		A: uint8((int(x.A) + int(y.A)) / 2),
	}
}

func px(v float64) int { return int(math.Round(v)) }

func (s *SVGSurface) path(pts []Point) {
	s.r.MoveTo(px(pts[0].X), px(pts[0].Y))
	for _, p := range pts[1:] {
		s.r.LineTo(px(p.X), px(p.Y))
	}
}

func (s *SVGSurface) Clear(c color.Color) {
	s.r.SetFillColor(toDrawing(c))
	s.r.SetStrokeColor(drawing.ColorTransparent)
	s.r.SetStrokeWidth(0)
	s.path([]Point{{0, 0}, {float64(s.w), 0}, {float64(s.w), float64(s.h)}, {0, float64(s.h)}})
	s.r.Close()
	s.r.Fill()
	s.r.ResetStyle()
}

func (s *SVGSurface) StrokeLine(a, b Point, width float64, c color.Color) {
	s.StrokePolyline([]Point{a, b}, width, c)
}

func (s *SVGSurface) StrokePolyline(pts []Point, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	s.r.SetStrokeColor(toDrawing(c))
	s.r.SetStrokeWidth(width)
	s.path(pts)
	s.r.Stroke()
	s.r.ResetStyle()
}

func (s *SVGSurface) FillGradient(pts []Point, _, _ float64, top, bottom color.Color) {
	if len(pts) < 3 {
		return
	}
	s.r.SetFillColor(toDrawing(mix(top, bottom)))
	s.path(pts)
	s.r.Close()
	s.r.Fill()
	s.r.ResetStyle()
}

func (s *SVGSurface) Circle(center Point, radius float64, fill color.Color, outlineWidth float64, outline color.Color) {
	s.r.SetFillColor(toDrawing(fill))
	if outlineWidth > 0 {
		s.r.SetStrokeColor(toDrawing(outline))
		s.r.SetStrokeWidth(outlineWidth)
	} else {
		s.r.SetStrokeColor(drawing.ColorTransparent)
	}
	s.r.Circle(radius, px(center.X), px(center.Y))
	s.r.ResetStyle()
}

func (s *SVGSurface) Text(str string, p Point, ax, ay float64, c color.Color) {
	var w, h float64
	if s.hasFont {
		s.r.SetFontSize(svgFontSize)
		box := s.r.MeasureText(str)
		w, h = float64(box.Width()), float64(box.Height())
	} else {
		w, h = float64(7*len(str)), 13
	}
	s.r.SetFontColor(toDrawing(c))
	s.r.Text(str, px(p.X-ax*w), px(p.Y+ay*h))
}

func (s *SVGSurface) Encode(w io.Writer) error {
	return s.r.Save(w)
}

func (s *SVGSurface) ContentType() string { return "image/svg+xml" }
