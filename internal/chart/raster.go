package chart

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// RasterSurface draws into an RGBA buffer sized by the device pixel ratio
// and encodes PNG.
type RasterSurface struct {
	dc    *gg.Context
	scale float64
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface allocates a buffer for vp, capped at maxDPR.
func NewRasterSurface(vp Viewport, maxDPR float64) *RasterSurface {
	w, h, scale := vp.BufferSize(maxDPR)
	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineCap(gg.LineCapRound)
	return &RasterSurface{dc: dc, scale: scale}
}

// Scale returns the effective device pixel ratio.
func (s *RasterSurface) Scale() float64 { return s.scale }

// Image exposes the backing buffer.
func (s *RasterSurface) Image() image.Image { return s.dc.Image() }

func (s *RasterSurface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *RasterSurface) StrokeLine(a, b Point, width float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	s.dc.Stroke()
}

func (s *RasterSurface) StrokePolyline(pts []Point, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.NewSubPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.Stroke()
}

func (s *RasterSurface) FillGradient(pts []Point, y0, y1 float64, top, bottom color.Color) {
	if len(pts) < 3 {
		return
	}
	// Gradients are sampled in device pixels.
	grad := gg.NewLinearGradient(0, y0*s.scale, 0, y1*s.scale)
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)

	s.dc.NewSubPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.ClosePath()
	s.dc.SetFillStyle(grad)
	s.dc.Fill()
}

func (s *RasterSurface) Circle(center Point, radius float64, fill color.Color, outlineWidth float64, outline color.Color) {
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.dc.SetColor(fill)
	if outlineWidth <= 0 {
		s.dc.Fill()
		return
	}
	s.dc.FillPreserve()
	s.dc.SetColor(outline)
	s.dc.SetLineWidth(outlineWidth)
	s.dc.Stroke()
}

func (s *RasterSurface) Text(str string, p Point, ax, ay float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, p.X, p.Y, ax, ay)
}

func (s *RasterSurface) Encode(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *RasterSurface) ContentType() string { return "image/png" }
