package chart

import (
	"fmt"
	"image/color"
	"io"
)

// recorder is a Surface that logs calls.
type recorder struct {
	ops   []string
	texts []string
	lines [][]Point
}

func (r *recorder) Clear(color.Color) { r.ops = append(r.ops, "clear") }

func (r *recorder) StrokeLine(a, b Point, _ float64, _ color.Color) {
	r.ops = append(r.ops, "line")
	r.lines = append(r.lines, []Point{a, b})
}

func (r *recorder) StrokePolyline(pts []Point, w float64, _ color.Color) {
	r.ops = append(r.ops, fmt.Sprintf("polyline:%g", w))
}

func (r *recorder) FillGradient([]Point, float64, float64, color.Color, color.Color) {
	r.ops = append(r.ops, "gradient")
}

func (r *recorder) Circle(Point, float64, color.Color, float64, color.Color) {
	r.ops = append(r.ops, "circle")
}

func (r *recorder) Text(s string, _ Point, _, _ float64, _ color.Color) {
	r.ops = append(r.ops, "text")
	r.texts = append(r.texts, s)
}

func (r *recorder) Encode(io.Writer) error { return nil }
func (r *recorder) ContentType() string    { return "test/recorder" }
