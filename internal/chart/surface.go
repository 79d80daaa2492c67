package chart

import (
	"image/color"
	"io"
)

// Point is a position in CSS pixels.
type Point struct {
	X, Y float64
}

// Surface is a drawing target. Coordinates are CSS pixels; implementations
// apply their own device scaling.
type Surface interface {
	// Clear repaints the whole surface with c.
	Clear(c color.Color)

	// StrokeLine draws a straight segment.
	StrokeLine(a, b Point, width float64, c color.Color)

	// StrokePolyline draws connected segments through pts.
	StrokePolyline(pts []Point, width float64, c color.Color)

	// FillGradient fills the closed polygon pts with a vertical gradient
	// running from top (at y0) to bottom (at y1).
	FillGradient(pts []Point, y0, y1 float64, top, bottom color.Color)

	// Circle fills and outlines a circle. A zero outline width skips the
	// outline.
	Circle(center Point, radius float64, fill color.Color, outlineWidth float64, outline color.Color)

	// Text draws s anchored at p. ax/ay are 0..1 anchor fractions as in
	// gg.DrawStringAnchored.
	Text(s string, p Point, ax, ay float64, c color.Color)

	// Encode writes the finished image.
	Encode(w io.Writer) error

	// ContentType returns the MIME type produced by Encode.
	ContentType() string
}
