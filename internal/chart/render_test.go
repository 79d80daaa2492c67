package chart

import (
	"bytes"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"adam-dashboard/internal/domain"
)

func TestRender_EmptySeriesIsIdempotent(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	Render(first, nil, domain.Range24H, testViewport, Options{})
	Render(second, domain.Series{}, domain.Range24H, testViewport, Options{})

	if !reflect.DeepEqual(first.ops, second.ops) {
		t.Errorf("ops differ:\n%v\n%v", first.ops, second.ops)
	}
	if len(first.texts) != 1 || first.texts[0] != "NO DATA" {
		t.Errorf("texts = %v, want [NO DATA]", first.texts)
	}
	lines := 0
	for _, op := range first.ops {
		if op == "line" {
			lines++
		}
		if strings.HasPrefix(op, "polyline") || op == "circle" || op == "gradient" {
			t.Errorf("unexpected op %q for empty series", op)
		}
	}
	if lines != 6 {
		t.Errorf("gridlines = %d, want 6", lines)
	}
}

func TestRender_EmptyRepaintMatchesFreshSurface(t *testing.T) {
	vp := Viewport{Width: 320, Height: 160, DevicePixelRatio: 2}
	encode := func(surf *RasterSurface) []byte {
		var buf bytes.Buffer
		if err := surf.Encode(&buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}

	reused := NewRasterSurface(vp, DefaultMaxDevicePixelRatio)
	s := domain.Series{{Time: 0, Value: 100}, {Time: 3600, Value: 250}, {Time: 7200, Value: 180}}
	Render(reused, s, domain.Range24H, vp, Options{Theme: ThemeHUD})
	Render(reused, nil, domain.Range24H, vp, Options{Theme: ThemeHUD})

	fresh := NewRasterSurface(vp, DefaultMaxDevicePixelRatio)
	Render(fresh, nil, domain.Range24H, vp, Options{Theme: ThemeHUD})

	if !bytes.Equal(encode(reused), encode(fresh)) {
		t.Error("empty render over a drawn surface differs from a fresh empty render")
	}
}

func TestRender_DrawOrder(t *testing.T) {
	rec := &recorder{}
	s := domain.Series{{Time: 120, Value: 3}, {Time: 0, Value: 1}, {Time: 60, Value: 2}}
	frame := Render(rec, s, domain.Range1H, testViewport, Options{})

	want := []string{
		"clear",
		"line", "line", "line", "line", "line", "line",
		"text", "text", "text",
		"polyline:6", "polyline:2",
		"gradient",
		"circle", "circle", "circle",
	}
	if !reflect.DeepEqual(rec.ops, want) {
		t.Errorf("ops = %v\nwant %v", rec.ops, want)
	}
	if frame.Empty || frame.Scale.N != 3 {
		t.Errorf("frame = %+v", frame)
	}
	if s[0].Time != 120 {
		t.Error("caller series was reordered")
	}
	if rec.texts[0] != "00:00" || rec.texts[2] != "00:02" {
		t.Errorf("tick labels = %v", rec.texts)
	}
}

func TestRender_GridlinesEvenlySpaced(t *testing.T) {
	rec := &recorder{}
	Render(rec, nil, domain.Range24H, testViewport, Options{})
	plot := testViewport.PlotRect()
	step := plot.H / 5
	for i, l := range rec.lines {
		want := plot.Y + step*float64(i)
		if l[0].Y != want || l[1].Y != want {
			t.Errorf("gridline %d at y=%g, want %g", i, l[0].Y, want)
		}
	}
}

func TestRender_NilSurface(t *testing.T) {
	frame := Render(nil, domain.Series{{Time: 0, Value: 1}}, domain.Range24H, testViewport, Options{})
	if frame.Scale.N != 1 {
		t.Errorf("frame scale N = %d, want 1", frame.Scale.N)
	}
}

func TestRasterSurface_EncodesPNG(t *testing.T) {
	vp := Viewport{Width: 320, Height: 160, DevicePixelRatio: 3}
	surf := NewRasterSurface(vp, DefaultMaxDevicePixelRatio)
	s := domain.Series{{Time: 0, Value: 100}, {Time: 3600, Value: 200}, {Time: 7200, Value: 150}}
	Render(surf, s, domain.Range24H, vp, Options{Theme: ThemeHUD})

	var buf bytes.Buffer
	if err := surf.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 320 {
		t.Errorf("buffer = %dx%d, want 640x320", b.Dx(), b.Dy())
	}
	if surf.ContentType() != "image/png" {
		t.Errorf("content type = %s", surf.ContentType())
	}
}

func TestSVGSurface_Encodes(t *testing.T) {
	vp := Viewport{Width: 320, Height: 160}
	surf, err := NewSVGSurface(vp)
	if err != nil {
		t.Fatalf("new svg surface: %v", err)
	}
	Render(surf, nil, domain.Range7D, vp, Options{})

	var buf bytes.Buffer
	if err := surf.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatalf("output is not svg: %.80s", out)
	}
	if !strings.Contains(out, "NO DATA") {
		t.Error("svg is missing the placeholder text")
	}
}

func TestThemeByName(t *testing.T) {
	if th, err := ThemeByName("HUD"); err != nil || th.Name != "hud" {
		t.Errorf("ThemeByName(HUD) = %v, %v", th.Name, err)
	}
	if th, _ := ThemeByName(""); th.Name != "classic" {
		t.Errorf("default theme = %s", th.Name)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
