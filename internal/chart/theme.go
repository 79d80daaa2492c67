package chart

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme is the palette used by Render.
type Theme struct {
	Name          string
	Background    color.NRGBA
	Grid          color.NRGBA
	Label         color.NRGBA
	Line          color.NRGBA
	Glow          color.NRGBA
	FillTop       color.NRGBA
	FillBottom    color.NRGBA
	Marker        color.NRGBA
	MarkerOutline color.NRGBA
	Placeholder   color.NRGBA
}

// ThemeClassic is the light finance dashboard skin.
var ThemeClassic = Theme{
	Name:          "classic",
	Background:    color.NRGBA{0xff, 0xff, 0xff, 0xff},
	Grid:          color.NRGBA{0xe5, 0xe7, 0xeb, 0xff},
	Label:         color.NRGBA{0x6b, 0x72, 0x80, 0xff},
	Line:          color.NRGBA{0x25, 0x63, 0xeb, 0xff},
	Glow:          color.NRGBA{0x25, 0x63, 0xeb, 0x40},
	FillTop:       color.NRGBA{0x25, 0x63, 0xeb, 0x59},
	FillBottom:    color.NRGBA{0x25, 0x63, 0xeb, 0x00},
	Marker:        color.NRGBA{0x25, 0x63, 0xeb, 0xff},
	MarkerOutline: color.NRGBA{0x11, 0x18, 0x27, 0xff},
	Placeholder:   color.NRGBA{0x9c, 0xa3, 0xaf, 0xff},
}

// ThemeHUD is the dark sci-fi skin.
var ThemeHUD = Theme{
	Name:          "hud",
	Background:    color.NRGBA{0x05, 0x0b, 0x14, 0xff},
	Grid:          color.NRGBA{0x0e, 0x3a, 0x4a, 0xff},
	Label:         color.NRGBA{0x5e, 0xea, 0xd4, 0xcc},
	Line:          color.NRGBA{0x22, 0xd3, 0xee, 0xff},
	Glow:          color.NRGBA{0x22, 0xd3, 0xee, 0x55},
	FillTop:       color.NRGBA{0x22, 0xd3, 0xee, 0x4d},
	FillBottom:    color.NRGBA{0x22, 0xd3, 0xee, 0x00},
	Marker:        color.NRGBA{0x67, 0xe8, 0xf9, 0xff},
	MarkerOutline: color.NRGBA{0x02, 0x06, 0x0c, 0xff},
	Placeholder:   color.NRGBA{0x5e, 0xea, 0xd4, 0x99},
}

// ThemeByName looks up a skin. Empty selects classic.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return ThemeClassic, nil
	case "hud":
		return ThemeHUD, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}
