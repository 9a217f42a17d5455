package theme

import (
	"image/color"
	"runtime"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the trainer colors.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Primary    color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Typed      color.NRGBA
	Error      color.NRGBA
}

// Config defines the trainer metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	FontDisplay  unit.Sp
	FontKana     unit.Sp
	FontRomaji   unit.Sp
	FontCaption  unit.Sp
	// ShakeAmplitude is the peak miss wobble.
	ShakeAmplitude unit.Dp
}

// Theme wraps the material theme with trainer styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
	Name    string
}

// NewTheme creates a theme for the named palette ("light" or "dark") with
// platform metrics.
func NewTheme(mtheme *material.Theme, name string) *Theme {
	t := &Theme{Theme: mtheme}
	t.Config = platformConfig()
	t.SetPalette(name)
	return t
}

// SetPalette switches between the light and dark palettes. Unknown names
// fall back to light.
func (t *Theme) SetPalette(name string) {
	if name == "dark" {
		t.Palette = darkPalette
	} else {
		name = "light"
		t.Palette = lightPalette
	}
	t.Name = name
	t.Theme.Palette.Bg = t.Palette.Background
	t.Theme.Palette.Fg = t.Palette.Text
	t.Theme.Palette.ContrastBg = t.Palette.Primary
}

var lightPalette = Palette{
	Background: color.NRGBA{R: 0xFA, G: 0xFA, B: 0xF7, A: 0xFF},
	Surface:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Primary:    color.NRGBA{R: 0x00, G: 0x78, B: 0xD4, A: 0xFF},
	Text:       color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF},
	TextMuted:  color.NRGBA{R: 0x8A, G: 0x8A, B: 0x8A, A: 0xFF},
	Typed:      color.NRGBA{R: 0x2E, G: 0x9E, B: 0x44, A: 0xFF},
	Error:      color.NRGBA{R: 0xE8, G: 0x11, B: 0x23, A: 0xFF},
}

var darkPalette = Palette{
	Background: color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF},
	Surface:    color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xFF},
	Primary:    color.NRGBA{R: 0x0A, G: 0x84, B: 0xFF, A: 0xFF},
	Text:       color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF7, A: 0xFF},
	TextMuted:  color.NRGBA{R: 0x86, G: 0x86, B: 0x8B, A: 0xFF},
	Typed:      color.NRGBA{R: 0x30, G: 0xD1, B: 0x58, A: 0xFF},
	Error:      color.NRGBA{R: 0xFF, G: 0x45, B: 0x3A, A: 0xFF},
}

func platformConfig() Config {
	c := Config{
		CornerRadius:   unit.Dp(4),
		Spacing:        unit.Dp(8),
		Padding:        unit.Dp(16),
		FontDisplay:    unit.Sp(48),
		FontKana:       unit.Sp(24),
		FontRomaji:     unit.Sp(22),
		FontCaption:    unit.Sp(12),
		ShakeAmplitude: unit.Dp(12),
	}
	if runtime.GOOS == "darwin" {
		// macOS corners and spacing run larger.
		c.CornerRadius = unit.Dp(10)
		c.Spacing = unit.Dp(10)
		c.Padding = unit.Dp(20)
		c.FontCaption = unit.Sp(11)
	}
	return c
}
