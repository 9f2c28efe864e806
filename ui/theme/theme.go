package theme

// Centralized theming for the annotator: the colors annotations are drawn with
// and the Tk styles of the launcher form.

import (
	"image/color"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Launcher palette.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff"
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// Annotation colors. Outlines are drawn in blue; named choices map to the
// annotation_color config values.
var (
	AnnotationBlue  = color.RGBA{0, 0, 255, 255}
	AnnotationGreen = color.RGBA{0, 200, 0, 255}
	AnnotationRed   = color.RGBA{255, 0, 0, 255}
	AnnotationCyan  = color.RGBA{0, 220, 220, 255}
)

// AnnotationColor resolves a color name, falling back to blue.
func AnnotationColor(name string) color.RGBA {
	switch name {
	case "green":
		return AnnotationGreen
	case "red":
		return AnnotationRed
	case "cyan":
		return AnnotationCyan
	default:
		return AnnotationBlue
	}
}

// AnnotationColorNames lists the accepted annotation color names.
var AnnotationColorNames = []string{"blue", "green", "red", "cyan"}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleHintLabel     = "hint.TLabel"
)

// InitStyles activates the base theme and configures the launcher styles.
func InitStyles() {
	_ = ActivateTheme("azure light")
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleHintLabel,
		Foreground(ColorTextMuted),
		Background(ColorBg),
		Padding("2p 1p"),
	)
}
