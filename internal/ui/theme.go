package ui

import "github.com/gdamore/tcell/v2"

// TokyoNight color palette with the app accent
var (
	// Background colors
	ColorBg          = tcell.NewRGBColor(0x1a, 0x1b, 0x26) // #1a1b26 - Dark background
	ColorBgDark      = tcell.NewRGBColor(0x16, 0x16, 0x1e) // #16161e - Darker background
	ColorBgHighlight = tcell.NewRGBColor(0x29, 0x2e, 0x42) // #292e42 - Highlighted background

	// Foreground colors
	ColorFg       = tcell.NewRGBColor(0xc0, 0xca, 0xf5) // #c0caf5 - Default text
	ColorFgDark   = tcell.NewRGBColor(0x56, 0x5f, 0x89) // #565f89 - Dimmed text
	ColorFgGutter = tcell.NewRGBColor(0x3b, 0x42, 0x61) // #3b4261 - Gutter/border

	// Accent colors
	ColorAccent = tcell.NewRGBColor(0x2a, 0xbf, 0x91) // #2abf91 - App accent
	ColorBlue   = tcell.NewRGBColor(0x7a, 0xa2, 0xf7) // #7aa2f7 - Primary blue
	ColorGreen  = tcell.NewRGBColor(0x9e, 0xce, 0x6a) // #9ece6a - Green
	ColorRed    = tcell.NewRGBColor(0xf7, 0x76, 0x8e) // #f7768e - Red
	ColorYellow = tcell.NewRGBColor(0xe0, 0xaf, 0x68) // #e0af68 - Yellow

	// UI-specific color mappings
	ColorHeading   = ColorAccent // First-line heading
	ColorHighlight = ColorYellow // Search highlights
	ColorAI        = ColorBlue   // Generated suggestions
	ColorStatus    = ColorFgDark // Status bar text
	ColorBorder    = ColorFgGutter
	ColorError     = ColorRed
	ColorSuccess   = ColorGreen
)

// BaseStyle is the style of unformatted text
func BaseStyle() tcell.Style {
	return tcell.StyleDefault.Background(ColorBg).Foreground(ColorFg)
}
