package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme is the default theme with tighter spacing and a red accent.
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

var (
	accentRed    = color.NRGBA{R: 204, G: 0, B: 0, A: 255}
	successGreen = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	errorRed     = color.NRGBA{R: 183, G: 28, B: 28, A: 255}
	warningAmber = color.NRGBA{R: 255, G: 193, B: 7, A: 255}
)

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accentRed
	case theme.ColorNameSuccess:
		return successGreen
	case theme.ColorNameError:
		return errorRed
	case theme.ColorNameWarning:
		return warningAmber
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.NRGBA{R: 24, G: 24, B: 24, A: 255}
		}
		return color.NRGBA{R: 249, G: 249, B: 249, A: 255}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}
	return t.base.Size(name)
}
