// Package theme is the light fyne theme the gauges are drawn for.
package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

type GaugeTheme struct{}

func (m GaugeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	case theme.ColorNameForeground:
		// matches the gauge labels
		return color.RGBA{A: 0xff}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 0xff, G: 0x63, B: 0x47, A: 0xff}
	}
	return theme.DefaultTheme().Color(name, theme.VariantLight)
}

func (m GaugeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m GaugeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m GaugeTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameSeparatorThickness:
		return 0
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameScrollBarSmall:
		return 5
	case theme.SizeNameScrollBar:
		return 8
	}
	return theme.DefaultTheme().Size(name)
}
