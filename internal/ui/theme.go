package ui

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/widget/material"
)

// Palette colours.
var (
	Pink      = color.NRGBA{R: 0xf2, G: 0x4f, B: 0xd1, A: 0xff}
	PinkLight = color.NRGBA{R: 0xfb, G: 0xe3, B: 0xf5, A: 0xff}
	Ink       = color.NRGBA{R: 0x2b, G: 0x1a, B: 0x27, A: 0xff}
	Paper     = color.NRGBA{R: 0xff, G: 0xf8, B: 0xfd, A: 0xff}
	Scrim     = color.NRGBA{A: 0x88}
)

// NewTheme returns the material theme with the pink palette and the Go fonts.
func NewTheme() *material.Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Palette = material.Palette{
		Bg:         Paper,
		Fg:         Ink,
		ContrastBg: Pink,
		ContrastFg: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	return th
}
