package qr

import "image/color"

// Classic is the default black on white renderer used by the popup.
var Classic = SkipRenderer{
	Background: color.White,
	Foreground: color.Black,
}

// Night renders light modules on a dark background.
var Night = SkipRenderer{
	Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
	Foreground: color.RGBA{R: 230, G: 230, B: 230, A: 255},
}

// Presets maps config names onto renderers.
var Presets = map[string]SkipRenderer{
	"classic": Classic,
	"night":   Night,
}
