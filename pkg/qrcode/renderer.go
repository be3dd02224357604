package qr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

// Level is an error correction level of the code.
type Level int

const (
	LevelL Level = iota
	LevelM
	LevelQ
	LevelH
)

// RecoveryLevel maps the level onto go-qrcode's recovery levels.
func (l Level) RecoveryLevel() qrcode.RecoveryLevel {
	switch l {
	case LevelL:
		return qrcode.Low
	case LevelQ:
		return qrcode.High
	case LevelH:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	default:
		return "M"
	}
}

// Renderer turns text into a code image of the requested pixel dimensions.
type Renderer interface {
	Encode(text string, width, height int, level Level) (image.Image, error)
}

// SkipRenderer renders codes with github.com/skip2/go-qrcode.
type SkipRenderer struct {
	Background    color.Color
	Foreground    color.Color
	DisableBorder bool
}

// Encode returns a width×height image encoding text.
// Empty text yields a blank placeholder of the same dimensions.
func (r SkipRenderer) Encode(text string, width, height int, level Level) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if text == "" {
		return r.blank(width, height), nil
	}

	code, err := qrcode.New(text, level.RecoveryLevel())
	if err != nil {
		return nil, err
	}
	code.DisableBorder = r.DisableBorder
	if r.Background != nil {
		code.BackgroundColor = r.Background
	}
	if r.Foreground != nil {
		code.ForegroundColor = r.Foreground
	}

	side := width
	if height > side {
		side = height
	}
	img := code.Image(side)

	// go-qrcode silently grows the image when side is smaller than the module
	// count and never produces non-square output.
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)
	}
	return img, nil
}

func (r SkipRenderer) blank(width, height int) image.Image {
	dc := gg.NewContext(width, height)
	if r.Background != nil {
		dc.SetColor(r.Background)
	} else {
		dc.SetColor(color.White)
	}
	dc.Clear()
	return dc.Image()
}
