package qr

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

// platePadding is the white margin around the logo relative to its size.
const platePadding = 0.08

// Placement describes where the logo and its backing plate land on a
// size×size code.
type Placement struct {
	Size     int
	LogoSize int
	X, Y     int
	Pad      int
}

// ClampScale limits a logo scale to [0, 100] percent.
func ClampScale(scalePercent int) int {
	switch {
	case scalePercent < 0:
		return 0
	case scalePercent > 100:
		return 100
	default:
		return scalePercent
	}
}

// Place computes the centred logo placement for the given code size.
func Place(size, scalePercent int) Placement {
	logoSize := round(float64(size) * float64(ClampScale(scalePercent)) / 100)
	offset := round(float64(size-logoSize) / 2)
	return Placement{
		Size:     size,
		LogoSize: logoSize,
		X:        offset,
		Y:        offset,
		Pad:      round(float64(logoSize) * platePadding),
	}
}

// Logo is the rectangle the scaled logo occupies.
func (p Placement) Logo() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.LogoSize, p.Y+p.LogoSize)
}

// Plate is the white backing rectangle, possibly extending past the frame.
func (p Placement) Plate() image.Rectangle {
	return image.Rect(p.X-p.Pad, p.Y-p.Pad, p.X+p.LogoSize+p.Pad, p.Y+p.LogoSize+p.Pad)
}

// Overlay draws logo centred on a copy of base over a white plate.
// base is never modified.
func Overlay(base, logo image.Image, scalePercent int) *image.RGBA {
	p := Place(base.Bounds().Dx(), scalePercent)

	dc := gg.NewContextForImage(base)
	if p.LogoSize > 0 {
		plate := p.Plate()
		dc.SetColor(color.White)
		dc.DrawRectangle(float64(plate.Min.X), float64(plate.Min.Y), float64(plate.Dx()), float64(plate.Dy()))
		dc.Fill()

		scaled := resize.Resize(uint(p.LogoSize), uint(p.LogoSize), logo, resize.Lanczos3)
		dc.DrawImage(scaled, p.X, p.Y)
	}

	return dc.Image().(*image.RGBA)
}

// Composite decodes logo and overlays it on base.
func Composite(base image.Image, logo []byte, scalePercent int) (*image.RGBA, error) {
	img, err := DecodeLogo(logo)
	if err != nil {
		return nil, err
	}
	return Overlay(base, img, scalePercent), nil
}

// round rounds halves up; inputs are never negative.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ToRGBA returns img as an *image.RGBA anchored at the origin, copying it
// unless it already is one.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	return gg.NewContextForImage(img).Image().(*image.RGBA)
}
