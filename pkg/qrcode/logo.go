package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// svgRasterSize is the longest side an SVG logo is rasterized at before it
// gets scaled down onto the code.
const svgRasterSize = 512

// MaxLogoSide is the largest width or height a raster logo may declare.
const MaxLogoSide = 4096

var (
	ErrEmptyLogo    = errors.New("empty logo")
	ErrLogoTooLarge = errors.New("logo dimensions too large")
)

// DecodeLogo decodes a PNG, JPEG, GIF, WebP, BMP, TIFF or SVG logo. Raster
// logos are checked against MaxLogoSide before any pixels are allocated.
func DecodeLogo(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyLogo
	}
	if isSVG(data) {
		return decodeSVG(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxLogoSide || cfg.Height > MaxLogoSide {
		return nil, fmt.Errorf("%w: %dx%d, at most %dx%d", ErrLogoTooLarge, cfg.Width, cfg.Height, MaxLogoSide, MaxLogoSide)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as a PNG stream.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimPrefix(bytes.TrimSpace(head), []byte("\xef\xbb\xbf"))
	if bytes.HasPrefix(head, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg logo: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	width, height := svgRasterSize, svgRasterSize
	if w > h {
		height = int(float64(svgRasterSize) * h / w)
	} else if h > w {
		width = int(float64(svgRasterSize) * w / h)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return img, nil
}
