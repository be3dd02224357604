package qr

import (
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var levels = []Level{LevelL, LevelM, LevelQ, LevelH}

func TestEncode_DimensionsForEverySupportedPair(t *testing.T) {
	texts := []string{
		"a",
		"https://example.com",
		"https://example.com/some/path?with=query&and=more#fragment",
		strings.Repeat("x", 99),
	}

	for _, size := range []int{200, 240, 300, 400} {
		for _, level := range levels {
			for _, text := range texts {
				t.Run(fmt.Sprintf("%d/%s/%d", size, level, len(text)), func(t *testing.T) {
					img, err := Classic.Encode(text, size, size, level)
					require.NoError(t, err)
					assert.Equal(t, size, img.Bounds().Dx())
					assert.Equal(t, size, img.Bounds().Dy())
				})
			}
		}
	}
}

func TestEncode_TinyCanvasIsScaledToRequestedSize(t *testing.T) {
	img, err := Classic.Encode("https://example.com", 10, 10, LevelH)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestEncode_NonSquare(t *testing.T) {
	img, err := Classic.Encode("https://example.com", 300, 200, LevelM)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestEncode_EmptyTextIsBlankPlaceholder(t *testing.T) {
	img, err := Classic.Encode("", 240, 240, LevelM)
	require.NoError(t, err)
	require.Equal(t, 240, img.Bounds().Dx())

	r, g, b, _ := img.At(120, 120).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestEncode_InvalidDimensions(t *testing.T) {
	_, err := Classic.Encode("x", 0, 240, LevelM)
	assert.Error(t, err)

	_, err = Classic.Encode("x", 240, -1, LevelM)
	assert.Error(t, err)
}

func TestEncode_TooLongForLevel(t *testing.T) {
	_, err := Classic.Encode(strings.Repeat("0123456789abcdef", 200), 240, 240, LevelH)
	assert.Error(t, err)
}

func TestEncode_UsesPresetColors(t *testing.T) {
	img, err := Night.Encode("https://example.com", 240, 240, LevelM)
	require.NoError(t, err)

	// the top-left corner is always quiet zone
	got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 20, G: 20, B: 20, A: 255}, got)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "L", LevelL.String())
	assert.Equal(t, "M", LevelM.String())
	assert.Equal(t, "Q", LevelQ.String())
	assert.Equal(t, "H", LevelH.String())
}
