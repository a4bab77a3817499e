package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBitmap(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: 200, A: 255})
		}
	}
	return img
}

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testBitmap(w, h)))
	return buf.Bytes()
}

func encodedJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testBitmap(w, h), nil))
	return buf.Bytes()
}

func TestEncodePagePNGPassthrough(t *testing.T) {
	raw := encodedPNG(t, 32, 48)

	page, err := EncodePage(raw)
	require.NoError(t, err)

	assert.Equal(t, FormatPNG, page.Format)
	assert.Equal(t, raw, page.Data, "lossless captures must pass through unmodified")
	assert.Equal(t, 32, page.Width)
	assert.Equal(t, 48, page.Height)
}

func TestEncodePageJPEGKeptAsIs(t *testing.T) {
	raw := encodedJPEG(t, 20, 10)

	page, err := EncodePage(raw)
	require.NoError(t, err)

	assert.Equal(t, FormatJPG, page.Format)
	assert.Equal(t, raw, page.Data)
	assert.Equal(t, 20, page.Width)
	assert.Equal(t, 10, page.Height)
}

func TestEncodePageUndecodable(t *testing.T) {
	for name, raw := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
		"truncated": encodedPNG(t, 8, 8)[:6],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := EncodePage(raw)
			assert.Error(t, err)
		})
	}
}
