package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldproof/fieldproof/internal/render"
)

// a4Page encodes a small A4-proportioned bitmap in the given format.
func a4Page(t *testing.T, format string) render.EncodedPage {
	t.Helper()
	const w, h = 105, 149
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 240, G: 240, B: 245, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case render.FormatPNG:
		require.NoError(t, png.Encode(&buf, img))
	case render.FormatJPG:
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %q", format)
	}
	return render.EncodedPage{Data: buf.Bytes(), Format: format, Width: w, Height: h}
}

func TestBuildDocumentPageCount(t *testing.T) {
	b := NewBuilder(testReportConfig())
	pages := []render.EncodedPage{
		a4Page(t, render.FormatPNG),
		a4Page(t, render.FormatJPG),
		a4Page(t, render.FormatPNG),
	}

	data, err := b.BuildDocument(pages)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	// Structural validity and the one-bitmap-one-page contract
	require.NoError(t, VerifyDocument(data, 3))
}

func TestBuildDocumentEmpty(t *testing.T) {
	b := NewBuilder(testReportConfig())
	_, err := b.BuildDocument(nil)
	assert.Error(t, err)
}

func TestBuildDocumentFooters(t *testing.T) {
	b := NewBuilder(testReportConfig())
	pages := []render.EncodedPage{
		a4Page(t, render.FormatPNG),
		a4Page(t, render.FormatPNG),
	}

	// Compression off so the content streams stay inspectable
	data, err := b.build(pages, false)
	require.NoError(t, err)

	for i := 1; i <= len(pages); i++ {
		footer := fmt.Sprintf("FieldProof Inspection Report | Confidential | Page %d of %d", i, len(pages))
		assert.Contains(t, string(data), footer)
	}
	assert.NotContains(t, string(data), "Page 3 of")
}

func TestVerifyDocumentPageMismatch(t *testing.T) {
	b := NewBuilder(testReportConfig())
	data, err := b.BuildDocument([]render.EncodedPage{a4Page(t, render.FormatPNG)})
	require.NoError(t, err)

	assert.Error(t, VerifyDocument(data, 2))
	assert.Error(t, VerifyDocument([]byte("not a pdf"), 1))
}
