package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/pkg/logger"
	"github.com/fieldproof/fieldproof/pkg/telemetry"
)

// Image format identifiers as understood by the PDF builder.
const (
	FormatPNG = "PNG"
	FormatJPG = "JPG"
)

// jpegFallbackQuality is used when the lossless capture is unusable.
const jpegFallbackQuality = 95

// EncodedPage is one rasterized page ready for embedding into the output
// document.
type EncodedPage struct {
	// Data is the encoded image payload.
	Data []byte
	// Format is FormatPNG or FormatJPG.
	Format string
	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int
}

var (
	pngSignature  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSignature = []byte{0xff, 0xd8}
)

// EncodePage turns a raw capture into an embeddable page image. The lossless
// format is preferred; when the capture is not recognizably PNG it falls back
// to fixed-quality JPEG. The only failure mode is a capture that no decoder
// understands, which callers treat as a rendering failure.
func EncodePage(raw []byte) (EncodedPage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return EncodedPage{}, fmt.Errorf("capture is not a decodable image: %w", err)
	}

	if bytes.HasPrefix(raw, pngSignature) {
		return EncodedPage{Data: raw, Format: FormatPNG, Width: cfg.Width, Height: cfg.Height}, nil
	}

	// Engine quirk: the capture came back in another format despite the
	// lossless request. Keep JPEG as-is, transcode anything else.
	if bytes.HasPrefix(raw, jpegSignature) {
		recordEncodeFallback()
		return EncodedPage{Data: raw, Format: FormatJPG, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return EncodedPage{}, fmt.Errorf("capture is not a decodable image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegFallbackQuality}); err != nil {
		return EncodedPage{}, fmt.Errorf("jpeg fallback encoding failed: %w", err)
	}

	recordEncodeFallback()
	logger.Debug("Page capture fell back to lossy encoding",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	return EncodedPage{Data: buf.Bytes(), Format: FormatJPG, Width: cfg.Width, Height: cfg.Height}, nil
}

func recordEncodeFallback() {
	if counter := telemetry.GetMetrics().EncodeFallback; counter != nil {
		counter.Add(context.Background(), 1)
	}
}
