package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/pkg/logger"
	"github.com/fieldproof/fieldproof/pkg/telemetry"
)

// A4 portrait at 96 DPI. The emulated viewport matches the page container
// width so layout is deterministic regardless of the host display.
const (
	viewportWidth  = 794
	viewportHeight = 1123
)

// Options contains configuration for the rendering session
type Options struct {
	// ChromePath overrides the Chrome executable location.
	// The CHROME_PATH environment variable takes precedence.
	ChromePath string

	// Timeout bounds one whole render run: navigation, image settling
	// and every page capture together.
	Timeout time.Duration

	// Scale is the supersampling factor applied to page captures
	// (2.0 = 2x device pixels for print sharpness).
	Scale float64
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{
		Timeout: 120 * time.Second,
		Scale:   2.0,
	}
}

// Session renders assembled page documents with headless Chrome. Pages are
// captured strictly in order, one at a time; each capture is encoded before
// the next begins, bounding peak memory.
type Session struct {
	opts Options
}

// NewSession creates a rendering session with the given options
func NewSession(opts Options) *Session {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	return &Session{opts: opts}
}

// settleImagesJS waits for every image in the document to settle: either a
// successful load or a definitive error. An erroring image resolves rather
// than rejects, so one broken image never stalls or aborts the batch.
const settleImagesJS = `(() => {
	const imgs = Array.from(document.images);
	return Promise.all(imgs.map((img) => img.complete
		? Promise.resolve(!!img.naturalWidth)
		: new Promise((resolve) => {
			img.addEventListener('load', () => resolve(true), { once: true });
			img.addEventListener('error', () => resolve(false), { once: true });
		})));
})()`

// pageBox is the layout rectangle of one page container.
type pageBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderPages navigates to the mounted document, waits for every embedded
// image to settle, then captures and encodes each page container in order.
// Any capture failure aborts the whole run; no partial page set is returned.
func (s *Session) RenderPages(ctx context.Context, mountURL string, pageIDs []string) ([]EncodedPage, error) {
	startTime := time.Now()

	logger.Info("Starting page rendering",
		zap.String("url", mountURL),
		zap.Int("pages", len(pageIDs)),
		zap.Duration("timeout", s.opts.Timeout),
		zap.Float64("scale", s.opts.Scale),
	)

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
	)

	if path := s.chromePath(); path != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
		logger.Debug("Using custom Chrome path", zap.String("chrome_path", path))
	}

	// Increase WebSocket URL timeout (default is 20s which may not be enough for slow systems)
	allocOpts = append(allocOpts, chromedp.WSURLReadTimeout(60*time.Second))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf("chromedp: "+format, args...))
		}),
	)
	defer browserCancel()

	var settled []bool
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Reports never use transparent backgrounds; pin white so
			// uncovered regions do not come out black in JPEG fallback.
			return emulation.SetDefaultBackgroundColorOverride().
				WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}).
				Do(ctx)
		}),
		chromedp.Navigate(mountURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(settleImagesJS, &settled,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load mounted document: %w", err)
	}

	failedImages := 0
	for _, ok := range settled {
		if !ok {
			failedImages++
		}
	}
	if failedImages > 0 {
		// Settled-with-error images render blank; the export proceeds.
		logger.Warn("Some embedded images failed to load",
			zap.Int("failed", failedImages),
			zap.Int("total", len(settled)),
		)
	}
	logger.Debug("All embedded images settled",
		zap.Int("images", len(settled)),
		zap.Duration("duration", time.Since(startTime)),
	)

	pages := make([]EncodedPage, 0, len(pageIDs))
	for i, id := range pageIDs {
		captureStart := time.Now()
		encoded, err := s.capturePage(browserCtx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to capture page %d (%s): %w", i+1, id, err)
		}
		logger.Debug("Page captured",
			zap.String("page_id", id),
			zap.String("format", encoded.Format),
			zap.Int("width", encoded.Width),
			zap.Int("height", encoded.Height),
			zap.Duration("duration", time.Since(captureStart)),
		)
		pages = append(pages, encoded)
	}

	if m := telemetry.GetMetrics(); m.RenderDuration != nil {
		m.RenderDuration.Record(ctx, time.Since(startTime).Seconds())
	}
	logger.Info("Page rendering completed",
		zap.Int("pages", len(pages)),
		zap.Duration("total_duration", time.Since(startTime)),
	)
	return pages, nil
}

// capturePage rasterizes one page container: scroll pinned to origin, clip
// sized to the container's full layout extent, lossless format requested.
func (s *Session) capturePage(ctx context.Context, id string) (EncodedPage, error) {
	expr := fmt.Sprintf(`(() => {
		window.scrollTo(0, 0);
		const el = document.getElementById(%q);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return { x: r.x + window.scrollX, y: r.y + window.scrollY, width: r.width, height: r.height };
	})()`, id)

	var box *pageBox
	var raw []byte
	err := chromedp.Run(ctx,
		chromedp.Evaluate(expr, &box),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if box == nil {
				return fmt.Errorf("page container %q not found", id)
			}
			if box.Width <= 0 || box.Height <= 0 {
				return fmt.Errorf("page container %q has zero extent", id)
			}
			var err error
			raw, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{
					X:      box.X,
					Y:      box.Y,
					Width:  box.Width,
					Height: box.Height,
					Scale:  s.opts.Scale,
				}).
				WithCaptureBeyondViewport(true).
				WithFromSurface(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return EncodedPage{}, err
	}

	return EncodePage(raw)
}

// chromePath resolves the Chrome executable override, environment first.
func (s *Session) chromePath() string {
	if path := os.Getenv("CHROME_PATH"); path != "" {
		return path
	}
	return s.opts.ChromePath
}
