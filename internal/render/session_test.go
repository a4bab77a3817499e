package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chromeBinaries are the executables probed when CHROME_PATH is not set.
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

func requireChrome(t *testing.T) {
	t.Helper()
	if os.Getenv("CHROME_PATH") != "" {
		return
	}
	for _, name := range chromeBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium binary found, skipping browser rendering test")
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// testDocument holds two fixed-size page containers with one loadable and
// one broken image, so the settle gate has both outcomes to handle.
func testDocument(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><style>
body { margin: 0; }
.pg { overflow: hidden; background: #fff; }
</style></head>
<body>
<div class="pg" id="page-1" style="width:200px;height:100px">
  <img src=%q alt="good">
  <p>First page</p>
</div>
<div class="pg" id="page-2" style="width:200px;height:150px">
  <img src="/nonexistent-photo.png" alt="broken">
  <p>Second page</p>
</div>
</body>
</html>`, pngDataURI(t))
}

func TestRenderPagesWithSettledImages(t *testing.T) {
	requireChrome(t)

	m, err := NewMount(testDocument(t))
	require.NoError(t, err)
	defer m.Teardown()

	s := NewSession(Options{Timeout: 90 * time.Second, Scale: 2.0})
	pages, err := s.RenderPages(context.Background(), m.URL(), []string{"page-1", "page-2"})
	require.NoError(t, err, "a broken image must settle, not abort the render")
	require.Len(t, pages, 2)

	// Captures come back in container order at 2x the CSS extent
	assert.InDelta(t, 400, pages[0].Width, 2)
	assert.InDelta(t, 200, pages[0].Height, 2)
	assert.InDelta(t, 400, pages[1].Width, 2)
	assert.InDelta(t, 300, pages[1].Height, 2)

	for _, pg := range pages {
		assert.Equal(t, FormatPNG, pg.Format)
		assert.NotEmpty(t, pg.Data)
	}
}

func TestRenderPagesMissingContainer(t *testing.T) {
	requireChrome(t)

	m, err := NewMount(testDocument(t))
	require.NoError(t, err)
	defer m.Teardown()

	s := NewSession(Options{Timeout: 90 * time.Second, Scale: 2.0})
	_, err = s.RenderPages(context.Background(), m.URL(), []string{"page-1", "page-404"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page-404")
}
