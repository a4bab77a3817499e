// Package render drives a headless Chrome instance to turn assembled page
// HTML into per-page bitmap captures.
package render

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/pkg/logger"
)

// Mount stages an assembled HTML document where the browser can load it: a
// temporary file addressed by a file:// URL. The owning orchestrator must
// call Teardown on every exit path; Teardown is idempotent.
type Mount struct {
	path string
	once sync.Once
}

// NewMount writes the document to a temporary file and returns the mount.
func NewMount(html string) (*Mount, error) {
	f, err := os.CreateTemp("", "fieldproof-pages-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create mount file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write mount file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close mount file: %w", err)
	}

	logger.Debug("Mounted page document",
		zap.String("path", path),
		zap.Int("html_size", len(html)),
	)
	return &Mount{path: path}, nil
}

// URL returns the file:// URL the browser navigates to.
func (m *Mount) URL() string {
	return "file://" + m.path
}

// Path returns the on-disk location of the mounted document.
func (m *Mount) Path() string {
	return m.path
}

// Teardown removes the staged document. Safe to call multiple times; only
// the first call has effect.
func (m *Mount) Teardown() {
	m.once.Do(func() {
		if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove mounted document",
				zap.String("path", m.path),
				zap.Error(err),
			)
			return
		}
		logger.Debug("Mount torn down", zap.String("path", m.path))
	})
}
