package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/render"
	"github.com/fieldproof/fieldproof/internal/report"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load("nonexistent.yaml")
	require.NoError(t, err)

	exporter := report.NewExporter(cfg.Report, render.NewSession(render.DefaultOptions()))
	return New(cfg, exporter)
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t)
	s.SetupRoutes()

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServerStopWithoutStart(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Stop())
}
