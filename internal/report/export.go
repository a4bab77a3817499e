package report

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/model"
	"github.com/fieldproof/fieldproof/internal/render"
	"github.com/fieldproof/fieldproof/pkg/errors"
	"github.com/fieldproof/fieldproof/pkg/idgen"
	"github.com/fieldproof/fieldproof/pkg/logger"
	"github.com/fieldproof/fieldproof/pkg/telemetry"
)

// User-facing failure messages. Pipeline internals are logged with the
// export id, never surfaced to the caller.
const (
	msgMissingProject = "Please fill in the project name before exporting"
	msgPreviewMissing = "Report preview not found. Open the report preview and try the export again"
	msgExportFailed   = "Failed to generate the report document. Please try again"
	msgExportTimeout  = "Report generation timed out. Please try again"
)

// Export modes as reported in logs and metrics.
const (
	ModeReport  = "report"
	ModeSummary = "summary"
	ModeWord    = "word"
)

// PageRenderer rasterizes the page containers of a mounted document.
// *render.Session is the production implementation.
type PageRenderer interface {
	RenderPages(ctx context.Context, mountURL string, pageIDs []string) ([]render.EncodedPage, error)
}

// ExportResult is a finished document ready for download.
type ExportResult struct {
	// Filename is the suggested download name.
	Filename string
	// Data is the complete PDF payload.
	Data []byte
	// Pages is the physical page count.
	Pages int
}

// Exporter orchestrates the full pipeline: validate, assemble, mount,
// render, build, verify. It owns the mount lifecycle; the staged document
// is torn down on every exit path.
type Exporter struct {
	cfg       config.ReportConfig
	assembler *Assembler
	builder   *Builder
	renderer  PageRenderer
	now       func() time.Time
}

// NewExporter creates an exporter that renders with the given renderer.
func NewExporter(cfg config.ReportConfig, renderer PageRenderer) *Exporter {
	return &Exporter{
		cfg:       cfg,
		assembler: NewAssembler(cfg),
		builder:   NewBuilder(cfg),
		renderer:  renderer,
		now:       time.Now,
	}
}

// ExportFullReport exports the complete paginated report from the
// pre-rendered preview sections.
func (e *Exporter) ExportFullReport(ctx context.Context, req *model.ExportRequest) (*ExportResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.PreviewHTML) == "" {
		return nil, errors.New(errors.ErrCodePreviewMissing, msgPreviewMissing)
	}

	doc, err := e.assembler.AssembleFullReport(req)
	if err != nil {
		logger.Error("Report assembly failed", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeAssemble, msgExportFailed, err)
	}
	return e.run(ctx, ModeReport, req, doc)
}

// ExportSummary exports the condensed summary document synthesized from
// form data and flagged photos.
func (e *Exporter) ExportSummary(ctx context.Context, req *model.ExportRequest) (*ExportResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	doc, err := e.assembler.AssembleSummary(req)
	if err != nil {
		logger.Error("Summary assembly failed", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeAssemble, msgExportFailed, err)
	}
	return e.run(ctx, ModeSummary, req, doc)
}

// ExportWord is reserved for a future Word rendition of the report. It
// reports the missing capability before any validation so callers can
// feature-detect it with an empty request.
func (e *Exporter) ExportWord(ctx context.Context, req *model.ExportRequest) (*ExportResult, error) {
	return nil, errors.New(errors.ErrCodeNotImplemented, "Word export is not yet implemented")
}

// run executes the shared mount/render/build/verify pipeline for an
// assembled document.
func (e *Exporter) run(ctx context.Context, mode string, req *model.ExportRequest, doc *AssembledDocument) (*ExportResult, error) {
	exportID := idgen.NewExportID()
	startTime := time.Now()
	metrics := telemetry.GetMetrics()

	if metrics.ActiveExports != nil {
		metrics.ActiveExports.Add(ctx, 1)
		defer metrics.ActiveExports.Add(ctx, -1)
	}

	logger.Info("Starting export",
		zap.String("export_id", exportID),
		zap.String("mode", mode),
		zap.Int("pages", doc.PageCount()),
	)

	fail := func(appErr *errors.AppError, cause error, stage string) (*ExportResult, error) {
		logger.Error("Export failed",
			zap.String("export_id", exportID),
			zap.String("mode", mode),
			zap.String("stage", stage),
			zap.Error(cause),
		)
		metrics.RecordExport(ctx, mode, "error", time.Since(startTime), 0)
		return nil, appErr
	}

	mount, err := render.NewMount(doc.HTML)
	if err != nil {
		return fail(errors.Wrap(errors.ErrCodeMount, msgExportFailed, err), err, "mount")
	}
	defer mount.Teardown()

	pages, err := e.renderer.RenderPages(ctx, mount.URL(), doc.PageIDs)
	if err != nil {
		// The render timeout lives on a context derived inside the renderer,
		// so it only shows up in the returned error chain.
		if stderrors.Is(err, context.DeadlineExceeded) {
			return fail(errors.Wrap(errors.ErrCodeRenderTimeout, msgExportTimeout, err), err, "render")
		}
		return fail(errors.Wrap(errors.ErrCodeRender, msgExportFailed, err), err, "render")
	}

	data, err := e.builder.BuildDocument(pages)
	if err != nil {
		return fail(errors.Wrap(errors.ErrCodeBuild, msgExportFailed, err), err, "build")
	}

	if err := VerifyDocument(data, doc.PageCount()); err != nil {
		return fail(errors.Wrap(errors.ErrCodeVerify, msgExportFailed, err), err, "verify")
	}

	result := &ExportResult{
		Filename: ExportFilename(e.cfg.Brand, e.cfg.ReportType, req.Form.Get(model.FieldProject), e.now()),
		Data:     data,
		Pages:    doc.PageCount(),
	}

	metrics.RecordExport(ctx, mode, "success", time.Since(startTime), result.Pages)
	logger.Info("Export completed",
		zap.String("export_id", exportID),
		zap.String("mode", mode),
		zap.String("filename", result.Filename),
		zap.Int("pages", result.Pages),
		zap.Int("size_bytes", len(result.Data)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}

// validateRequest enforces the minimum viable request: a named project.
func validateRequest(req *model.ExportRequest) error {
	if req == nil || strings.TrimSpace(req.Form.Get(model.FieldProject)) == "" {
		return errors.ErrValidation(msgMissingProject)
	}
	return nil
}
