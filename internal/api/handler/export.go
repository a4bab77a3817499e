// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldproof/fieldproof/internal/model"
	"github.com/fieldproof/fieldproof/internal/report"
	"github.com/fieldproof/fieldproof/pkg/errors"
)

// ExportHandler serves the document export endpoints
type ExportHandler struct {
	exporter *report.Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter *report.Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportReport handles POST /api/v1/exports/report
// Renders the full paginated report and returns it as a PDF download
func (h *ExportHandler) ExportReport(c *gin.Context) {
	h.handle(c, h.exporter.ExportFullReport)
}

// ExportSummary handles POST /api/v1/exports/summary
// Renders the condensed summary document and returns it as a PDF download
func (h *ExportHandler) ExportSummary(c *gin.Context) {
	h.handle(c, h.exporter.ExportSummary)
}

// ExportWord handles POST /api/v1/exports/word
func (h *ExportHandler) ExportWord(c *gin.Context) {
	h.handle(c, h.exporter.ExportWord)
}

// handle runs one export operation and writes the result as an attachment
func (h *ExportHandler) handle(c *gin.Context, export func(context.Context, *model.ExportRequest) (*report.ExportResult, error)) {
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid request body",
		})
		return
	}

	result, err := export(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			c.JSON(appErr.HTTPStatus(), gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    errors.ErrCodeInternal,
			"message": "Internal server error",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Header("X-Page-Count", strconv.Itoa(result.Pages))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
