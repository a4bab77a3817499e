// Package router sets up the API routes for the application.
// This is used in server mode; the CLI drives the exporter directly.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fieldproof/fieldproof/consts"
	"github.com/fieldproof/fieldproof/internal/api/handler"
	"github.com/fieldproof/fieldproof/internal/api/middleware"
	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/report"
)

// Setup configures all API routes
func Setup(r *gin.Engine, exporter *report.Exporter, cfg *config.Config) {
	// Apply global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))

	// Apply OpenTelemetry tracing middleware
	r.Use(otelgin.Middleware(consts.ServiceName))

	// Health check endpoint (public)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": consts.Version})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")

	exportHandler := handler.NewExportHandler(exporter)
	exports := v1.Group("/exports")
	{
		exports.POST("/report", exportHandler.ExportReport)
		exports.POST("/summary", exportHandler.ExportSummary)
		exports.POST("/word", exportHandler.ExportWord)
	}
}
