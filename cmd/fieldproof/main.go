// Package main is the entry point for the FieldProof application.
// FieldProof turns field inspection data into paginated PDF reports
// rendered through headless Chrome.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/consts"
	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/model"
	"github.com/fieldproof/fieldproof/internal/render"
	"github.com/fieldproof/fieldproof/internal/report"
	"github.com/fieldproof/fieldproof/internal/server"
	"github.com/fieldproof/fieldproof/pkg/logger"
	"github.com/fieldproof/fieldproof/pkg/telemetry"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fieldproof",
	Short: "FieldProof - Inspection Report Rendering Service",
	Long: `FieldProof renders field inspection data into paginated PDF reports.
It serves an export API for the inspection frontend and can also render
a single report from the command line.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FieldProof server",
	Long: `Start the HTTP server that handles report export requests.

The server requires a Chrome or Chromium binary; set chrome_path in the
configuration file or the CHROME_PATH environment variable when the
browser is not on the default lookup path.`,
	Run: runServe,
}

// exportCmd renders a single document from a request file
var exportCmd = &cobra.Command{
	Use:   "export <request.json>",
	Short: "Render one report from a JSON export request",
	Long: `Render a single document without starting the server.

The argument is a JSON file holding an export request: form fields,
photos, an optional signature and the pre-rendered preview HTML.`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FieldProof %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: config/config.yaml)")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Serve command flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug mode")

	// Export command flags
	exportCmd.Flags().String("mode", "report", "export mode: report or summary")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: generated name in current directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration from the configured path
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath
	}
	return config.Load(path)
}

// runServe starts the FieldProof server
func runServe(cmd *cobra.Command, args []string) {
	consts.SetStartedAt(time.Now())

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting FieldProof",
		zap.String("version", Version),
	)

	// Initialize telemetry
	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Warn("Failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(ctx); err != nil {
				logger.Warn("Telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	exporter := report.NewExporter(cfg.Report, newSession(cfg))

	srv := server.New(cfg, exporter)
	srv.SetupRoutes()
	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	srv.WaitForShutdown()
}

// runExport renders a single document from a request file
func runExport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// CLI runs quiet by default; rendering progress goes to the log file only
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read request file: %v\n", err)
		os.Exit(1)
	}

	var req model.ExportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse request file: %v\n", err)
		os.Exit(1)
	}

	exporter := report.NewExporter(cfg.Report, newSession(cfg))

	mode, _ := cmd.Flags().GetString("mode")
	ctx := context.Background()

	var result *report.ExportResult
	switch mode {
	case "report":
		result, err = exporter.ExportFullReport(ctx, &req)
	case "summary":
		result, err = exporter.ExportSummary(ctx, &req)
	default:
		fmt.Fprintf(os.Stderr, "Unknown export mode: %s\n", mode)
		os.Exit(1)
	}
	if err != nil {
		color.Red("Export failed: %v", err)
		os.Exit(1)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = result.Filename
	}
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output file: %v\n", err)
		os.Exit(1)
	}

	abs, _ := filepath.Abs(output)
	color.Green("✓ Exported %d pages to %s", result.Pages, abs)
}

// newSession builds the headless-browser renderer from configuration
func newSession(cfg *config.Config) *render.Session {
	return render.NewSession(render.Options{
		ChromePath: cfg.Render.ChromePath,
		Timeout:    time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
		Scale:      cfg.Render.Scale,
	})
}
