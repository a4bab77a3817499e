// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fieldproof/fieldproof/consts"
	"github.com/fieldproof/fieldproof/pkg/errors"
	"github.com/fieldproof/fieldproof/pkg/logger"
	"github.com/fieldproof/fieldproof/pkg/telemetry"
)

// Default configuration values
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 8080
	defaultRenderTimeout  = 120 // seconds
	defaultRenderScale    = 2.0
	defaultPageWidthMM    = 210.0
	defaultPageHeightMM   = 297.0
	defaultPageMarginMM   = 15.0
	defaultFooterOffsetMM = 290.0
)

// DefaultConfigPath is the default location of the configuration file
const DefaultConfigPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Report    ReportConfig     `yaml:"report"`
	Render    RenderConfig     `yaml:"render"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Debug       bool     `yaml:"debug"`
	CORSOrigins []string `yaml:"cors_origins"` // Allowed CORS origins whitelist
}

// Address returns the host:port address string
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReportConfig holds document identity and layout configuration
type ReportConfig struct {
	// Brand is stamped into footers and download filenames
	Brand string `yaml:"brand"`
	// ReportType appears in download filenames (e.g. "inspection")
	ReportType string `yaml:"report_type"`
	// MapURLTemplate is a printf-style template receiving the URL-escaped
	// location string; empty disables the cover-page map embed
	MapURLTemplate string `yaml:"map_url_template"`
	// PageWidthMM and PageHeightMM define the physical page (A4 portrait)
	PageWidthMM  float64 `yaml:"page_width_mm"`
	PageHeightMM float64 `yaml:"page_height_mm"`
	// PageMarginMM is the inner margin of every page container
	PageMarginMM float64 `yaml:"page_margin_mm"`
	// FooterOffsetMM is the vertical position of the page footer
	FooterOffsetMM float64 `yaml:"footer_offset_mm"`
}

// RenderConfig holds headless-browser rendering configuration
type RenderConfig struct {
	// ChromePath overrides the Chrome executable location (CHROME_PATH
	// environment variable takes precedence)
	ChromePath string `yaml:"chrome_path"`
	// TimeoutSeconds bounds one whole render pipeline run
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Scale is the supersampling factor applied during rasterization
	Scale float64 `yaml:"scale"`
}

// Load reads the configuration from the given path and applies defaults and
// environment overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse configuration file", err)
		}
	case os.IsNotExist(err):
		// Defaults only
	default:
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "failed to read configuration file", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset fields with default values
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Report.Brand == "" {
		c.Report.Brand = consts.DefaultBrand
	}
	if c.Report.ReportType == "" {
		c.Report.ReportType = consts.DefaultReportType
	}
	if c.Report.PageWidthMM == 0 {
		c.Report.PageWidthMM = defaultPageWidthMM
	}
	if c.Report.PageHeightMM == 0 {
		c.Report.PageHeightMM = defaultPageHeightMM
	}
	if c.Report.PageMarginMM == 0 {
		c.Report.PageMarginMM = defaultPageMarginMM
	}
	if c.Report.FooterOffsetMM == 0 {
		c.Report.FooterOffsetMM = defaultFooterOffsetMM
	}
	if c.Render.TimeoutSeconds == 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
	if c.Render.Scale == 0 {
		c.Render.Scale = defaultRenderScale
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = consts.ServiceName
	}
}

// applyEnvOverrides applies environment variable overrides.
// Recognized variables: FIELDPROOF_HOST, FIELDPROOF_PORT, FIELDPROOF_DEBUG,
// FIELDPROOF_BRAND, CHROME_PATH.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FIELDPROOF_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("FIELDPROOF_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("FIELDPROOF_DEBUG"); v != "" {
		c.Server.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("FIELDPROOF_BRAND"); v != "" {
		c.Report.Brand = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.Render.ChromePath = v
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	if c.Render.TimeoutSeconds < 1 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid render timeout: %d", c.Render.TimeoutSeconds))
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid render scale: %v", c.Render.Scale))
	}
	if c.Report.PageWidthMM <= 0 || c.Report.PageHeightMM <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "invalid page dimensions")
	}
	return nil
}
