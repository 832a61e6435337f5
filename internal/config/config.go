package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int             `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"134217728"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"20"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// ReportConfig contains the report pipeline knobs.
type ReportConfig struct {
	// HeaderScanDepth bounds the header-row hunt in each sheet.
	HeaderScanDepth int `yaml:"header_scan_depth" envconfig:"HEADER_SCAN_DEPTH" default:"30"`
	// SpecLimit is the distance of the reference lines from zero.
	SpecLimit float64 `yaml:"spec_limit" envconfig:"SPEC_LIMIT" default:"0.25"`
	// BoxFixedMin/Max bound the fixed-scale y window for box plots.
	BoxFixedMin float64 `yaml:"box_fixed_min" envconfig:"BOX_FIXED_MIN" default:"-1.5"`
	BoxFixedMax float64 `yaml:"box_fixed_max" envconfig:"BOX_FIXED_MAX" default:"1.5"`
	// ControlFixedMin/Max bound the fixed-scale y window for control charts.
	ControlFixedMin float64 `yaml:"control_fixed_min" envconfig:"CONTROL_FIXED_MIN" default:"-0.3"`
	ControlFixedMax float64 `yaml:"control_fixed_max" envconfig:"CONTROL_FIXED_MAX" default:"0.3"`
}

// Load loads configuration from environment variables and, when one of
// the conventional locations exists, a YAML config file. Environment
// values take precedence over file values.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = fileCfg
	}

	if err := envconfig.Process("OPTIQC", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads configuration from a YAML file on top of defaults.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if c.Report.HeaderScanDepth <= 0 {
		return fmt.Errorf("header scan depth must be positive")
	}
	if c.Report.SpecLimit <= 0 {
		return fmt.Errorf("spec limit must be positive")
	}
	if c.Report.BoxFixedMin >= c.Report.BoxFixedMax {
		return fmt.Errorf("box fixed range is inverted")
	}
	if c.Report.ControlFixedMin >= c.Report.ControlFixedMax {
		return fmt.Errorf("control fixed range is inverted")
	}
	return nil
}

// findConfigFile returns the first config file found in the
// conventional locations, or "" to rely on env vars alone.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxUploadBytes:  128 << 20,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Report: ReportConfig{
			HeaderScanDepth: 30,
			SpecLimit:       0.25,
			BoxFixedMin:     -1.5,
			BoxFixedMax:     1.5,
			ControlFixedMin: -0.3,
			ControlFixedMax: 0.3,
		},
	}
}
