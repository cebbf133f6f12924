package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/exploder/internal/extractor"
	"github.com/raysh454/exploder/internal/utils"
	"github.com/raysh454/exploder/internal/webclient"
)

// ServerConfig holds the HTTP API surface options.
type ServerConfig struct {
	// ListenAddr is the HTTP listen address for the API server, e.g. ":8080".
	ListenAddr string
}

// Config contains the runtime configuration for all internal modules.
type Config struct {
	Server ServerConfig

	// Extractor configuration (fan-out concurrency, per-fetch timeout).
	Extractor extractor.Config

	// WebClient configuration
	WebClient webclient.Config

	// HistoryPath is the sqlite file holding past extraction results.
	// Empty keeps history in memory only (lost on restart).
	HistoryPath string

	// URL canonicalization policy used when keying history records.
	URLOpts utils.CanonicalizeOptions
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Extractor: extractor.DefaultConfig(),
		WebClient: webclient.DefaultConfig(),
		HistoryPath: "",
		URLOpts: utils.CanonicalizeOptions{
			StripTrailingSlash: true,
			DefaultScheme:      "https",
		},
	}
}

// fileConfig is the YAML schema. Timeouts are expressed in seconds so config
// files stay plain numbers.
type fileConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	HistoryPath string `yaml:"history_path"`

	WebClient struct {
		Client         string `yaml:"client"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"webclient"`

	Extractor struct {
		MaxConcurrency           int `yaml:"max_concurrency"`
		StylesheetTimeoutSeconds int `yaml:"stylesheet_timeout_seconds"`
	} `yaml:"extractor"`
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.ListenAddr != "" {
		cfg.Server.ListenAddr = fc.ListenAddr
	}
	if fc.HistoryPath != "" {
		cfg.HistoryPath = fc.HistoryPath
	}
	if fc.WebClient.Client != "" {
		cfg.WebClient.Client = webclient.Client(fc.WebClient.Client)
	}
	if fc.WebClient.TimeoutSeconds > 0 {
		cfg.WebClient.Timeout = time.Duration(fc.WebClient.TimeoutSeconds) * time.Second
	}
	if fc.WebClient.UserAgent != "" {
		cfg.WebClient.UserAgent = fc.WebClient.UserAgent
	}
	if fc.Extractor.MaxConcurrency > 0 {
		cfg.Extractor.MaxConcurrency = fc.Extractor.MaxConcurrency
	}
	if fc.Extractor.StylesheetTimeoutSeconds > 0 {
		cfg.Extractor.StylesheetTimeout = time.Duration(fc.Extractor.StylesheetTimeoutSeconds) * time.Second
	}

	return cfg, nil
}
