package config

import "time"

// Config is the top-level learnhub configuration, corresponding to .learnhub.yml.
type Config struct {
	// ContentDir is the markdown tree. Empty means the embedded content.
	ContentDir string `yaml:"content_dir" koanf:"content_dir"`
	// CatalogFile replaces the built-in catalog. "discover" builds the
	// catalog from the folder layout of ContentDir.
	CatalogFile     string        `yaml:"catalog_file" koanf:"catalog_file"`
	Port            int           `yaml:"port" koanf:"port"`
	BaseURL         string        `yaml:"base_url" koanf:"base_url"`
	DataDir         string        `yaml:"data_dir" koanf:"data_dir"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Watch           bool          `yaml:"watch" koanf:"watch"`
	LightStyle      string        `yaml:"light_style" koanf:"light_style"`
	DarkStyle       string        `yaml:"dark_style" koanf:"dark_style"`
	Log             LogConfig     `yaml:"log" koanf:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	// File enables a rotating log file in addition to stderr.
	File string `yaml:"file" koanf:"file"`
	JSON bool   `yaml:"json" koanf:"json"`
}

// CatalogDiscover selects folder-layout discovery instead of a catalog file.
const CatalogDiscover = "discover"
