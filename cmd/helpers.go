package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/content"
	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/config"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/logging"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `learnhub init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level. A nil
// console writes to stderr.
func newLogger(cfg *config.Config, console io.Writer) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, File: cfg.Log.File, JSON: cfg.Log.JSON, Output: console})
}

// contentFS returns the markdown tree: the configured directory or the
// embedded notes.
func contentFS(cfg *config.Config) fs.FS {
	if cfg.ContentDir == "" {
		return content.FS()
	}
	return os.DirFS(cfg.ContentDir)
}

// loadRegistry builds the catalog named by the config.
func loadRegistry(cfg *config.Config, fsys fs.FS) (*catalog.Registry, error) {
	switch cfg.CatalogFile {
	case "":
		return catalog.Default(), nil
	case config.CatalogDiscover:
		subjects, err := catalog.Discover(fsys)
		if err != nil {
			return nil, err
		}
		return catalog.New(subjects)
	default:
		return catalog.LoadFile(cfg.CatalogFile)
	}
}

func newRenderer(cfg *config.Config) *render.Renderer {
	return render.New(render.WithStyles(cfg.LightStyle, cfg.DarkStyle))
}

// newFetcher reads documents from base_url when set and from fsys otherwise.
func newFetcher(cfg *config.Config, fsys fs.FS, log *zap.Logger) (fetcher.Fetcher, error) {
	if cfg.BaseURL == "" {
		return fetcher.NewFSFetcher(fsys), nil
	}
	return fetcher.NewHTTPFetcher(cfg.BaseURL, fetcher.WithLogger(log))
}
