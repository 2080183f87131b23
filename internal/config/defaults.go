package config

import (
	"github.com/ziadkadry99/learnhub/internal/navigator"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// DefaultPath is where learnhub looks for its configuration.
const DefaultPath = ".learnhub.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		DataDir:      ".learnhub",
		FetchTimeout: navigator.DefaultFetchTimeout,
		Watch:        true,
		LightStyle:   render.DefaultLightStyle,
		DarkStyle:    render.DefaultDarkStyle,
		Log: LogConfig{
			Level: "info",
		},
	}
}
