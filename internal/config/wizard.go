package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentMarkers are the folder names that identify a markdown content tree.
var contentMarkers = []string{"notes", "questions", "quiz", "real-problems", "interview-questions"}

// detectContentDir returns the current directory if it already looks like a
// content tree, i.e. a subject folder with one of the known subfolders.
func detectContentDir() string {
	for _, m := range contentMarkers {
		matches, _ := filepath.Glob(filepath.Join("*", m))
		if len(matches) > 0 {
			return "."
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to learnhub! Let's configure your hub.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Content source.
	contentDefault := detectContentDir()
	if contentDefault != "" {
		fmt.Println("Detected a content tree in the current directory.")
		fmt.Println()
	}
	contentPrompt := promptui.Prompt{
		Label:   "Content directory (leave blank for the built-in notes)",
		Default: contentDefault,
	}
	contentDir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.ContentDir = strings.TrimSpace(contentDir)

	// 2. Catalog.
	if cfg.ContentDir != "" {
		catalogPrompt := promptui.Select{
			Label: "Catalog",
			Items: []string{
				"discover: build the sidebar from the folder layout",
				"built-in: Java8-Plus, React-TypeScript, Spring-Boot, Oracle-SQL",
			},
		}
		idx, _, err := catalogPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("catalog selection: %w", err)
		}
		if idx == 0 {
			cfg.CatalogFile = CatalogDiscover
		}
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Code highlighting styles.
	stylePrompt := promptui.Select{
		Label: "Code highlighting",
		Items: []string{
			"github / github-dark",
			"monokailight / monokai",
			"solarized-light / solarized-dark",
		},
	}
	styleIdx, _, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style selection: %w", err)
	}
	pairs := [][2]string{
		{"github", "github-dark"},
		{"monokailight", "monokai"},
		{"solarized-light", "solarized-dark"},
	}
	cfg.LightStyle, cfg.DarkStyle = pairs[styleIdx][0], pairs[styleIdx][1]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
