package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/config"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
)

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, p := range []string{"Go/notes/a.md", "Go/quiz/q.md", "SQL/notes/joins.md"} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("# "+p+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadRegistryDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	fsys := contentFS(cfg)
	reg, err := loadRegistry(cfg, fsys)
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatal("expected built-in files")
	}
	if err := reg.Verify(fsys); err != nil {
		t.Errorf("built-in catalog does not match embedded content: %v", err)
	}
}

func TestLoadRegistryDiscover(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ContentDir = writeContent(t)
	cfg.CatalogFile = config.CatalogDiscover

	reg, err := loadRegistry(cfg, contentFS(cfg))
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("files = %d, want 3", reg.Len())
	}
	if _, ok := reg.Lookup("SQL/notes/joins.md"); !ok {
		t.Error("expected joins.md in catalog")
	}
}

func TestNewFetcherChoosesSource(t *testing.T) {
	cfg := config.DefaultConfig()
	f, err := newFetcher(cfg, contentFS(cfg), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.(*fetcher.FSFetcher); !ok {
		t.Errorf("expected FSFetcher, got %T", f)
	}

	cfg.BaseURL = "http://localhost:8080/content/"
	f, err = newFetcher(cfg, contentFS(cfg), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.(*fetcher.HTTPFetcher); !ok {
		t.Errorf("expected HTTPFetcher, got %T", f)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := writeContent(t)
	work := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ContentDir = dir
	cfg.CatalogFile = config.CatalogDiscover
	cfg.DataDir = filepath.Join(work, "data")
	cfgPath := filepath.Join(work, "learnhub.yml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}
	saved := filepath.Join(work, "catalog.yml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate", "--config", cfgPath, "--save", saved})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out.String(), "Catalog: 2 subjects, 3 files") || !strings.Contains(out.String(), "All files present.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	reg, err := catalog.LoadFile(saved)
	if err != nil {
		t.Fatalf("loading saved catalog: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("saved catalog files = %d, want 3", reg.Len())
	}
}
