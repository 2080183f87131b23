package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnhub/internal/progress"
	"github.com/ziadkadry99/learnhub/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the hub as a static website",
	Long: `Renders every catalog file to HTML with sidebar navigation, tables of
contents, previous/next links, light and dark code styles and a search index.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "site", "output directory")
	exportCmd.Flags().String("title", site.DefaultTitle, "site title")
	exportCmd.Flags().Int("concurrency", 4, "pages rendered in parallel")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer log.Sync()

	fsys := contentFS(cfg)
	reg, err := loadRegistry(cfg, fsys)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	g := site.NewGenerator(reg, fsys, outputDir)
	g.Title = title
	g.Concurrency = concurrency
	g.Renderer = newRenderer(cfg)
	g.Reporter = progress.NewReporter("Exporting")
	g.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := g.Generate(ctx)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported %d pages (%s) to %s\n", stats.Pages, humanize.Bytes(uint64(stats.Bytes)), outputDir)
	for _, p := range stats.Missing {
		fmt.Fprintf(out, "  missing: %s\n", p)
	}
	return nil
}
