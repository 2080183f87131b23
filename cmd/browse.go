package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnhub/internal/db"
	"github.com/ziadkadry99/learnhub/internal/navigator"
	"github.com/ziadkadry99/learnhub/internal/prefs"
	"github.com/ziadkadry99/learnhub/internal/tui"
)

// terminalScope keeps terminal preferences apart from browser origins.
const terminalScope = "terminal"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read the hub in the terminal",
	Long: `Opens a full-screen terminal reader. Documents come from base_url when
it is set, otherwise from the content directory.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so only the log file receives output.
	log, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer log.Sync()

	fsys := contentFS(cfg)
	reg, err := loadRegistry(cfg, fsys)
	if err != nil {
		return err
	}
	f, err := newFetcher(cfg, fsys, log)
	if err != nil {
		return err
	}

	var store prefs.Store = prefs.NewMemoryStore()
	if database, err := db.Open(cfg.DBPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: dark mode will not be remembered: %v\n", err)
	} else {
		defer database.Close()
		store = prefs.NewSQLStore(database, terminalScope)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctrl := navigator.New(reg, f, newRenderer(cfg), store,
		navigator.WithLogger(log),
		navigator.WithFetchTimeout(cfg.FetchTimeout),
	)
	ctrl.Init(ctx)
	return tui.Run(ctx, ctrl, tui.WithLogger(log))
}
