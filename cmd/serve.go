package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/learnhub/internal/dashboard"
	"github.com/ziadkadry99/learnhub/internal/db"
	"github.com/ziadkadry99/learnhub/internal/prefs"
	"github.com/ziadkadry99/learnhub/internal/server"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hub in the browser",
	Long: `Starts the HTTP server with the reader UI, the JSON API and the raw
content tree. Dark mode is remembered per browser origin. With watch enabled,
open pages reload when their markdown changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "interface to bind")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
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
	if err := reg.Verify(fsys); err != nil {
		log.Warn("catalog references missing files", zap.Error(err))
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	dash := dashboard.New(dashboard.Options{
		Registry:     reg,
		Content:      fsys,
		Renderer:     newRenderer(cfg),
		Prefs:        prefs.NewSQLStore(database, prefs.DefaultScope),
		Logger:       log,
		FetchTimeout: cfg.FetchTimeout,
	})
	srv := server.New(server.Config{Host: serveHost, Port: cfg.Port, AllowAll: cfg.AllowAllOrigins}, log)
	dash.RegisterRoutes(srv.Router())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if cfg.Watch && cfg.ContentDir != "" {
		w, err := dash.NewWatcher(cfg.ContentDir)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		dash.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(os.Stderr, "learnhub %s serving %d files at http://%s\n", Version, reg.Len(), srv.Addr())
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	return g.Wait()
}
