package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpattn/sfs/internal/config"
	"github.com/rpattn/sfs/internal/db"
	"github.com/rpattn/sfs/internal/metrics"
	"github.com/rpattn/sfs/internal/repository"
)

var serveFlags struct {
	listenAddress string
	memory        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured list views over HTTP",
	Long: `Serve every view declared in the views file.

Examples:
  # Serve against PostgreSQL
  sfs serve

  # Serve the seed rows from the views file, no database required
  sfs serve --memory --listen :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.memory, "memory", false, "serve seed rows from memory instead of PostgreSQL")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		settings.Server.Addr = serveFlags.listenAddress
	}

	vf, err := config.LoadViews(settings.ViewsFile)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store repository.Store
	if serveFlags.memory {
		if store, err = seedMemoryStore(vf); err != nil {
			return err
		}
		logger.Info("serving seed rows from memory")
	} else {
		conn, err := db.NewConnection(ctx, settings.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()
		store = repository.NewPgStore(conn.Pool, vf.Schema())
	}

	collector := metrics.NewCollector(nil)
	views, err := buildViews(settings, vf, store, collector, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         settings.Server.Addr,
		Handler:      newRouter(settings, views, collector, logger),
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
		IdleTimeout:  settings.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "views", len(views))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
