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
	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/api"
	"github.com/fentz26/elhem/internal/store"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the elhem HTTP API serving tasks, team, performance and the assistant endpoints.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides server.listen)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	addr := cfg.Server.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	if err := ensureCollections(ctx, app.store, store.Performance); err != nil {
		return err
	}

	server := api.NewServer(api.Deps{
		Store:     app.store,
		Tasks:     app.tasks,
		Team:      app.team,
		Assistant: app.assistant,
		Settings:  cfg.Assistant,
		Metrics:   app.metrics,
		Logger:    logger.Named("api"),
	}, addr)

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		err := server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

// ensureCollections writes an empty collection for each c that has no
// records yet, so that file-backed data directories contain every file.
func ensureCollections(ctx context.Context, s store.Store, collections ...store.Collection) error {
	for _, c := range collections {
		records, err := s.Load(ctx, c)
		if err != nil {
			return fmt.Errorf("initialize %s: %w", c, err)
		}
		if len(records) > 0 {
			continue
		}
		if err := s.Save(ctx, c, records); err != nil {
			return fmt.Errorf("initialize %s: %w", c, err)
		}
	}
	return nil
}
