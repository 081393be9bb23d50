package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"freightbill/internal/bookings"
	"freightbill/internal/storage"
)

// workbench is the loaded booking store of one command run.
type workbench struct {
	store   *bookings.Store
	backend storage.Backend
	log     zerolog.Logger
}

// openWorkbench opens the configured backend, honoring --driver and --store,
// and loads the persisted state.
func openWorkbench(ctx context.Context, cmd *cobra.Command, log zerolog.Logger) (*workbench, error) {
	driver, _ := cmd.Flags().GetString("driver")
	path, _ := cmd.Flags().GetString("store")

	if driver == "" {
		driver = appConfig.StoreDriver
	}
	driver = strings.ToLower(driver)
	if path == "" {
		path = appConfig.StorePath
	}

	backend, err := storage.Open(driver, path)
	if err != nil {
		log.Error().
			Err(err).
			Str("driver", driver).
			Str("path", path).
			Msg("Failed to open state backend")
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	store := bookings.NewStore(backend)
	if err := store.Load(ctx); err != nil {
		_ = backend.Close()
		log.Error().
			Err(err).
			Str("path", path).
			Msg("Failed to load state")
		return nil, fmt.Errorf("failed to load state from %s: %w", path, err)
	}

	log.Debug().
		Str("driver", driver).
		Str("path", path).
		Int("bookings", store.Len()).
		Msg("State loaded")

	return &workbench{store: store, backend: backend, log: log}, nil
}

// save persists the store.
func (w *workbench) save(ctx context.Context) error {
	if err := w.store.Save(ctx); err != nil {
		w.log.Error().Err(err).Msg("Failed to save state")
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (w *workbench) close() {
	if err := w.backend.Close(); err != nil {
		w.log.Warn().Err(err).Msg("Failed to close state backend")
	}
}

// createCommandContext returns a context canceled on SIGINT or SIGTERM.
func createCommandContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
