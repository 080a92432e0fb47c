package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/yggdrasil/internal/config"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/persist"
	"github.com/handiism/yggdrasil/internal/provider"
	"github.com/handiism/yggdrasil/internal/spotify"
	"github.com/handiism/yggdrasil/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadEnvFiles(".env", ".env.local"); err != nil {
		return err
	}
	settings, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}
	if err := settings.ApplyEnv(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", config.DefaultPath, err)
	}

	// The alternate screen owns stdout, so only warnings reach the terminal.
	logger := logging.New(logging.Config{Level: "warn", Format: settings.LogFormat})

	tree, err := persist.Load(settings.CatalogPath)
	if err != nil {
		return err
	}

	var prov provider.Provider
	client, err := spotify.NewClient(ctx, spotify.Config{
		ClientID:     settings.SpotifyClientID,
		ClientSecret: settings.SpotifyClientSecret,
		Timeout:      settings.Timeout(),
		Logger:       &logger,
	})
	switch {
	case err == nil:
		prov = client
	case !errors.Is(err, spotify.ErrMissingCredentials):
		return err
	}

	return tui.Run(ctx, tui.Config{
		Tree:     tree,
		Provider: prov,
		Settings: settings,
		Logger:   logger,
	})
}
