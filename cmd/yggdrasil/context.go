package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/config"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/persist"
	"github.com/handiism/yggdrasil/internal/provider"
	"github.com/handiism/yggdrasil/internal/spotify"
)

const defaultSettingsHint = config.DefaultPath

// envFiles are loaded before the environment is applied; missing files are
// ignored and variables already set win.
var envFiles = []string{".env", ".env.local"}

// providerFactory builds the metadata provider. Tests replace it.
var providerFactory = func(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (provider.Provider, error) {
	client, err := spotify.NewClient(ctx, spotify.Config{
		ClientID:     settings.SpotifyClientID,
		ClientSecret: settings.SpotifyClientSecret,
		Timeout:      settings.Timeout(),
		Logger:       &logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

type globalFlags struct {
	config  string
	catalog string
	verbose bool
}

type commandContext struct {
	flags  *globalFlags
	errOut io.Writer

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error
	logger       zerolog.Logger

	treeOnce sync.Once
	tree     *catalog.Tree
	treeErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags:  flags,
		errOut: os.Stderr,
		logger: logging.Nop,
	}
}

func (c *commandContext) settingsPath() string {
	if path := strings.TrimSpace(c.flags.config); path != "" {
		return path
	}
	return config.DefaultPath
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		if err := config.LoadEnvFiles(envFiles...); err != nil {
			c.settingsErr = err
			return
		}
		settings, err := config.Load(c.settingsPath())
		if err != nil {
			c.settingsErr = err
			return
		}
		if err := settings.ApplyEnv(); err != nil {
			c.settingsErr = err
			return
		}
		if path := strings.TrimSpace(c.flags.catalog); path != "" {
			settings.CatalogPath = path
		}
		if c.flags.verbose {
			settings.LogLevel = "debug"
		}
		if err := settings.Validate(); err != nil {
			c.settingsErr = fmt.Errorf("invalid settings in %s: %w", c.settingsPath(), err)
			return
		}

		c.settings = settings
		c.logger = logging.New(logging.Config{
			Level:  settings.LogLevel,
			Format: settings.LogFormat,
			Output: c.errOut,
		})
		c.logger.Debug().
			Str("settings", c.settingsPath()).
			Str("catalog", settings.CatalogPath).
			Bool("credentials", settings.HasCredentials()).
			Msg("settings loaded")
	})
	return c.settings, c.settingsErr
}

// ensureTree loads the catalog on first use. A missing file yields an empty
// catalog.
func (c *commandContext) ensureTree() (*catalog.Tree, error) {
	c.treeOnce.Do(func() {
		settings, err := c.ensureSettings()
		if err != nil {
			c.treeErr = err
			return
		}
		tree, err := persist.Load(settings.CatalogPath)
		if err != nil {
			c.treeErr = err
			return
		}
		c.logger.Debug().Str("path", settings.CatalogPath).Int("songs", tree.Len()).Msg("catalog loaded")
		c.tree = tree
	})
	return c.tree, c.treeErr
}

func (c *commandContext) saveTree(ctx context.Context) error {
	if c.tree == nil {
		return nil
	}
	if err := persist.Save(ctx, c.tree, c.settings.CatalogPath); err != nil {
		return err
	}
	c.logger.Debug().Str("path", c.settings.CatalogPath).Int("songs", c.tree.Len()).Msg("catalog saved")
	return nil
}

func (c *commandContext) provider(ctx context.Context) (provider.Provider, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	prov, err := providerFactory(ctx, settings, c.logger)
	if errors.Is(err, spotify.ErrMissingCredentials) {
		return nil, fmt.Errorf("%w (set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET, or put them in .env)", err)
	}
	return prov, err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
