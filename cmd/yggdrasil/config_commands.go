package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Settings utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default settings file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ctx.settingsPath()

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("settings file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("check settings path: %w", err)
				}
			}

			if err := config.DefaultSettings().Save(cmd.Context(), target); err != nil {
				return fmt.Errorf("write settings: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote default settings to %s\n", target)
			fmt.Fprintln(out, "Spotify credentials are read from SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET (or .env).")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing settings file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Settings file", ctx.settingsPath()},
				{"Catalog", s.CatalogPath},
				{"Search limit", fmt.Sprint(s.SearchLimit)},
				{"Request timeout", s.Timeout().String()},
				{"Retries", fmt.Sprintf("%d (cooldown %s, x%g)", s.ProviderMaxRetries, s.RetryCooldown(), s.ProviderRetryExponent)},
				{"Concurrent lookups", fmt.Sprint(s.MaxConcurrentLookups)},
				{"Playlist format", playlistFormatLabel(s)},
				{"Log", s.LogLevel + " / " + s.LogFormat},
				{"Spotify credentials", yesNo(s.HasCredentials())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}
}

func playlistFormatLabel(s *config.Settings) string {
	label := strings.ToUpper(s.PlaylistFormat)
	if s.PlaylistFormat == config.PlaylistFormatM3U && s.M3UExtended {
		label += " (extended)"
	}
	return label
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
