package main

import (
	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/provider"
	"github.com/handiism/yggdrasil/internal/tui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse, sample and search in an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			var prov provider.Provider
			if ctx.settings.HasCredentials() {
				if prov, err = ctx.provider(cmd.Context()); err != nil {
					return err
				}
			} else {
				ctx.logger.Warn().Msg("no Spotify credentials, search is disabled")
			}

			return tui.Run(cmd.Context(), tui.Config{
				Tree:     tree,
				Provider: prov,
				Settings: ctx.settings,
				Logger:   ctx.logger,
			})
		},
	}
}
