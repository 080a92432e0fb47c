package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/audio"
	"github.com/handiism/yggdrasil/internal/catalog"
	ioutils "github.com/handiism/yggdrasil/internal/io"
	"github.com/handiism/yggdrasil/internal/logging"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Add every tagged MP3 below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			scanner := audio.NewScanner(logging.Component(ctx.logger, "scan"))
			entries, err := scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Path.Genre, e.Path.Artist, e.Path.Album, e.Path.Song})
				}
				fmt.Fprintln(out, renderTable([]string{"Genre", "Artist", "Album", "Song"}, rows, nil))
				fmt.Fprintf(out, "Found %d songs (dry run, catalog unchanged)\n", len(entries))
				return nil
			}

			audio.AddAll(tree, entries)
			if err := ctx.saveTree(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d songs from %s, catalog now holds %d\n", len(entries), args[0], tree.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List what would be added without changing the catalog")
	return cmd
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var format string
	var output string
	var plain bool

	cmd := &cobra.Command{
		Use:   "playlist [genre [artist [album [song]]]]",
		Short: "Export catalog songs as an M3U, PLS or WPL playlist",
		Args:  cobra.MaximumNArgs(catalog.Depth),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				format = settings.PlaylistFormat
			}
			pf, err := audio.ParsePlaylistFormat(format)
			if err != nil {
				return err
			}
			extended := settings.M3UExtended && !plain

			entries, err := audio.Collect(tree, args...)
			if err != nil {
				return err
			}
			content, err := audio.NewPlaylistCreator(pf, extended).Create(entries)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			if filepath.Ext(output) == "" {
				output += pf.Extension()
			}
			if err := ioutils.WriteFileAtomic(cmd.Context(), output, content, 0o644); err != nil {
				return fmt.Errorf("write playlist: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d songs to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Playlist format: m3u, pls or wpl (default from settings)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Write plain M3U without #EXTINF lines")
	return cmd
}
