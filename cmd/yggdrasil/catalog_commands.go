package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/persist"
)

func newRandomCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "random [genre [artist [album]]]",
		Short: "Pick a random song, optionally below a genre, artist or album",
		Args:  cobra.MaximumNArgs(catalog.Depth - 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			keys := slices.Clone(args)
			for len(keys) < catalog.Depth {
				key, err := tree.Sample(keys...)
				if err != nil {
					if errors.Is(err, catalog.ErrEmptyCollection) && len(keys) == 0 {
						return fmt.Errorf("%w; add songs with `yggdrasil search` or `yggdrasil scan`", err)
					}
					return err
				}
				keys = append(keys, key)
			}

			return printSong(cmd, tree, pathOf(keys))
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <genre> <artist> <album> <song>",
		Short: "Show the stored attributes of one song",
		Args:  cobra.ExactArgs(catalog.Depth),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}
			return printSong(cmd, tree, pathOf(args))
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [genre [artist [album]]]",
		Aliases: []string{"list"},
		Short:   "List the keys at one level of the catalog",
		Args:    cobra.MaximumNArgs(catalog.Depth - 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			keys, err := tree.Keys(args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			level := catalog.Level(len(args))
			if len(keys) == 0 {
				fmt.Fprintf(out, "No %s entries.\n", level)
				return nil
			}

			var headers []string
			var aligns []columnAlignment
			rows := make([][]string, 0, len(keys))
			if level == catalog.LevelSong {
				headers = []string{"#", "Song", "Duration", "Track"}
				aligns = []columnAlignment{alignRight, alignLeft, alignRight, alignRight}
				for i, key := range keys {
					rec, err := tree.Lookup(args[0], args[1], args[2], key)
					if err != nil {
						return err
					}
					duration := ""
					if track := model.TrackFromRecord(rec); track.DurationMS > 0 {
						duration = model.FormatDuration(track.Duration())
					}
					rows = append(rows, []string{strconv.Itoa(i + 1), key, duration, rec.String(catalog.AttrTrackNumber)})
				}
			} else {
				child := catalog.Level(len(args) + 1)
				headers = []string{"#", capitalize(level.String()), capitalize(child.String()) + "s"}
				aligns = []columnAlignment{alignRight, alignLeft, alignRight}
				for i, key := range keys {
					children, err := tree.Keys(append(slices.Clone(args), key)...)
					if err != nil {
						return err
					}
					rows = append(rows, []string{strconv.Itoa(i + 1), key, strconv.Itoa(len(children))})
				}
			}

			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var attrs []string

	cmd := &cobra.Command{
		Use:   "add <genre> <artist> <album> <song>",
		Short: "Add or replace a song by hand",
		Args:  cobra.ExactArgs(catalog.Depth),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, arg := range args {
				if strings.TrimSpace(arg) == "" {
					return fmt.Errorf("%s must not be empty", catalog.Level(i))
				}
			}
			rec, err := parseAttrs(attrs)
			if err != nil {
				return err
			}
			if _, ok := rec[catalog.AttrSongName]; !ok {
				rec[catalog.AttrSongName] = args[3]
			}
			if _, ok := rec[catalog.AttrArtist]; !ok {
				rec[catalog.AttrArtist] = args[1]
			}
			if _, ok := rec[catalog.AttrAlbum]; !ok {
				rec[catalog.AttrAlbum] = args[2]
			}

			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}
			tree.Add(args[0], args[1], args[2], args[3], rec)
			if err := ctx.saveTree(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", strings.Join(args, " / "))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&attrs, "attr", "a", nil, "Song attribute as key=value (repeatable)")
	return cmd
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <catalog.json>",
		Short: "Merge another catalog file into this one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("catalog %s does not exist", args[0])
			}
			other, err := persist.Load(args[0])
			if err != nil {
				return err
			}
			tree, err := ctx.ensureTree()
			if err != nil {
				return err
			}

			tree.Merge(other)
			if err := ctx.saveTree(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d songs from %s, catalog now holds %d\n", other.Len(), args[0], tree.Len())
			return nil
		},
	}
}

func printSong(cmd *cobra.Command, tree *catalog.Tree, path catalog.Path) error {
	rec, err := tree.Lookup(path.Genre, path.Artist, path.Album, path.Song)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, songRows(path, rec), nil))
	return nil
}

// songRows lists the path and the well-known attributes first, followed by
// any other attributes in key order.
func songRows(path catalog.Path, rec catalog.Record) [][]string {
	rows := [][]string{
		{"Song", path.Song},
		{"Artist", path.Artist},
		{"Album", path.Album},
		{"Genre", path.Genre},
		{"Spotify URL", orNA(rec.String(catalog.AttrSpotifyURL))},
	}
	duration := "n/a"
	if track := model.TrackFromRecord(rec); track.DurationMS > 0 {
		duration = model.FormatDuration(track.Duration())
	}
	rows = append(rows,
		[]string{"Duration", duration},
		[]string{"Track number", orNA(rec.String(catalog.AttrTrackNumber))},
	)

	known := []string{
		catalog.AttrSongName, catalog.AttrArtist, catalog.AttrAlbum, catalog.AttrArtistID,
		catalog.AttrSpotifyURL, catalog.AttrDurationMS, catalog.AttrTrackNumber,
	}
	var extra []string
	for key := range rec {
		if !slices.Contains(known, key) {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	for _, key := range extra {
		rows = append(rows, []string{key, rec.String(key)})
	}
	return rows
}

// parseAttrs turns key=value pairs into a record. Values that parse as
// integers, floats or booleans are stored as such.
func parseAttrs(pairs []string) (catalog.Record, error) {
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected key=value", pair)
		}
		attrs[key] = parseScalar(value)
	}
	return catalog.NewRecord(attrs), nil
}

func parseScalar(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}

func pathOf(keys []string) catalog.Path {
	return catalog.Path{Genre: keys[0], Artist: keys[1], Album: keys[2], Song: keys[3]}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
