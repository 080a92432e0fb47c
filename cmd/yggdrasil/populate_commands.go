package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/populate"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var pick string

	cmd := &cobra.Command{
		Use:   "search <title>...",
		Short: "Look up a song by title and add the chosen match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.populator(cmd)
			if err != nil {
				return err
			}

			picker := promptPicker(cmd.InOrStdin(), cmd.OutOrStdout())
			if cmd.Flags().Changed("pick") {
				picker = func(context.Context, []model.Track) (string, error) {
					return pick, nil
				}
			}

			res, err := p.AddByTitle(cmd.Context(), strings.Join(args, " "), picker)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Cancelled {
				fmt.Fprintln(out, "Cancelled, nothing added.")
				return nil
			}

			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, songRows(res.Path, res.Track.Record()), nil))
			if res.SaveErr != nil {
				return fmt.Errorf("song added but the catalog was not saved: %w", res.SaveErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pick, "pick", "", "Selection to use when several songs match (1-based, 0 cancels)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add the first match for every title in a file, one title per line",
		Long: "Reads song titles, one per line, from a file or from stdin when the argument is \"-\".\n" +
			"Blank lines and lines starting with # are skipped. Lookups run concurrently and the\n" +
			"first match for each title is added. The catalog is saved once at the end.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, err := readTitles(cmd, args[0])
			if err != nil {
				return err
			}
			if len(titles) == 0 {
				return fmt.Errorf("no titles in %s", args[0])
			}

			p, err := ctx.populator(cmd)
			if err != nil {
				return err
			}
			summary, err := p.ImportTitles(cmd.Context(), titles)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Added) > 0 {
				rows := make([][]string, 0, len(summary.Added))
				for _, res := range summary.Added {
					rows = append(rows, []string{res.Path.Song, res.Path.Artist, res.Path.Album, res.Path.Genre})
				}
				fmt.Fprintln(out, renderTable([]string{"Song", "Artist", "Album", "Genre"}, rows, nil))
			}
			if len(summary.Failed) > 0 {
				rows := make([][]string, 0, len(summary.Failed))
				for _, f := range summary.Failed {
					rows = append(rows, []string{f.Title, f.Err.Error()})
				}
				fmt.Fprintln(cmd.ErrOrStderr(), renderTable([]string{"Title", "Error"}, rows, nil))
			}
			fmt.Fprintf(out, "Imported %d of %d titles\n", len(summary.Added), len(titles))

			if summary.SaveErr != nil {
				return fmt.Errorf("catalog was not saved: %w", summary.SaveErr)
			}
			if len(summary.Added) == 0 {
				return errors.New("no titles could be imported")
			}
			return nil
		},
	}
}

func (c *commandContext) populator(cmd *cobra.Command) (*populate.Populator, error) {
	tree, err := c.ensureTree()
	if err != nil {
		return nil, err
	}
	prov, err := c.provider(cmd.Context())
	if err != nil {
		return nil, err
	}
	return populate.New(tree, prov, c.settings,
		populate.WithLogger(c.logger),
		populate.WithProgress(progressPrinter(cmd.ErrOrStderr(), c.flags.verbose)),
	), nil
}

// progressPrinter writes one line per event. Calls may come from several
// goroutines.
func progressPrinter(w io.Writer, verbose bool) func(populate.ProgressEvent) {
	var mu sync.Mutex
	return func(event populate.ProgressEvent) {
		var prefix string
		switch event.Level {
		case populate.LevelVerbose:
			if !verbose {
				return
			}
			prefix = "·"
		case populate.LevelWarning:
			prefix = "!"
		case populate.LevelError:
			prefix = "✗"
		case populate.LevelSuccess:
			prefix = "✓"
		default:
			prefix = "›"
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s %s\n", prefix, event.Message)
	}
}

// promptPicker lists the candidates on out and reads selections from in
// until one is valid.
func promptPicker(in io.Reader, out io.Writer) populate.Picker {
	scanner := bufio.NewScanner(in)
	return func(ctx context.Context, candidates []model.Track) (string, error) {
		fmt.Fprintln(out, "Several songs match:")
		fmt.Fprint(out, populate.FormatCandidates(candidates))
		for {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			fmt.Fprintf(out, "Pick one [0-%d]: ", len(candidates))
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", fmt.Errorf("read selection: %w", err)
				}
				return "", errors.New("no selection made")
			}
			token := scanner.Text()
			if _, err := populate.Choose(candidates, token); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			return token, nil
		}
	}
}

func readTitles(cmd *cobra.Command, name string) ([]string, error) {
	var r io.Reader
	if name == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open titles: %w", err)
		}
		defer f.Close()
		r = f
	}

	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	return titles, nil
}
