package populate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/config"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/persist"
	"github.com/handiism/yggdrasil/internal/provider"
)

// ErrEmptyTitle is returned when a blank title is submitted.
var ErrEmptyTitle = errors.New("title must not be empty")

// ErrPickerRequired is returned by AddByTitle when several candidates match
// and no Picker was given.
var ErrPickerRequired = errors.New("several candidates match and no picker was given")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lowercase level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ProgressEvent represents a populate progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Picker asks the user to choose among candidates and returns the raw
// selection token, which is resolved with Choose.
type Picker func(ctx context.Context, candidates []model.Track) (string, error)

// Result describes one populate request.
type Result struct {
	// Path is where the song was stored. Zero when Cancelled.
	Path catalog.Path

	// Track is the candidate that was added.
	Track model.Track

	// Cancelled is set when the user aborted at the selection step.
	Cancelled bool

	// SaveErr holds the persistence failure, if any. The song is in the
	// in-memory tree regardless.
	SaveErr error
}

// Failure records a title that could not be imported.
type Failure struct {
	Title string
	Err   error
}

// ImportSummary reports the outcome of ImportTitles.
type ImportSummary struct {
	// Added holds one result per imported title, in input order.
	Added []Result

	// Failed holds the titles that were skipped, in input order.
	Failed []Failure

	// SaveErr is the error from the single save at the end, if any.
	SaveErr error
}

// Populator fills a catalog tree from a metadata provider.
//
// A Populator is the single writer of its tree. Provider calls may run
// concurrently inside ImportTitles, but every Add and Save happens on the
// calling goroutine.
type Populator struct {
	tree        *catalog.Tree
	provider    provider.Provider
	settings    *config.Settings
	catalogPath string
	logger      zerolog.Logger
	onProgress  func(ProgressEvent)
}

// Option configures a Populator.
type Option func(*Populator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Populator) {
		p.logger = logging.Component(logger, "populate")
	}
}

// WithProgress sets the progress callback. During ImportTitles it is
// called from several goroutines at once.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(p *Populator) {
		p.onProgress = fn
	}
}

// New creates a Populator that adds to tree and saves it to
// settings.CatalogPath after every change.
func New(tree *catalog.Tree, prov provider.Provider, settings *config.Settings, opts ...Option) *Populator {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	p := &Populator{
		tree:        tree,
		provider:    prov,
		settings:    settings,
		catalogPath: settings.CatalogPath,
		logger:      logging.Nop,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddByTitle searches for title, lets pick disambiguate when there is more
// than one candidate, resolves the artist's genre and stores the song.
//
// A single candidate is taken without calling pick. Several candidates with
// a nil pick yield ErrPickerRequired. No candidates yield ErrNoResults and
// nothing is added.
// A cancelled selection yields Result{Cancelled: true} and a nil error.
// An invalid selection token yields *InvalidSelectionError.
//
// Failing to save the catalog is not fatal: the song stays in the tree and
// the failure is reported in Result.SaveErr.
func (p *Populator) AddByTitle(ctx context.Context, title string, pick Picker) (Result, error) {
	candidates, err := p.Search(ctx, title)
	if err != nil {
		return Result{}, err
	}

	choice := Choice{Track: candidates[0]}
	if len(candidates) > 1 {
		if pick == nil {
			return Result{}, fmt.Errorf("%w: %d for %q", ErrPickerRequired, len(candidates), title)
		}
		token, err := pick(ctx, candidates)
		if err != nil {
			return Result{}, err
		}
		choice, err = Choose(candidates, token)
		if err != nil {
			return Result{}, err
		}
	}

	if choice.Cancelled {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Cancelled adding %q", title), Level: LevelInfo})
		return Result{Cancelled: true}, nil
	}

	return p.AddTrack(ctx, choice.Track)
}

// Search returns the provider's candidates for title, retrying transient
// failures. No candidates yield ErrNoResults.
func (p *Populator) Search(ctx context.Context, title string) ([]model.Track, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	p.progress(ProgressEvent{Message: fmt.Sprintf("Searching for %q", title), Level: LevelVerbose})

	candidates, err := withRetry(ctx, p, "search "+title, func(ctx context.Context) ([]model.Track, error) {
		return p.provider.Search(ctx, title, p.settings.SearchLimit)
	})
	if err != nil {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Error searching for %q: %v", title, err), Level: LevelError})
		return nil, err
	}
	if len(candidates) == 0 {
		p.progress(ProgressEvent{Message: fmt.Sprintf("No results for %q", title), Level: LevelWarning})
		return nil, fmt.Errorf("%w for %q", ErrNoResults, title)
	}
	return candidates, nil
}

// AddTrack resolves the genre of track's artist, stores the track and
// saves the catalog.
func (p *Populator) AddTrack(ctx context.Context, track model.Track) (Result, error) {
	genre, err := p.genreOf(ctx, track.ArtistID)
	if err != nil {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Error resolving genre for %s: %v", track.Artist, err), Level: LevelError})
		return Result{}, err
	}

	res := p.add(genre, track)
	res.SaveErr = p.save(ctx)
	return res, nil
}

// ImportTitles adds the first candidate for each title.
//
// Provider lookups run concurrently, bounded by MaxConcurrentLookups, and
// each artist's genre is fetched at most once. Songs are added in input
// order and the catalog is saved once at the end. Titles that fail are
// reported and skipped; only cancellation of ctx aborts the import.
func (p *Populator) ImportTitles(ctx context.Context, titles []string) (ImportSummary, error) {
	type lookup struct {
		track model.Track
		genre string
		err   error
	}

	lookups := make([]lookup, len(titles))
	genres := newGenreCache(p)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.settings.MaxConcurrentLookups))

	for i, title := range titles {
		g.Go(func() error {
			candidates, err := p.Search(gctx, title)
			if err != nil {
				lookups[i].err = err
				return nil
			}
			track := candidates[0]
			genre, err := genres.get(gctx, track.ArtistID)
			if err != nil {
				lookups[i].err = err
				return nil
			}
			lookups[i] = lookup{track: track, genre: genre}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return ImportSummary{}, err
	}

	var summary ImportSummary
	for i, l := range lookups {
		if l.err != nil {
			summary.Failed = append(summary.Failed, Failure{Title: titles[i], Err: l.err})
			continue
		}
		summary.Added = append(summary.Added, p.add(l.genre, l.track))
	}

	if len(summary.Added) > 0 {
		summary.SaveErr = p.save(ctx)
	}

	level := LevelSuccess
	if len(summary.Failed) > 0 {
		level = LevelWarning
	}
	p.progress(ProgressEvent{
		Message: fmt.Sprintf("Imported %d of %d titles", len(summary.Added), len(titles)),
		Level:   level,
	})

	return summary, nil
}

func (p *Populator) genreOf(ctx context.Context, artistID string) (string, error) {
	return withRetry(ctx, p, "genre "+artistID, func(ctx context.Context) (string, error) {
		return p.provider.GenreOf(ctx, artistID)
	})
}

func (p *Populator) add(genre string, track model.Track) Result {
	if strings.TrimSpace(genre) == "" {
		genre = provider.UnknownGenre
	}
	path := catalog.Path{Genre: genre, Artist: track.Artist, Album: track.Album, Song: track.Title}
	p.tree.Add(path.Genre, path.Artist, path.Album, path.Song, track.Record())

	p.logger.Info().
		Str("genre", path.Genre).
		Str("artist", path.Artist).
		Str("album", path.Album).
		Str("song", path.Song).
		Msg("song added")
	p.progress(ProgressEvent{Message: fmt.Sprintf("Added: %s [%s]", track, genre), Level: LevelSuccess})

	return Result{Path: path, Track: track}
}

func (p *Populator) save(ctx context.Context) error {
	if err := persist.Save(ctx, p.tree, p.catalogPath); err != nil {
		p.logger.Error().Err(err).Str("path", p.catalogPath).Msg("catalog save failed")
		p.progress(ProgressEvent{Message: fmt.Sprintf("Error saving catalog: %v", err), Level: LevelError})
		return err
	}
	p.progress(ProgressEvent{Message: fmt.Sprintf("Saved catalog to %s", p.catalogPath), Level: LevelVerbose})
	return nil
}

// withRetry calls fn until it succeeds, fails with an error that is not
// retryable, or ProviderMaxRetries retries have been spent.
func withRetry[T any](ctx context.Context, p *Populator, what string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	for tries := 0; ; tries++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !provider.IsRetryable(err) || tries >= p.settings.ProviderMaxRetries {
			return zero, err
		}

		p.logger.Warn().Err(err).Int("try", tries+1).Str("op", what).Msg("retrying provider call")
		p.progress(ProgressEvent{
			Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, p.settings.ProviderMaxRetries, what),
			Level:   LevelWarning,
		})
		if err := p.waitForRetry(ctx, tries); err != nil {
			return zero, err
		}
	}
}

func (p *Populator) waitForRetry(ctx context.Context, tries int) error {
	cooldown := p.settings.ProviderRetryCooldown * math.Pow(p.settings.ProviderRetryExponent, float64(tries))
	timer := time.NewTimer(time.Duration(cooldown * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Populator) progress(event ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}

// genreCache resolves each artist's genre once per import. Concurrent
// requests for the same artist share one provider call.
type genreCache struct {
	p      *Populator
	group  singleflight.Group
	mu     sync.Mutex
	genres map[string]string
}

func newGenreCache(p *Populator) *genreCache {
	return &genreCache{p: p, genres: make(map[string]string)}
}

func (c *genreCache) get(ctx context.Context, artistID string) (string, error) {
	c.mu.Lock()
	genre, ok := c.genres[artistID]
	c.mu.Unlock()
	if ok {
		return genre, nil
	}

	v, err, _ := c.group.Do(artistID, func() (any, error) {
		c.mu.Lock()
		genre, ok := c.genres[artistID]
		c.mu.Unlock()
		if ok {
			return genre, nil
		}

		genre, err := c.p.genreOf(ctx, artistID)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.genres[artistID] = genre
		c.mu.Unlock()
		return genre, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
