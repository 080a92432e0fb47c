package populate

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/config"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/persist"
	"github.com/handiism/yggdrasil/internal/provider"
)

// fakeProvider serves canned search results and genres and counts calls.
type fakeProvider struct {
	mu          sync.Mutex
	results     map[string][]model.Track
	genres      map[string]string
	searchErrs  []error
	genreErr    error
	searchCalls int
	genreCalls  map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		results: map[string][]model.Track{
			"Bohemian Rhapsody": {
				{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", ArtistID: "queen", DurationMS: 354320, TrackNumber: 11},
				{Title: "Bohemian Rhapsody", Artist: "Panic! At The Disco", Album: "Bohemian Rhapsody (OST)", ArtistID: "patd"},
			},
			"So What": {
				{Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", ArtistID: "miles"},
			},
			"Killer Queen": {
				{Title: "Killer Queen", Artist: "Queen", Album: "Sheer Heart Attack", ArtistID: "queen"},
			},
			"Don't Stop Me Now": {
				{Title: "Don't Stop Me Now", Artist: "Queen", Album: "Jazz", ArtistID: "queen"},
			},
		},
		genres:     map[string]string{"queen": "classic rock", "miles": "jazz"},
		genreCalls: make(map[string]int),
	}
}

func (f *fakeProvider) Search(ctx context.Context, title string, limit int) ([]model.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if len(f.searchErrs) > 0 {
		err := f.searchErrs[0]
		f.searchErrs = f.searchErrs[1:]
		return nil, err
	}
	res := f.results[title]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeProvider) GenreOf(ctx context.Context, artistID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreCalls[artistID]++
	if f.genreErr != nil {
		return "", f.genreErr
	}
	if g, ok := f.genres[artistID]; ok {
		return g, nil
	}
	return provider.UnknownGenre, nil
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.CatalogPath = filepath.Join(t.TempDir(), "yggdrasil.json")
	s.ProviderRetryCooldown = 0
	return s
}

func pickToken(token string) Picker {
	return func(context.Context, []model.Track) (string, error) {
		return token, nil
	}
}

func TestAddByTitle_Select(t *testing.T) {
	prov := newFakeProvider()
	settings := testSettings(t)
	tree := catalog.New()
	var shown []model.Track
	p := New(tree, prov, settings)

	res, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", func(_ context.Context, c []model.Track) (string, error) {
		shown = c
		return "1", nil
	})
	require.NoError(t, err)
	require.NoError(t, res.SaveErr)
	assert.Len(t, shown, 2)

	want := catalog.Path{Genre: "classic rock", Artist: "Queen", Album: "A Night at the Opera", Song: "Bohemian Rhapsody"}
	assert.Equal(t, want, res.Path)

	rec, err := tree.Lookup(want.Genre, want.Artist, want.Album, want.Song)
	require.NoError(t, err)
	assert.Equal(t, "Bohemian Rhapsody", rec.String(catalog.AttrSongName))
	d, _ := rec.Int(catalog.AttrDurationMS)
	assert.Equal(t, int64(354320), d)

	// Genre is resolved only for the chosen candidate.
	assert.Equal(t, map[string]int{"queen": 1}, prov.genreCalls)

	saved, err := persist.Load(settings.CatalogPath)
	require.NoError(t, err)
	_, err = saved.Lookup(want.Genre, want.Artist, want.Album, want.Song)
	assert.NoError(t, err)
}

func TestAddByTitle_SecondCandidate(t *testing.T) {
	prov := newFakeProvider()
	tree := catalog.New()
	p := New(tree, prov, testSettings(t))

	res, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", pickToken("2"))
	require.NoError(t, err)
	assert.Equal(t, provider.UnknownGenre, res.Path.Genre)
	assert.Equal(t, "Panic! At The Disco", res.Path.Artist)
}

func TestAddByTitle_Cancel(t *testing.T) {
	prov := newFakeProvider()
	settings := testSettings(t)
	tree := catalog.New()
	p := New(tree, prov, settings)

	res, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", pickToken("0"))
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.True(t, tree.IsEmpty())
	assert.Empty(t, prov.genreCalls)

	_, statErr := os.Stat(settings.CatalogPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddByTitle_InvalidSelection(t *testing.T) {
	tree := catalog.New()
	p := New(tree, newFakeProvider(), testSettings(t))

	_, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", pickToken("9"))
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.True(t, tree.IsEmpty())
}

func TestAddByTitle_SingleResultSkipsPicker(t *testing.T) {
	tree := catalog.New()
	p := New(tree, newFakeProvider(), testSettings(t))

	res, err := p.AddByTitle(context.Background(), "So What", func(context.Context, []model.Track) (string, error) {
		t.Fatal("picker must not be called for a single candidate")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.Path{Genre: "jazz", Artist: "Miles Davis", Album: "Kind of Blue", Song: "So What"}, res.Path)
}

func TestAddByTitle_NoResults(t *testing.T) {
	tree := catalog.New()
	var events []ProgressEvent
	p := New(tree, newFakeProvider(), testSettings(t), WithProgress(func(e ProgressEvent) {
		events = append(events, e)
	}))

	_, err := p.AddByTitle(context.Background(), "Nonexistent Song Title", nil)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.True(t, tree.IsEmpty())
	require.NotEmpty(t, events)
	assert.Equal(t, LevelWarning, events[len(events)-1].Level)
}

func TestAddByTitle_EmptyTitle(t *testing.T) {
	p := New(catalog.New(), newFakeProvider(), testSettings(t))

	_, err := p.AddByTitle(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestAddByTitle_PickerError(t *testing.T) {
	stop := errors.New("input closed")
	p := New(catalog.New(), newFakeProvider(), testSettings(t))

	_, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", func(context.Context, []model.Track) (string, error) {
		return "", stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestAddByTitle_SeveralCandidatesNeedPicker(t *testing.T) {
	tree := catalog.New()
	p := New(tree, newFakeProvider(), testSettings(t))

	_, err := p.AddByTitle(context.Background(), "Bohemian Rhapsody", nil)
	assert.ErrorIs(t, err, ErrPickerRequired)
	assert.True(t, tree.IsEmpty())
}

func TestAddByTitle_SaveFailureIsNotFatal(t *testing.T) {
	settings := testSettings(t)
	settings.CatalogPath = t.TempDir() // a directory cannot be replaced by a file
	tree := catalog.New()
	p := New(tree, newFakeProvider(), settings)

	res, err := p.AddByTitle(context.Background(), "So What", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, res.SaveErr, persist.ErrWrite)

	_, err = tree.Lookup("jazz", "Miles Davis", "Kind of Blue", "So What")
	assert.NoError(t, err)
}

func TestAddByTitle_RetriesTransientErrors(t *testing.T) {
	prov := newFakeProvider()
	prov.searchErrs = []error{
		&provider.Error{Provider: "fake", Op: "search", StatusCode: http.StatusServiceUnavailable},
		&provider.Error{Provider: "fake", Op: "search", StatusCode: http.StatusTooManyRequests},
	}
	p := New(catalog.New(), prov, testSettings(t))

	_, err := p.AddByTitle(context.Background(), "So What", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, prov.searchCalls)
}

func TestAddByTitle_GivesUpAfterMaxRetries(t *testing.T) {
	prov := newFakeProvider()
	unavailable := &provider.Error{Provider: "fake", Op: "search", StatusCode: http.StatusBadGateway}
	prov.searchErrs = []error{unavailable, unavailable, unavailable, unavailable}
	settings := testSettings(t)
	settings.ProviderMaxRetries = 2
	p := New(catalog.New(), prov, settings)

	_, err := p.AddByTitle(context.Background(), "So What", nil)
	assert.ErrorIs(t, err, provider.ErrProvider)
	assert.Equal(t, 3, prov.searchCalls)
}

func TestAddByTitle_NoRetryOnClientError(t *testing.T) {
	prov := newFakeProvider()
	prov.searchErrs = []error{&provider.Error{Provider: "fake", Op: "search", StatusCode: http.StatusUnauthorized}}
	p := New(catalog.New(), prov, testSettings(t))

	_, err := p.AddByTitle(context.Background(), "So What", nil)
	assert.ErrorIs(t, err, provider.ErrProvider)
	assert.Equal(t, 1, prov.searchCalls)
}

func TestAddByTitle_GenreError(t *testing.T) {
	prov := newFakeProvider()
	prov.genreErr = &provider.Error{Provider: "fake", Op: "artist", StatusCode: http.StatusNotFound}
	tree := catalog.New()
	p := New(tree, prov, testSettings(t))

	_, err := p.AddByTitle(context.Background(), "So What", nil)
	assert.ErrorIs(t, err, provider.ErrProvider)
	assert.True(t, tree.IsEmpty())
}

func TestImportTitles(t *testing.T) {
	prov := newFakeProvider()
	settings := testSettings(t)
	tree := catalog.New()
	p := New(tree, prov, settings)

	titles := []string{"Killer Queen", "Missing Song", "So What", "Don't Stop Me Now", "Bohemian Rhapsody"}
	summary, err := p.ImportTitles(context.Background(), titles)
	require.NoError(t, err)
	require.NoError(t, summary.SaveErr)

	require.Len(t, summary.Added, 4)
	var songs []string
	for _, r := range summary.Added {
		songs = append(songs, r.Path.Song)
	}
	assert.Equal(t, []string{"Killer Queen", "So What", "Don't Stop Me Now", "Bohemian Rhapsody"}, songs)

	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "Missing Song", summary.Failed[0].Title)
	assert.ErrorIs(t, summary.Failed[0].Err, ErrNoResults)

	assert.Equal(t, 1, prov.genreCalls["queen"])
	assert.Equal(t, 4, tree.Len())

	saved, err := persist.Load(settings.CatalogPath)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Len())
}

func TestImportTitles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tree := catalog.New()
	p := New(tree, newFakeProvider(), testSettings(t))

	_, err := p.ImportTitles(ctx, []string{"So What"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, tree.IsEmpty())
}

func TestProgressLevel_String(t *testing.T) {
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown", ProgressLevel(42).String())
}
