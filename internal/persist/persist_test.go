package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yggdrasil/internal/catalog"
)

func TestSaveLoad_Scenario(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "yggdrasil.json")
	tree := catalog.New()
	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", catalog.Record{"duration_ms": 354000})

	require.NoError(t, Save(context.Background(), tree, dest))
	loaded, err := Load(dest)
	require.NoError(t, err)

	rec, err := loaded.Lookup("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody")
	require.NoError(t, err)
	assert.Equal(t, catalog.Record{"duration_ms": int64(354000)}, rec)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "yggdrasil.json")
	tree := catalog.New()
	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", catalog.Record{
		catalog.AttrSongName:    "Bohemian Rhapsody",
		catalog.AttrArtist:      "Queen",
		catalog.AttrAlbum:       "A Night at the Opera",
		catalog.AttrArtistID:    "1dfeR4HaWDbWqFHLkxsg1d",
		catalog.AttrSpotifyURL:  "https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb",
		catalog.AttrDurationMS:  354320,
		catalog.AttrTrackNumber: 11,
	})
	tree.Add("Rock", "Queen", "Jazz", "Bicycle Race", catalog.Record{
		"explicit":   false,
		"popularity": 71.5,
		"isrc":       "GBUM71029616",
		"notes":      nil,
		"upc":        json.Number("12345678901234567890"),
		"loudness":   json.Number("1e400"),
	})
	tree.Add("rock", "AC/DC", "Back in Black", "Hells Bells <live> & more", nil)
	tree.Add("Jazz", "Miles Davis", "Kind of Blue", "So What", catalog.Record{})

	require.NoError(t, Save(context.Background(), tree, dest))
	loaded, err := Load(dest)
	require.NoError(t, err)

	assert.Equal(t, tree.Document(), loaded.Document())

	var prefixes [][]string
	prefixes = append(prefixes, nil)
	err = tree.Walk(func(p catalog.Path, want catalog.Record) error {
		got, err := loaded.Lookup(p.Genre, p.Artist, p.Album, p.Song)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		keys := p.Keys()
		prefixes = append(prefixes, keys[:1], keys[:2], keys[:3])
		return nil
	})
	require.NoError(t, err)

	for _, prefix := range prefixes {
		want, err := tree.Keys(prefix...)
		require.NoError(t, err)
		got, err := loaded.Keys(prefix...)
		require.NoError(t, err)
		assert.Equal(t, want, got, "keys under %v", prefix)
	}
}

func TestSave_StableOutput(t *testing.T) {
	dir := t.TempDir()
	tree := catalog.New()
	tree.Add("b", "b", "b", "b", catalog.Record{"z": 1, "a": 2})
	tree.Add("a", "a", "a", "a", nil)

	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	require.NoError(t, Save(context.Background(), tree, first))
	loaded, err := Load(first)
	require.NoError(t, err)
	require.NoError(t, Save(context.Background(), loaded, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.True(t, strings.HasPrefix(string(a), "{\n    \"a\": {"))
}

func TestLoadSave_KeepsNumberText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	doc := `{"Pop": {"ABBA": {"Arrival": {"Dancing Queen": ` +
		`{"upc": 12345678901234567890, "ratio": 0.10000000000000000555, "huge": 1e400, "tempo": 2.0}}}}}`
	require.NoError(t, os.WriteFile(src, []byte(doc), 0o644))

	tree, err := Load(src)
	require.NoError(t, err)
	dest := filepath.Join(dir, "out.json")
	require.NoError(t, Save(context.Background(), tree, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"upc": 12345678901234567890`)
	assert.Contains(t, out, `"ratio": 0.10000000000000000555`)
	assert.Contains(t, out, `"huge": 1e400`)
	assert.Contains(t, out, `"tempo": 2.0`)
}

func TestLoad_ColdStart(t *testing.T) {
	tree, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.True(t, tree.IsEmpty())

	_, err = tree.Sample()
	assert.ErrorIs(t, err, catalog.ErrEmptyCollection)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"whitespace", "  \n"},
		{"not json", "Rock -> Queen"},
		{"truncated", `{"Rock": {"Queen": {`},
		{"null", "null"},
		{"array", `["Rock"]`},
		{"genre is string", `{"Rock": "Queen"}`},
		{"album is list", `{"Rock": {"Queen": {"Jazz": ["Mustapha"]}}}`},
		{"record is number", `{"Rock": {"Queen": {"Jazz": {"Mustapha": 3}}}}`},
		{"trailing data", `{"Rock": {}} {"Jazz": {}}`},
		{"partially valid", `{"Jazz": {"Miles Davis": {"Kind of Blue": {"So What": {}}}}, "Rock": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "yggdrasil.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			tree, err := Load(path)
			assert.Nil(t, tree)
			require.ErrorIs(t, err, ErrFormat)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, path, fe.Path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data), "load must not touch the file")
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrRead)
	assert.NotErrorIs(t, err, ErrFormat)
}

func TestSave_ReplacesPreviousContent(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "yggdrasil.json")
	require.NoError(t, os.WriteFile(dest, []byte(`{"Old": {}}`), 0o644))

	tree := catalog.New()
	tree.Add("New", "a", "b", "c", nil)
	require.NoError(t, Save(context.Background(), tree, dest))

	loaded, err := Load(dest)
	require.NoError(t, err)
	genres, err := loaded.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, genres)
}

func TestSave_WriteError(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog")
	require.NoError(t, os.Mkdir(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep"), []byte("x"), 0o644))

	tree := catalog.New()
	tree.Add("Rock", "Queen", "Jazz", "Mustapha", nil)

	err := Save(context.Background(), tree, dest)
	require.ErrorIs(t, err, ErrWrite)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, dest, we.Path)
	assert.Equal(t, "write", we.Op)

	_, statErr := os.Stat(filepath.Join(dest, "keep"))
	assert.NoError(t, statErr)
}

func TestDecode_EmptyObject(t *testing.T) {
	tree, err := Decode([]byte("{}"))
	require.NoError(t, err)
	assert.True(t, tree.IsEmpty())
}
