package catalog

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewWithRand(rand.New(rand.NewPCG(1, 2)))
	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", Record{AttrDurationMS: 354000})
	tree.Add("Rock", "Queen", "A Night at the Opera", "Love of My Life", Record{AttrDurationMS: 219000})
	tree.Add("Rock", "Queen", "News of the World", "We Will Rock You", nil)
	tree.Add("Rock", "Led Zeppelin", "IV", "Black Dog", Record{AttrTrackNumber: 1})
	tree.Add("Jazz", "Miles Davis", "Kind of Blue", "So What", Record{AttrArtist: "Miles Davis"})
	return tree
}

func TestAdd_CreatesPath(t *testing.T) {
	tree := New()
	rec := Record{AttrSongName: "Bohemian Rhapsody", AttrDurationMS: 354000}

	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", rec)

	got, err := tree.Lookup("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody")
	require.NoError(t, err)
	assert.Equal(t, NewRecord(rec), got)

	prefixes := [][]string{
		{},
		{"Rock"},
		{"Rock", "Queen"},
		{"Rock", "Queen", "A Night at the Opera"},
	}
	want := []string{"Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody"}
	for i, prefix := range prefixes {
		keys, err := tree.Keys(prefix...)
		require.NoError(t, err)
		assert.Contains(t, keys, want[i])
	}
}

func TestAdd_Overwrite(t *testing.T) {
	tree := New()
	tree.Add("Rock", "Queen", "Jazz", "Mustapha", Record{AttrDurationMS: 1})
	tree.Add("Rock", "Queen", "Jazz", "Mustapha", Record{AttrDurationMS: 2})

	got, err := tree.Lookup("Rock", "Queen", "Jazz", "Mustapha")
	require.NoError(t, err)
	assert.Equal(t, Record{AttrDurationMS: int64(2)}, got)

	songs, err := tree.Keys("Rock", "Queen", "Jazz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mustapha"}, songs)
	assert.Equal(t, 1, tree.Len())
}

func TestAdd_NilRecordStoresEmpty(t *testing.T) {
	tree := New()
	tree.Add("Pop", "ABBA", "Arrival", "Dancing Queen", nil)

	got, err := tree.Lookup("Pop", "ABBA", "Arrival", "Dancing Queen")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdd_CopiesRecord(t *testing.T) {
	tree := New()
	rec := Record{AttrArtist: "Queen"}
	tree.Add("Rock", "Queen", "Innuendo", "Innuendo", rec)
	rec[AttrArtist] = "changed"

	got, err := tree.Lookup("Rock", "Queen", "Innuendo", "Innuendo")
	require.NoError(t, err)
	assert.Equal(t, "Queen", got.String(AttrArtist))

	got[AttrArtist] = "changed again"
	again, err := tree.Lookup("Rock", "Queen", "Innuendo", "Innuendo")
	require.NoError(t, err)
	assert.Equal(t, "Queen", again.String(AttrArtist))
}

func TestKeys_CaseSensitive(t *testing.T) {
	tree := New()
	tree.Add("Rock", "a", "b", "c", nil)
	tree.Add("rock", "a", "b", "c", nil)

	genres, err := tree.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock", "rock"}, genres)
}

func TestLookup_NotFound(t *testing.T) {
	tree := newTestTree(t)

	tests := []struct {
		name    string
		path    Path
		level   Level
		segment string
	}{
		{"genre", Path{"Metal", "Queen", "x", "y"}, LevelGenre, "Metal"},
		{"artist", Path{"Rock", "ABBA", "x", "y"}, LevelArtist, "ABBA"},
		{"album", Path{"Rock", "Queen", "Innuendo", "y"}, LevelAlbum, "Innuendo"},
		{"song", Path{"Rock", "Queen", "News of the World", "Spread Your Wings"}, LevelSong, "Spread Your Wings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.Lookup(tt.path.Genre, tt.path.Artist, tt.path.Album, tt.path.Song)
			require.ErrorIs(t, err, ErrPathNotFound)

			var nf *PathNotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.level, nf.Level)
			assert.Equal(t, tt.segment, nf.Segment)
			assert.Equal(t, tt.path.Keys()[:tt.level], nf.Parent)
		})
	}
}

func TestLookup_NamesMissingGenre(t *testing.T) {
	tree := New()
	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", nil)

	_, err := tree.Lookup("Jazz", "Queen", "A Night at the Opera", "Bohemian Rhapsody")

	var nf *PathNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Jazz", nf.Segment)
	assert.Contains(t, err.Error(), "Jazz")
}

func TestKeys_Errors(t *testing.T) {
	tree := newTestTree(t)

	_, err := tree.Keys("Rock", "Nobody")
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, err = tree.Keys("Rock", "Queen", "News of the World", "We Will Rock You")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestKeys_Sorted(t *testing.T) {
	tree := newTestTree(t)

	artists, err := tree.Keys("Rock")
	require.NoError(t, err)
	assert.Equal(t, []string{"Led Zeppelin", "Queen"}, artists)

	songs, err := tree.Keys("Rock", "Queen", "A Night at the Opera")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bohemian Rhapsody", "Love of My Life"}, songs)
}

func TestSample_Empty(t *testing.T) {
	tree := New()

	_, err := tree.Sample()
	require.ErrorIs(t, err, ErrEmptyCollection)

	var empty *EmptyCollectionError
	require.ErrorAs(t, err, &empty)
	assert.Empty(t, empty.Path)

	_, err = tree.RandomPath()
	assert.ErrorIs(t, err, ErrEmptyCollection)
}

func TestSample_ReturnsMember(t *testing.T) {
	tree := newTestTree(t)

	prefixes := [][]string{
		{},
		{"Rock"},
		{"Rock", "Queen"},
		{"Rock", "Queen", "A Night at the Opera"},
		{"Jazz", "Miles Davis", "Kind of Blue"},
	}

	for _, prefix := range prefixes {
		keys, err := tree.Keys(prefix...)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			key, err := tree.Sample(prefix...)
			require.NoError(t, err)
			assert.Contains(t, keys, key)
		}
	}
}

func TestSample_CoversAllKeys(t *testing.T) {
	tree := newTestTree(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key, err := tree.Sample("Rock")
		require.NoError(t, err)
		seen[key] = true
	}
	assert.Len(t, seen, 2)
}

func TestSample_MissingPrefix(t *testing.T) {
	tree := newTestTree(t)

	_, err := tree.Sample("Blues")
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.NotErrorIs(t, err, ErrEmptyCollection)
}

func TestRandomPath(t *testing.T) {
	tree := newTestTree(t)

	for i := 0; i < 50; i++ {
		path, err := tree.RandomPath()
		require.NoError(t, err)
		_, err = tree.Lookup(path.Genre, path.Artist, path.Album, path.Song)
		assert.NoError(t, err)
	}
}

func TestWalk_Order(t *testing.T) {
	tree := newTestTree(t)

	var songs []string
	err := tree.Walk(func(p Path, _ Record) error {
		songs = append(songs, p.Song)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"So What", "Black Dog", "Bohemian Rhapsody", "Love of My Life", "We Will Rock You"}, songs)
	assert.Equal(t, 5, tree.Len())
}

func TestWalk_StopsOnError(t *testing.T) {
	tree := newTestTree(t)
	stop := errors.New("stop")

	calls := 0
	err := tree.Walk(func(Path, Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestMerge(t *testing.T) {
	tree := newTestTree(t)
	other := New()
	other.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody", Record{AttrDurationMS: 1})
	other.Add("Blues", "B.B. King", "Live at the Regal", "Every Day I Have the Blues", nil)

	tree.Merge(other)

	rec, err := tree.Lookup("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody")
	require.NoError(t, err)
	assert.Equal(t, Record{AttrDurationMS: int64(1)}, rec)
	assert.Equal(t, 6, tree.Len())
}

func TestIsEmpty(t *testing.T) {
	tree := New()
	assert.True(t, tree.IsEmpty())
	tree.Add("a", "b", "c", "d", nil)
	assert.False(t, tree.IsEmpty())
}
