package audio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yggdrasil/internal/catalog"
)

func testEntries() []Entry {
	return []Entry{
		{
			Path: catalog.Path{Genre: "Rock", Artist: "Queen", Album: "A Night at the Opera", Song: "Bohemian Rhapsody"},
			Record: catalog.NewRecord(map[string]any{
				catalog.AttrSpotifyURL: "https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb",
				catalog.AttrDurationMS: 354320,
			}),
		},
		{
			Path:   catalog.Path{Genre: "Rock", Artist: "Queen", Album: "Jazz", Song: "Mustapha"},
			Record: catalog.Record{catalog.AttrFilePath: "/music/Queen/Jazz/Mustapha.mp3"},
		},
		{
			Path:   catalog.Path{Genre: "Rock", Artist: "Queen", Album: "Jazz", Song: "Manual Entry"},
			Record: catalog.Record{},
		},
	}
}

func render(t *testing.T, format PlaylistFormat, extended bool, entries []Entry) string {
	t.Helper()
	data, err := NewPlaylistCreator(format, extended).Create(entries)
	require.NoError(t, err)
	return string(data)
}

func TestCreate_M3U(t *testing.T) {
	got := render(t, FormatM3U, false, testEntries())

	assert.Equal(t, "https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb\n/music/Queen/Jazz/Mustapha.mp3\n", got)
}

func TestCreate_M3UExtended(t *testing.T) {
	got := render(t, FormatM3U, true, testEntries())

	want := "#EXTM3U\n" +
		"#EXTINF:354,Queen - Bohemian Rhapsody\n" +
		"https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb\n" +
		"#EXTINF:-1,Queen - Mustapha\n" +
		"/music/Queen/Jazz/Mustapha.mp3\n"
	assert.Equal(t, want, got)
}

func TestCreate_PLS(t *testing.T) {
	got := render(t, FormatPLS, false, testEntries())

	assert.True(t, strings.HasPrefix(got, "[playlist]\n"))
	assert.Contains(t, got, "File1=https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb\n")
	assert.Contains(t, got, "Title2=Queen - Mustapha\n")
	assert.Contains(t, got, "Length1=354\n")
	assert.Contains(t, got, "NumberOfEntries=2\n")
	assert.True(t, strings.HasSuffix(got, "Version=2\n"))
}

func TestCreate_WPL(t *testing.T) {
	got := render(t, FormatWPL, false, testEntries())

	assert.True(t, strings.HasPrefix(got, "<?wpl version=\"1.0\"?>\n<smil>"))
	assert.Contains(t, got, `<meta name="ItemCount" content="2"></meta>`)
	assert.Equal(t, 2, strings.Count(got, "<media src="))
	assert.Contains(t, got, `<media src="/music/Queen/Jazz/Mustapha.mp3"></media>`)
}

func TestCreate_WPLEscapes(t *testing.T) {
	entries := []Entry{{
		Path:   catalog.Path{Genre: "Rock", Artist: "Artist & Co", Album: "Album <Special>", Song: "Track"},
		Record: catalog.Record{catalog.AttrFilePath: `/music/Artist & Co/Album <Special>/Track "Quote".mp3`},
	}}

	got := render(t, FormatWPL, false, entries)

	assert.Contains(t, got, "Artist &amp; Co")
	assert.Contains(t, got, "Album &lt;Special&gt;")
	assert.NotContains(t, got, `"Quote"`)
}

func TestCreate_LineBreaksInValues(t *testing.T) {
	entries := []Entry{{
		Path:   catalog.Path{Genre: "Rock", Artist: "Queen", Album: "Jazz", Song: "Fat Bottomed\nGirls"},
		Record: catalog.Record{catalog.AttrFilePath: "/music/Queen/Jazz/Fat\r\nBottomed Girls.mp3"},
	}}

	m3u := render(t, FormatM3U, true, entries)
	assert.Equal(t, "#EXTM3U\n#EXTINF:-1,Queen - Fat Bottomed Girls\n/music/Queen/Jazz/Fat Bottomed Girls.mp3\n", m3u)

	pls := render(t, FormatPLS, false, entries)
	assert.Contains(t, pls, "File1=/music/Queen/Jazz/Fat Bottomed Girls.mp3\n")
	assert.Contains(t, pls, "Title1=Queen - Fat Bottomed Girls\n")
	assert.Equal(t, 6, strings.Count(pls, "\n"))
}

func TestCreate_NothingPlayable(t *testing.T) {
	assert.Empty(t, render(t, FormatM3U, false, testEntries()[2:]))
	assert.Equal(t, "#EXTM3U\n", render(t, FormatM3U, true, nil))
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    PlaylistFormat
		ext     string
		wantErr bool
	}{
		{"m3u", FormatM3U, ".m3u", false},
		{"", FormatM3U, ".m3u", false},
		{"PLS", FormatPLS, ".pls", false},
		{" wpl ", FormatWPL, ".wpl", false},
		{"zpl", FormatM3U, ".m3u", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ext, got.Extension())
		})
	}
}
