package audio

import (
	"github.com/handiism/yggdrasil/internal/catalog"
)

// Entry is one song together with its place in the catalog.
type Entry struct {
	Path   catalog.Path
	Record catalog.Record
}

// Location returns the file path of the song when it is a local file,
// otherwise its Spotify URL. It returns "" when the song has neither.
func (e Entry) Location() string {
	if loc := e.Record.String(catalog.AttrFilePath); loc != "" {
		return loc
	}
	return e.Record.String(catalog.AttrSpotifyURL)
}

// Title returns the "Artist - Song" label used in playlists.
func (e Entry) Title() string {
	return e.Path.Artist + " - " + e.Path.Song
}

// Seconds returns the song length in whole seconds, or -1 when unknown.
func (e Entry) Seconds() int64 {
	ms, ok := e.Record.Int(catalog.AttrDurationMS)
	if !ok || ms <= 0 {
		return -1
	}
	return ms / 1000
}

// Collect returns every song under prefix in catalog order.
func Collect(tree *catalog.Tree, prefix ...string) ([]Entry, error) {
	switch {
	case len(prefix) > catalog.Depth:
		return nil, catalog.ErrInvalidPath
	case len(prefix) == catalog.Depth:
		rec, err := tree.Lookup(prefix[0], prefix[1], prefix[2], prefix[3])
		if err != nil {
			return nil, err
		}
		p := catalog.Path{Genre: prefix[0], Artist: prefix[1], Album: prefix[2], Song: prefix[3]}
		return []Entry{{Path: p, Record: rec}}, nil
	case len(prefix) > 0:
		if _, err := tree.Keys(prefix...); err != nil {
			return nil, err
		}
	}

	var entries []Entry
	err := tree.Walk(func(p catalog.Path, rec catalog.Record) error {
		keys := p.Keys()
		for i, k := range prefix {
			if keys[i] != k {
				return nil
			}
		}
		entries = append(entries, Entry{Path: p, Record: rec})
		return nil
	})
	return entries, err
}

// AddAll stores every entry in tree.
func AddAll(tree *catalog.Tree, entries []Entry) {
	for _, e := range entries {
		tree.Add(e.Path.Genre, e.Path.Artist, e.Path.Album, e.Path.Song, e.Record)
	}
}
