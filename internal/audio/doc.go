// Package audio connects the catalog to audio files on disk: it builds
// catalog entries from the ID3 tags of a local library and exports catalog
// songs as playlists.
//
// # Library Scan
//
//	scanner := audio.NewScanner(logger)
//	entries, err := scanner.Scan(ctx, "/music")
//	audio.AddAll(tree, entries)
//
// Title, artist, album, genre, track number and length come from the
// TIT2, TPE1, TALB, TCON, TRCK and TLEN frames. A file without a genre
// lands under "Unknown".
//
// # Playlists
//
// Collect gathers the songs below a catalog prefix and a PlaylistCreator
// renders them as M3U, PLS or WPL:
//
//	entries, _ := audio.Collect(tree, "Rock", "Queen")
//	data, err := audio.NewPlaylistCreator(audio.FormatM3U, true).Create(entries)
package audio
