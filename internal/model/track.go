package model

import (
	"fmt"
	"time"

	"github.com/handiism/yggdrasil/internal/catalog"
)

// Track represents a single song as returned by a metadata provider.
//
// Track contains the metadata stored for one song:
//   - Title, Artist and Album, which also form its catalog path
//   - ArtistID, used to resolve the artist's genre
//   - URL of the song on the provider's site
//   - Duration in milliseconds and the track number within the album
type Track struct {
	// Title is the track title.
	Title string

	// Artist is the name of the first credited artist.
	Artist string

	// Album is the title of the album the track appears on.
	Album string

	// ArtistID is the provider's identifier for Artist.
	ArtistID string

	// URL links to the track on the provider's site.
	URL string

	// DurationMS is the track length in milliseconds.
	DurationMS int64

	// TrackNumber is the position on the album (1-indexed).
	TrackNumber int
}

// String returns the one-line description used in candidate lists.
func (t Track) String() string {
	return fmt.Sprintf("%s by %s (Album: %s)", t.Title, t.Artist, t.Album)
}

// Duration returns the track length as a time.Duration.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// Record converts the track into the attribute map stored in the catalog.
func (t Track) Record() catalog.Record {
	return catalog.NewRecord(map[string]any{
		catalog.AttrSongName:    t.Title,
		catalog.AttrArtist:      t.Artist,
		catalog.AttrAlbum:       t.Album,
		catalog.AttrArtistID:    t.ArtistID,
		catalog.AttrSpotifyURL:  t.URL,
		catalog.AttrDurationMS:  t.DurationMS,
		catalog.AttrTrackNumber: t.TrackNumber,
	})
}

// TrackFromRecord rebuilds a Track from a stored record. Missing attributes
// are left at their zero values.
func TrackFromRecord(rec catalog.Record) Track {
	duration, _ := rec.Int(catalog.AttrDurationMS)
	number, _ := rec.Int(catalog.AttrTrackNumber)
	return Track{
		Title:       rec.String(catalog.AttrSongName),
		Artist:      rec.String(catalog.AttrArtist),
		Album:       rec.String(catalog.AttrAlbum),
		ArtistID:    rec.String(catalog.AttrArtistID),
		URL:         rec.String(catalog.AttrSpotifyURL),
		DurationMS:  duration,
		TrackNumber: int(number),
	}
}

// FormatDuration renders d as m:ss, truncated to whole seconds.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
