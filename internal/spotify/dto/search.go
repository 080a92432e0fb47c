package dto

import (
	"github.com/handiism/yggdrasil/internal/model"
)

// SearchResponse is the body of GET /v1/search?type=track.
type SearchResponse struct {
	Tracks *TrackPage `json:"tracks"`
}

// TrackPage is one page of track search results.
type TrackPage struct {
	Items []JSONTrack `json:"items"`
	Total int         `json:"total"`
}

// JSONTrack is a full track object.
type JSONTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []JSONArtistRef   `json:"artists"`
	Album        *JSONAlbumRef     `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
	DurationMS   int64             `json:"duration_ms"`
	TrackNumber  int               `json:"track_number"`
}

// JSONArtistRef is the simplified artist embedded in tracks.
type JSONArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JSONAlbumRef is the simplified album embedded in tracks.
type JSONAlbumRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToTrack converts JSONTrack to a model.Track. The second result is false
// for tracks without any credited artist, which cannot be placed in the
// catalog.
func (jt *JSONTrack) ToTrack() (model.Track, bool) {
	if len(jt.Artists) == 0 {
		return model.Track{}, false
	}

	album := ""
	if jt.Album != nil {
		album = jt.Album.Name
	}

	return model.Track{
		Title:       jt.Name,
		Artist:      jt.Artists[0].Name,
		Album:       album,
		ArtistID:    jt.Artists[0].ID,
		URL:         jt.ExternalURLs["spotify"],
		DurationMS:  jt.DurationMS,
		TrackNumber: jt.TrackNumber,
	}, true
}
