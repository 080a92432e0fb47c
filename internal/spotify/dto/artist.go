package dto

import (
	"encoding/json"
	"strings"
)

// JSONArtist is the body of GET /v1/artists/{id}.
type JSONArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// PrimaryGenre returns the first non-blank genre, or "" when there is none.
func (ja *JSONArtist) PrimaryGenre() string {
	for _, g := range ja.Genres {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}

// ErrorResponse is the body Spotify returns with non-2xx statuses.
type ErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrorMessage extracts the message from an error body, or "" when the body
// is not a Spotify error object.
func ErrorMessage(body string) string {
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return ""
	}
	return resp.Error.Message
}
