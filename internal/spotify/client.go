package spotify

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	yhttp "github.com/handiism/yggdrasil/internal/http"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/provider"
	"github.com/handiism/yggdrasil/internal/spotify/dto"
)

// Default endpoints.
const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// maxSearchLimit is the largest page size the search endpoint accepts.
const maxSearchLimit = 50

const providerName = "spotify"

// ErrMissingCredentials is returned by NewClient when the client ID or
// secret is empty.
var ErrMissingCredentials = errors.New("spotify: client ID and secret are required")

// Config holds the settings needed to reach the Spotify Web API.
type Config struct {
	ClientID     string
	ClientSecret string

	// BaseURL and TokenURL default to the public Spotify endpoints.
	BaseURL  string
	TokenURL string

	// Timeout bounds each request, including token fetches.
	Timeout time.Duration

	Logger *zerolog.Logger
}

// Client is a provider.Provider backed by the Spotify Web API.
type Client struct {
	http    *yhttp.Client
	baseURL string
	logger  zerolog.Logger
}

var _ provider.Provider = (*Client)(nil)

// NewClient creates a client that authenticates with the client-credentials
// flow. Tokens are fetched lazily on the first request and refreshed when
// they expire.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = yhttp.DefaultTimeout
	}
	hc := cc.Client(ctx)
	hc.Timeout = timeout

	logger := logging.Nop
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return newClient(yhttp.NewClient(yhttp.WithHTTPClient(hc)), cfg.BaseURL, logger), nil
}

// NewClientWithHTTP creates a client that sends requests through hc as-is.
// Authentication, if any, is up to hc.
func NewClientWithHTTP(hc *yhttp.Client, baseURL string) *Client {
	return newClient(hc, baseURL, logging.Nop)
}

func newClient(hc *yhttp.Client, baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.Component(logger, "spotify"),
	}
}

// Search returns up to limit tracks whose title matches title.
//
// Tracks without a credited artist are dropped, so fewer than limit results
// may come back even when Spotify has more matches.
func (c *Client) Search(ctx context.Context, title string, limit int) ([]model.Track, error) {
	if limit <= 0 {
		limit = provider.DefaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := url.Values{
		"q":     {"track:" + title},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}

	var resp dto.SearchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search", query, &resp); err != nil {
		return nil, c.wrap("search", err)
	}
	if resp.Tracks == nil {
		return []model.Track{}, nil
	}

	tracks := make([]model.Track, 0, len(resp.Tracks.Items))
	for i := range resp.Tracks.Items {
		track, ok := resp.Tracks.Items[i].ToTrack()
		if !ok {
			continue
		}
		tracks = append(tracks, track)
		if len(tracks) == limit {
			break
		}
	}

	c.logger.Debug().
		Str("title", title).
		Int("results", len(tracks)).
		Msg("searched tracks")

	return tracks, nil
}

// GenreOf returns the artist's first listed genre, or provider.UnknownGenre
// when Spotify lists none.
func (c *Client) GenreOf(ctx context.Context, artistID string) (string, error) {
	if strings.TrimSpace(artistID) == "" {
		return provider.UnknownGenre, nil
	}

	var artist dto.JSONArtist
	if err := c.http.GetJSON(ctx, c.baseURL+"/artists/"+url.PathEscape(artistID), nil, &artist); err != nil {
		return "", c.wrap("artist", err)
	}

	genre := artist.PrimaryGenre()
	if genre == "" {
		genre = provider.UnknownGenre
	}

	c.logger.Debug().
		Str("artist_id", artistID).
		Str("genre", genre).
		Msg("resolved artist genre")

	return genre, nil
}

// wrap converts transport, status and token errors into *provider.Error.
func (c *Client) wrap(op string, err error) error {
	pe := &provider.Error{Provider: providerName, Op: op, Err: err}

	var se *yhttp.StatusError
	var re *oauth2.RetrieveError
	switch {
	case errors.As(err, &se):
		pe.StatusCode = se.StatusCode
		pe.Message = dto.ErrorMessage(se.Body)
		if pe.Message == "" {
			pe.Message = se.Status
		}
	case errors.As(err, &re):
		if re.Response != nil {
			pe.StatusCode = re.Response.StatusCode
		}
		pe.Message = "token request rejected"
		if re.ErrorCode != "" {
			pe.Message += ": " + re.ErrorCode
		}
	}
	return pe
}
