// Package spotify implements provider.Provider against the Spotify Web API.
//
// Requests are authenticated with the OAuth2 client-credentials flow, which
// needs an application's client ID and secret but no user login:
//
//	client, err := spotify.NewClient(ctx, spotify.Config{
//	    ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
//	    ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
//	})
//	tracks, err := client.Search(ctx, "Bohemian Rhapsody", 7)
//	genre, err := client.GenreOf(ctx, tracks[0].ArtistID)
//
// # Data Format
//
// Search uses GET /v1/search with a "track:" query; genres come from
// GET /v1/artists/{id}. Only the first credited artist of a track and the
// first genre of an artist are used. The JSON shapes live in the dto
// sub-package.
package spotify
