// Package http wraps net/http for calls to metadata providers.
//
// Every request carries the yggdrasil User-Agent and honours both the
// caller's context and the client timeout. Responses outside 2xx are
// returned as *StatusError so callers can tell throttling and server
// failures apart from bad requests:
//
//	client := http.NewClient(http.WithTimeout(10 * time.Second))
//
//	var artist struct{ Genres []string `json:"genres"` }
//	err := client.GetJSON(ctx, "https://api.spotify.com/v1/artists/"+id, nil, &artist)
//
// # Authentication
//
// Authentication is delegated to the wrapped *http.Client. Pass one that
// injects credentials, such as the client returned by an oauth2 config:
//
//	client := http.NewClient(http.WithHTTPClient(oauthClient))
package http
