// Package populate fills the catalog from a metadata provider.
//
// # Populator
//
// The Populator coordinates one populate request:
//
//  1. Search the provider by song title
//  2. Let the user pick among several candidates (Choose)
//  3. Resolve the artist's genre, once, for the chosen track
//  4. Add the song under genre/artist/album/title
//  5. Save the catalog
//
// # Basic Usage
//
//	p := populate.New(tree, spotifyClient, settings,
//	    populate.WithProgress(func(event populate.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    }),
//	)
//
//	res, err := p.AddByTitle(ctx, "Bohemian Rhapsody", func(ctx context.Context, c []model.Track) (string, error) {
//	    fmt.Print(populate.FormatCandidates(c))
//	    return readLine()
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.SaveErr != nil {
//	    // the song is in memory but not on disk
//	}
//
// # Disambiguation
//
// Choose is a pure function from a candidate list and the user's input to a
// Choice: "0" cancels, "1".."n" select, anything else is an
// *InvalidSelectionError and the caller may ask again.
//
// # Batch Import
//
// ImportTitles looks up many titles concurrently, limited by
// settings.MaxConcurrentLookups, takes the first candidate of each and
// saves once at the end.
//
// # Retry Logic
//
// Provider errors that are retryable (rate limiting, server errors,
// transport failures) are retried with exponential backoff, configurable via
// settings.ProviderMaxRetries, ProviderRetryCooldown and
// ProviderRetryExponent.
package populate
