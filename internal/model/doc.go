// Package model defines the provider-neutral track record that flows from a
// metadata provider into the catalog.
//
// # Track
//
// Track is one search candidate:
//
//	track := model.Track{
//	    Title:       "Bohemian Rhapsody",
//	    Artist:      "Queen",
//	    Album:       "A Night at the Opera",
//	    ArtistID:    "1dfeR4HaWDbWqFHLkxsg1d",
//	    URL:         "https://open.spotify.com/track/...",
//	    DurationMS:  354320,
//	    TrackNumber: 11,
//	}
//	fmt.Println(track)        // "Bohemian Rhapsody by Queen (Album: A Night at the Opera)"
//	rec := track.Record()     // catalog.Record with the persisted attribute names
//
// Providers fill Track from their own response shapes; the catalog only sees
// the Record.
package model
