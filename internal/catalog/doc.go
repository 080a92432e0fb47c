// Package catalog implements the in-memory Genre → Artist → Album → Song
// tree that backs yggdrasil.
//
// # Tree
//
// A Tree is an explicitly owned value. Create one empty with New, or obtain
// one from persist.Load, and pass it to whatever needs it:
//
//	tree := catalog.New()
//	tree.Add("Rock", "Queen", "A Night at the Opera", "Bohemian Rhapsody",
//	    catalog.Record{"duration_ms": 354000})
//
// Add creates any missing intermediate nodes and silently overwrites an
// existing song at the same path. There is no delete.
//
// # Queries
//
//	keys, err := tree.Keys("Rock")          // artists under Rock, sorted
//	artist, err := tree.Sample("Rock")      // one artist, uniformly at random
//	path, err := tree.RandomPath()          // full four-level random descent
//	rec, err := tree.Lookup(path.Genre, path.Artist, path.Album, path.Song)
//
// Keys are opaque, case-sensitive strings: "Rock" and "rock" are different
// genres.
//
// # Errors
//
// Missing path segments are reported as *PathNotFoundError naming the first
// absent key; sampling a node without children reports *EmptyCollectionError.
// Both match their sentinels with errors.Is:
//
//	if errors.Is(err, catalog.ErrEmptyCollection) {
//	    // nothing to pick from yet
//	}
//
// A Tree is not safe for concurrent use.
package catalog
