// Package persist saves a catalog.Tree to a JSON document and loads it back.
//
// The document mirrors the tree exactly: four nested objects keyed by genre,
// artist, album and song, with each song's attribute object at the bottom.
//
//	{
//	    "Rock": {
//	        "Queen": {
//	            "A Night at the Opera": {
//	                "Bohemian Rhapsody": {
//	                    "duration_ms": 354000
//	                }
//	            }
//	        }
//	    }
//	}
//
// Save replaces the destination atomically. Load treats a missing file as an
// empty catalog and reports anything that does not decode to the shape above
// as a *FormatError without returning a partial tree.
package persist
