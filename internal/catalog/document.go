package catalog

// Document is the nested-map form of a Tree:
// genre → artist → album → song → record.
//
// It is the exchange format between the tree and its serializations. Unlike
// Add, a Document can describe branches that have no songs below them; those
// survive a FromDocument/Document round trip.
type Document map[string]map[string]map[string]map[string]Record

// Document returns a deep copy of the tree in nested-map form.
func (t *Tree) Document() Document {
	doc := make(Document, len(t.root.children))
	for genre, g := range t.root.children {
		artists := make(map[string]map[string]map[string]Record, len(g.children))
		for artist, a := range g.children {
			albums := make(map[string]map[string]Record, len(a.children))
			for album, al := range a.children {
				songs := make(map[string]Record, len(al.children))
				for song, s := range al.children {
					songs[song] = s.record.Clone()
				}
				albums[album] = songs
			}
			artists[artist] = albums
		}
		doc[genre] = artists
	}
	return doc
}

// FromDocument builds a tree from doc. Records are normalized the same way
// Add normalizes them; a nil record becomes an empty one.
func FromDocument(doc Document) *Tree {
	t := New()
	for genre, artists := range doc {
		t.ensure([]string{genre})
		for artist, albums := range artists {
			t.ensure([]string{genre, artist})
			for album, songs := range albums {
				t.ensure([]string{genre, artist, album})
				for song, rec := range songs {
					t.Add(genre, artist, album, song, rec)
				}
			}
		}
	}
	return t
}
