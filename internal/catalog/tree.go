package catalog

import (
	"math/rand/v2"
	"sort"
)

// Level identifies one of the four levels of the tree.
type Level int

const (
	LevelGenre Level = iota
	LevelArtist
	LevelAlbum
	LevelSong
)

// Depth is the number of keys in a full song path.
const Depth = 4

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelGenre:
		return "genre"
	case LevelArtist:
		return "artist"
	case LevelAlbum:
		return "album"
	case LevelSong:
		return "song"
	default:
		return "unknown"
	}
}

// Path is a full genre/artist/album/song address.
type Path struct {
	Genre  string
	Artist string
	Album  string
	Song   string
}

// Keys returns the path as a slice ordered from genre to song.
func (p Path) Keys() []string {
	return []string{p.Genre, p.Artist, p.Album, p.Song}
}

// node is shared by every level. Branch nodes use children, song nodes use
// record; which one applies is determined by the node's depth.
type node struct {
	children map[string]*node
	record   Record
}

// sortedKeys returns the child keys in ascending order.
func (n *node) sortedKeys() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tree is the four-level music catalog.
//
// The zero value is not usable; create trees with New or NewWithRand.
type Tree struct {
	root *node
	rng  *rand.Rand
}

// New creates an empty tree that samples with the global random source.
func New() *Tree {
	return &Tree{root: &node{children: make(map[string]*node)}}
}

// NewWithRand creates an empty tree that samples with rng. Passing a seeded
// source makes Sample and RandomPath deterministic.
func NewWithRand(rng *rand.Rand) *Tree {
	t := New()
	t.rng = rng
	return t
}

// Add stores rec at genre/artist/album/song, creating missing intermediate
// nodes. An existing song at the same path is replaced. A nil rec stores an
// empty record.
func (t *Tree) Add(genre, artist, album, song string, rec Record) {
	t.ensure([]string{genre, artist, album, song}).record = rec.Clone()
}

// Lookup returns a copy of the record at the exact path.
func (t *Tree) Lookup(genre, artist, album, song string) (Record, error) {
	n, err := t.descend([]string{genre, artist, album, song})
	if err != nil {
		return nil, err
	}
	return n.record.Clone(), nil
}

// Keys returns the sorted child keys of the node addressed by prefix.
// An empty prefix lists genres; three keys list songs.
func (t *Tree) Keys(prefix ...string) ([]string, error) {
	if len(prefix) >= Depth {
		return nil, ErrInvalidPath
	}
	n, err := t.descend(prefix)
	if err != nil {
		return nil, err
	}
	return n.sortedKeys(), nil
}

// Sample returns one key chosen uniformly at random from the children of the
// node addressed by prefix. The level sampled is the one below the prefix:
// no keys samples a genre, three keys sample a song.
func (t *Tree) Sample(prefix ...string) (string, error) {
	keys, err := t.Keys(prefix...)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", &EmptyCollectionError{Path: append([]string(nil), prefix...)}
	}
	return keys[t.intN(len(keys))], nil
}

// RandomPath samples a genre, then an artist within it, an album, and a song.
// All four picks run against the same tree state.
func (t *Tree) RandomPath() (Path, error) {
	keys := make([]string, 0, Depth)
	for len(keys) < Depth {
		key, err := t.Sample(keys...)
		if err != nil {
			return Path{}, err
		}
		keys = append(keys, key)
	}
	return Path{Genre: keys[0], Artist: keys[1], Album: keys[2], Song: keys[3]}, nil
}

// Len returns the number of songs in the tree.
func (t *Tree) Len() int {
	count := 0
	_ = t.Walk(func(Path, Record) error {
		count++
		return nil
	})
	return count
}

// IsEmpty reports whether the tree has no genres.
func (t *Tree) IsEmpty() bool {
	return len(t.root.children) == 0
}

// Walk calls fn for every song in key order. Walking stops at the first
// error returned by fn, which is passed through.
func (t *Tree) Walk(fn func(Path, Record) error) error {
	return walk(t.root, make([]string, 0, Depth), fn)
}

func walk(n *node, keys []string, fn func(Path, Record) error) error {
	if len(keys) == Depth {
		return fn(Path{Genre: keys[0], Artist: keys[1], Album: keys[2], Song: keys[3]}, n.record.Clone())
	}
	for _, key := range n.sortedKeys() {
		if err := walk(n.children[key], append(keys, key), fn); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds every song of other into t. Songs present in both trees take
// the record from other.
func (t *Tree) Merge(other *Tree) {
	_ = other.Walk(func(p Path, rec Record) error {
		t.Add(p.Genre, p.Artist, p.Album, p.Song, rec)
		return nil
	})
}

// ensure walks keys from the root, creating nodes that do not exist yet,
// and returns the node at the end of the path.
func (t *Tree) ensure(keys []string) *node {
	n := t.root
	for _, key := range keys {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[key]
		if !ok {
			child = &node{}
			n.children[key] = child
		}
		n = child
	}
	return n
}

// descend walks keys from the root and fails on the first missing key.
func (t *Tree) descend(keys []string) (*node, error) {
	if len(keys) > Depth {
		return nil, ErrInvalidPath
	}
	n := t.root
	for i, key := range keys {
		child, ok := n.children[key]
		if !ok {
			parent := make([]string, i)
			copy(parent, keys[:i])
			return nil, &PathNotFoundError{Level: Level(i), Segment: key, Parent: parent}
		}
		n = child
	}
	return n, nil
}

func (t *Tree) intN(n int) int {
	if t.rng != nil {
		return t.rng.IntN(n)
	}
	return rand.IntN(n)
}
