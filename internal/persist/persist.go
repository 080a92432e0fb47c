package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/handiism/yggdrasil/internal/catalog"
	ioutils "github.com/handiism/yggdrasil/internal/io"
)

// DefaultPath is the catalog file used when no other location is configured.
const DefaultPath = "yggdrasil.json"

// Save writes tree to dest as an indented JSON document, atomically
// replacing any previous content.
func Save(ctx context.Context, tree *catalog.Tree, dest string) error {
	data, err := Encode(tree)
	if err != nil {
		return &WriteError{Op: "encode", Path: dest, Err: err}
	}
	if err := ioutils.WriteFileAtomic(ctx, dest, data, 0o644); err != nil {
		return &WriteError{Op: "write", Path: dest, Err: err}
	}
	return nil
}

// Load reads the catalog stored at src.
//
// A missing file is the normal cold-start case and yields an empty tree.
// A file that cannot be decoded yields a *FormatError and no tree.
func Load(src string) (*catalog.Tree, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.New(), nil
		}
		return nil, &ReadError{Path: src, Err: err}
	}

	tree, err := Decode(data)
	if err != nil {
		return nil, &FormatError{Path: src, Err: err}
	}
	return tree, nil
}

// Encode renders tree as the persisted JSON document. Keys are emitted in
// sorted order so unchanged catalogs produce identical files.
func Encode(tree *catalog.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tree.Document()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a persisted JSON document. The whole input must be exactly
// one JSON object of the nested catalog shape.
func Decode(data []byte) (*catalog.Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc catalog.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document is empty")
		}
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is null, expected an object of genres")
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after document at offset %d", dec.InputOffset())
	}

	return catalog.FromDocument(doc), nil
}
