package audio

import (
	"context"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/rs/zerolog"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/provider"
)

// Fallback names for songs whose tags lack a value.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Frames read from each file.
const (
	frameTrackNumber = "TRCK"
	frameLength      = "TLEN"
)

// Scanner reads ID3 tags from a local music library.
//
// Scanner uses the id3v2 library to read:
//   - Title (TIT2), Artist (TPE1), Album (TALB), Genre (TCON)
//   - Track Number (TRCK)
//   - Length in milliseconds (TLEN)
//
// Example:
//
//	scanner := NewScanner(logger)
//	entries, err := scanner.Scan(ctx, "/music")
//	if err != nil {
//	    return err
//	}
//	audio.AddAll(tree, entries)
type Scanner struct {
	logger zerolog.Logger
}

// NewScanner creates a new Scanner. Files that cannot be read are logged
// to logger and skipped.
func NewScanner(logger zerolog.Logger) *Scanner {
	return &Scanner{logger: logging.Component(logger, "scanner")}
}

// Scan walks root and returns an entry for every .mp3 file, in lexical
// path order.
//
// Each entry's record carries song_name, artist, album, track_number,
// duration_ms (when the length is tagged) and file_path. Missing tags fall
// back to "Unknown" for the genre, the file name for the title and
// UnknownArtist / UnknownAlbum.
//
// Scan stops with ctx.Err() when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		entry, err := ReadEntry(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("skipping unreadable file")
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("root", root).Int("songs", len(entries)).Msg("library scanned")
	return entries, nil
}

// ReadEntry reads the tags of a single MP3 file.
func ReadEntry(path string) (Entry, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Entry{}, err
	}
	defer tag.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	title := clean(tag.Title())
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	p := catalog.Path{
		Genre:  orDefault(cleanGenre(tag.Genre()), provider.UnknownGenre),
		Artist: orDefault(clean(tag.Artist()), UnknownArtist),
		Album:  orDefault(clean(tag.Album()), UnknownAlbum),
		Song:   title,
	}

	attrs := map[string]any{
		catalog.AttrSongName: p.Song,
		catalog.AttrArtist:   p.Artist,
		catalog.AttrAlbum:    p.Album,
		catalog.AttrFilePath: abs,
	}
	if n, ok := parseTrackNumber(tag.GetTextFrame(frameTrackNumber).Text); ok {
		attrs[catalog.AttrTrackNumber] = n
	}
	if ms, ok := parsePositive(tag.GetTextFrame(frameLength).Text); ok {
		attrs[catalog.AttrDurationMS] = ms
	}

	return Entry{Path: p, Record: catalog.NewRecord(attrs)}, nil
}

// clean trims whitespace and the NUL padding some taggers leave behind.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// cleanGenre strips an ID3v1 style "(17)" genre reference when a name
// follows it, as in "(17)Rock".
func cleanGenre(s string) string {
	s = clean(s)
	if strings.HasPrefix(s, "(") {
		if end := strings.Index(s, ")"); end > 0 {
			if _, err := strconv.Atoi(s[1:end]); err == nil {
				if rest := strings.TrimSpace(s[end+1:]); rest != "" {
					return rest
				}
			}
		}
	}
	return s
}

// parseTrackNumber accepts "3" and "3/12".
func parseTrackNumber(s string) (int64, bool) {
	s = clean(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return parsePositive(s)
}

func parsePositive(s string) (int64, bool) {
	n, err := strconv.ParseInt(clean(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
