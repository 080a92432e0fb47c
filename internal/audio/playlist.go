package audio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// PlaylistFormat selects the file format written by a PlaylistCreator.
type PlaylistFormat int

const (
	// FormatM3U is a list of locations, optionally with #EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS is the INI-style Winamp/SHOUTcast format.
	FormatPLS

	// FormatWPL is the SMIL-based Windows Media Player format.
	FormatWPL
)

// ParsePlaylistFormat maps a settings value ("m3u", "pls", "wpl") to a
// PlaylistFormat. Matching is case-insensitive and "" means M3U.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator renders catalog entries as a playlist.
//
// Local songs are referenced by file path and songs added from Spotify by
// their URL. Entries with neither are left out, so the playlist can be
// shorter than the entry list.
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	data, err := creator.Create(entries)
//
//	// #EXTM3U
//	// #EXTINF:354,Queen - Bohemian Rhapsody
//	// https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb
type PlaylistCreator struct {
	format PlaylistFormat

	// extended adds #EXTINF lines to M3U output. Other formats ignore it.
	extended bool
}

// NewPlaylistCreator returns a creator for format.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{format: format, extended: extended}
}

// Create renders the playable entries, in order.
func (p *PlaylistCreator) Create(entries []Entry) ([]byte, error) {
	playable := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Location() != "" {
			playable = append(playable, e)
		}
	}

	var buf bytes.Buffer
	switch p.format {
	case FormatPLS:
		writePLS(&buf, playable)
	case FormatWPL:
		if err := writeWPL(&buf, playable); err != nil {
			return nil, fmt.Errorf("render wpl: %w", err)
		}
	default:
		writeM3U(&buf, playable, p.extended)
	}
	return buf.Bytes(), nil
}

// lineBreaks turns CR and LF into spaces so a value stays on its line in the
// line-based formats.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func writeM3U(buf *bytes.Buffer, entries []Entry, extended bool) {
	if extended {
		buf.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if extended {
			fmt.Fprintf(buf, "#EXTINF:%d,%s\n", e.Seconds(), lineBreaks.Replace(e.Title()))
		}
		buf.WriteString(lineBreaks.Replace(e.Location()))
		buf.WriteByte('\n')
	}
}

// writePLS numbers entries from 1 and ends with the entry count and
// version keys.
func writePLS(buf *bytes.Buffer, entries []Entry) {
	buf.WriteString("[playlist]\n")
	for i, e := range entries {
		n := i + 1
		fmt.Fprintf(buf, "File%d=%s\nTitle%d=%s\nLength%d=%d\n",
			n, lineBreaks.Replace(e.Location()), n, lineBreaks.Replace(e.Title()), n, e.Seconds())
	}
	fmt.Fprintf(buf, "NumberOfEntries=%d\nVersion=2\n", len(entries))
}

type wplDocument struct {
	XMLName xml.Name  `xml:"smil"`
	Meta    []wplMeta `xml:"head>meta"`
	Media   []wplItem `xml:"body>seq>media"`
}

type wplMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type wplItem struct {
	Src string `xml:"src,attr"`
}

func writeWPL(buf *bytes.Buffer, entries []Entry) error {
	doc := wplDocument{
		Meta: []wplMeta{
			{Name: "Generator", Content: "yggdrasil"},
			{Name: "ItemCount", Content: fmt.Sprint(len(entries))},
		},
	}
	for _, e := range entries {
		doc.Media = append(doc.Media, wplItem{Src: e.Location()})
	}

	buf.WriteString("<?wpl version=\"1.0\"?>\n")
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return nil
}
