package catalog

import (
	"encoding/json"
	"math"
	"strconv"
)

// Well-known song attribute names. These are the field names used in the
// persisted document.
const (
	AttrSongName    = "song_name"
	AttrArtist      = "artist"
	AttrAlbum       = "album"
	AttrArtistID    = "artist_id"
	AttrSpotifyURL  = "spotify_url"
	AttrDurationMS  = "duration_ms"
	AttrTrackNumber = "track_number"

	// AttrFilePath is set on songs imported from a local music library.
	AttrFilePath = "file_path"
)

// Record is the flat attribute map stored at a song node.
//
// Values are expected to be scalars (string, bool, number or nil). Numbers are
// normalized when a record enters the tree: integral values become int64 and
// everything else float64, so a record looks the same before a save and after
// the next load. Attributes outside the well-known set are kept as-is.
type Record map[string]any

// NewRecord returns a normalized copy of attrs.
func NewRecord(attrs map[string]any) Record {
	rec := make(Record, len(attrs))
	for k, v := range attrs {
		rec[k] = normalizeValue(v)
	}
	return rec
}

// Clone returns a normalized deep copy of the record. A nil record clones to
// an empty one.
func (r Record) Clone() Record {
	return NewRecord(r)
}

// String returns the attribute as a string, or "" when it is missing.
// Numbers are formatted in base 10.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Int returns the attribute as an integer. The second result is false when
// the attribute is missing or not numeric.
func (r Record) Int(key string) (int64, bool) {
	switch v := normalizeValue(r[key]).(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// normalizeValue maps Go and JSON-decoded values onto the small set of types
// a Record holds.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool, int64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeUint(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normalizeUint(v)
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case json.Number:
		return normalizeNumber(v)
	case Record:
		return map[string]any(NewRecord(v))
	case map[string]any:
		return map[string]any(NewRecord(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeUint(v uint64) any {
	if v <= math.MaxInt64 {
		return int64(v)
	}
	return json.Number(strconv.FormatUint(v, 10))
}

// normalizeNumber converts a decoded number to int64 or float64 only when
// that type prints the same text back. Anything else (integers beyond
// int64, decimals beyond float64 precision, exponents out of range, "2.0")
// stays a json.Number, which the encoder writes verbatim.
func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil && strconv.FormatFloat(f, 'g', -1, 64) == n.String() {
		return f
	}
	return n
}

// normalizeFloat stores integral floats as int64 since that is how they
// decode after a round trip through JSON.
func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}
