package video

import (
	"encoding/json"
	"time"
)

// NativeMediaMarker is the legacy embed ID carried by records that play from a
// direct media URL instead of a hosted player.
const NativeMediaMarker = "blob_video"

// SourceKind tells which playback backend a record needs.
type SourceKind int

const (
	// NativeMedia plays a direct media URL.
	NativeMedia SourceKind = iota + 1
	// EmbeddedPlayer plays through a third-party player referenced by ID.
	EmbeddedPlayer
)

func (k SourceKind) String() string {
	switch k {
	case NativeMedia:
		return "native"
	case EmbeddedPlayer:
		return "embed"
	default:
		return "unknown"
	}
}

// Source is the playable reference of a record. Exactly one of URL or
// EmbedID is meaningful, selected by Kind.
type Source struct {
	Kind    SourceKind
	URL     string
	EmbedID string
}

// NativeSource returns a Source backed by a direct media URL.
func NativeSource(url string) Source {
	return Source{Kind: NativeMedia, URL: url}
}

// EmbedSource returns a Source backed by an embeddable player ID.
func EmbedSource(id string) Source {
	return Source{Kind: EmbeddedPlayer, EmbedID: id}
}

// Record is a single performance video in the feed. It is immutable once
// received; the source kind is classified when the record is decoded.
type Record struct {
	ID                  string
	SongTitle           string
	OriginalFilename    string
	TimestampedFilename string
	UploadedAt          time.Time
	ArtistName          string
	Source              Source
}

// DisplayFilename is the label shown under the video.
func (r Record) DisplayFilename() string {
	switch {
	case r.OriginalFilename != "":
		return r.OriginalFilename
	case r.TimestampedFilename != "":
		return r.TimestampedFilename
	default:
		return "Untitled"
	}
}

// DisplayArtist is the artist line shown under the title.
func (r Record) DisplayArtist() string {
	if r.ArtistName == "" {
		return "A New Musician"
	}
	return r.ArtistName
}

// wireRecord is the JSON shape served by the video API.
type wireRecord struct {
	ID                  string `json:"id,omitempty"`
	VimeoID             string `json:"vimeo_id"`
	OriginalFilename    string `json:"original_filename"`
	TimestampedFilename string `json:"timestamped_filename"`
	UploadTimestamp     string `json:"upload_timestamp"`
	ArtistName          string `json:"artist_name"`
	SongTitle           string `json:"song_title"`
	BlobURL             string `json:"blob_url,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		ID:                  r.ID,
		OriginalFilename:    r.OriginalFilename,
		TimestampedFilename: r.TimestampedFilename,
		ArtistName:          r.ArtistName,
		SongTitle:           r.SongTitle,
	}
	if !r.UploadedAt.IsZero() {
		w.UploadTimestamp = r.UploadedAt.UTC().Format(time.RFC3339)
	}
	switch r.Source.Kind {
	case NativeMedia:
		w.VimeoID = NativeMediaMarker
		w.BlobURL = r.Source.URL
	case EmbeddedPlayer:
		w.VimeoID = r.Source.EmbedID
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The source kind is decided here
// and never re-evaluated.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		ID:                  w.ID,
		SongTitle:           w.SongTitle,
		OriginalFilename:    w.OriginalFilename,
		TimestampedFilename: w.TimestampedFilename,
		ArtistName:          w.ArtistName,
		Source:              Classify(w.VimeoID, w.BlobURL),
	}
	if r.ID == "" {
		r.ID = w.VimeoID + ":" + w.TimestampedFilename
	}
	if w.UploadTimestamp != "" {
		if ts, err := time.Parse(time.RFC3339, w.UploadTimestamp); err == nil {
			r.UploadedAt = ts
		}
	}
	return nil
}

// Classify picks the playback backend for a record: a blob URL or the native
// marker ID means native media, anything else is an embed ID.
func Classify(vimeoID, blobURL string) Source {
	if blobURL != "" || vimeoID == NativeMediaMarker {
		return NativeSource(blobURL)
	}
	return EmbedSource(vimeoID)
}
