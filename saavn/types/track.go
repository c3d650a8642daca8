package types

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Album is the canonical album shape. API views return either a structured
// object or a bare name string; the client flattens both into this.
type Album struct {
	ID   string
	Name string
	URL  string
}

type ImageLink struct {
	Quality string
	URL     string
}

type DownloadLink struct {
	Quality string
	URL     string
}

// Track is immutable once constructed by the catalog client.
type Track struct {
	ID              string
	Name            string
	Album           Album
	Year            string
	ReleaseDate     string
	Duration        int // seconds, 0 when the source field was absent or unparsable
	Label           string
	PrimaryArtists  string
	FeaturedArtists string
	Image           []ImageLink // ascending resolution, last entry is highest
	DownloadURL     []DownloadLink
	EncryptedMediaURL string
}

func (t Track) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("id", t.ID).
		Str("name", t.Name).
		Str("album", t.Album.Name).
		Str("year", t.Year).
		Int("duration", t.Duration).
		Str("primary_artists", t.PrimaryArtists).
		Int("download_links", len(t.DownloadURL))
}

// FirstPrimaryArtist returns the first comma-separated primary artist,
// or "Unknown" when there is none.
func (t Track) FirstPrimaryArtist() string {
	first, _, _ := strings.Cut(t.PrimaryArtists, ",")
	first = strings.TrimSpace(first)

	return lo.Ternary(len(first) > 0, first, "Unknown")
}

// CoverURL returns the highest-resolution cover link, if any.
func (t Track) CoverURL() string {
	if len(t.Image) == 0 {
		return ""
	}

	return t.Image[len(t.Image)-1].URL
}

// ThumbnailURL returns a mid-resolution image link for list views.
func (t Track) ThumbnailURL() string {
	switch len(t.Image) {
	case 0:
		return ""
	case 1:
		return t.Image[0].URL
	case 2:
		return t.Image[1].URL
	default:
		return t.Image[2].URL
	}
}

// FormatDuration renders a duration in seconds as mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
