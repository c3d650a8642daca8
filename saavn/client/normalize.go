package client

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/SamuelAdmand/JioSaavn-DL/iterutil"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/crypto"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

// normalizeTrack flattens the field-name variance across catalog response
// shapes into the canonical Track. Returns false when the record carries no
// usable id.
func (c *Client) normalizeTrack(logger zerolog.Logger, r gjson.Result) (types.Track, bool) {
	id := r.Get("id").String()
	if len(id) == 0 {
		return types.Track{}, false //nolint:exhaustruct
	}

	track := types.Track{
		ID:                id,
		Name:              firstString(r, "name", "title", "song"),
		Album:             normalizeAlbum(r),
		Year:              firstString(r, "year"),
		ReleaseDate:       firstString(r, "releaseDate", "release_date"),
		Duration:          int(r.Get("duration").Int()),
		Label:             firstString(r, "label", "more_info.label"),
		PrimaryArtists:    normalizeArtists(r, "primaryArtists", "primary_artists", "artists.primary"),
		FeaturedArtists:   normalizeArtists(r, "featuredArtists", "featured_artists", "artists.featured"),
		Image:             normalizeLinks(r.Get("image")),
		DownloadURL:       nil,
		EncryptedMediaURL: firstString(r, "encryptedMediaUrl", "more_info.encrypted_media_url"),
	}

	if len(track.EncryptedMediaURL) > 0 {
		clearURL, err := crypto.DecryptMediaURL(c.conf.MediaKey, track.EncryptedMediaURL)
		if nil != err {
			// Malformed ciphertext degrades to the API-supplied links.
			logger.Warn().Err(err).Str("track_id", id).Msg("Failed to decrypt media URL")
		} else {
			track.DownloadURL = DeriveLadder(clearURL)
		}
	}

	if len(track.DownloadURL) == 0 {
		track.DownloadURL = downloadLinksOf(normalizeLinks(firstResult(r, "downloadUrl", "download_url", "more_info.media_urls")))
	}

	return track, true
}

// DeriveLadder expands a decrypted base URL into the fixed 5-tier bitrate
// ladder by substituting its quality suffix. Link order follows the ladder.
func DeriveLadder(clearURL string) []types.DownloadLink {
	return iterutil.Map(types.Ladder[:], func(_ int, b types.Bitrate) types.DownloadLink {
		return types.DownloadLink{
			Quality: b.Label(),
			URL:     strings.Replace(clearURL, types.Bitrate96.Suffix(), b.Suffix(), 1),
		}
	})
}

func normalizeAlbum(r gjson.Result) types.Album {
	album := firstResult(r, "album", "more_info.album")

	switch {
	case album.IsObject():
		return types.Album{
			ID:   album.Get("id").String(),
			Name: firstString(album, "name", "title"),
			URL:  album.Get("url").String(),
		}
	case album.Type == gjson.String:
		return types.Album{ID: "", Name: album.Str, URL: ""}
	default:
		return types.Album{ID: "", Name: "", URL: ""}
	}
}

// normalizeArtists accepts either a pre-joined display string or a nested
// list of artist objects, and always yields the comma-joined display form.
func normalizeArtists(r gjson.Result, stringKeys ...string) string {
	listKey := stringKeys[len(stringKeys)-1]

	for _, key := range stringKeys[:len(stringKeys)-1] {
		if v := r.Get(key); v.Type == gjson.String && len(v.Str) > 0 {
			return v.Str
		}
	}

	list := r.Get(listKey)
	if !list.IsArray() {
		return ""
	}

	var names []string
	for _, a := range list.Array() {
		if name := a.Get("name").String(); len(name) > 0 {
			names = append(names, name)
		}
	}

	return strings.Join(names, ", ")
}

// normalizeLinks flattens a link sequence whose entries use either "link"
// or "url" keys. A bare string is treated as a single unlabeled link.
func normalizeLinks(v gjson.Result) []types.ImageLink {
	switch {
	case v.IsArray():
		var links []types.ImageLink
		for _, e := range v.Array() {
			links = append(links, types.ImageLink{
				Quality: e.Get("quality").String(),
				URL:     firstString(e, "link", "url"),
			})
		}

		return links
	case v.Type == gjson.String && len(v.Str) > 0:
		return []types.ImageLink{{Quality: "", URL: v.Str}}
	default:
		return nil
	}
}

func downloadLinksOf(links []types.ImageLink) []types.DownloadLink {
	return iterutil.Map(links, func(_ int, l types.ImageLink) types.DownloadLink {
		return types.DownloadLink{Quality: l.Quality, URL: l.URL}
	})
}

func firstString(r gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := r.Get(key); v.Type == gjson.String && len(v.Str) > 0 {
			return v.Str
		}
	}

	return ""
}

func firstResult(r gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() {
			return v
		}
	}

	return gjson.Result{} //nolint:exhaustruct
}
