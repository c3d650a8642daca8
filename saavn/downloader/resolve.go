package downloader

import (
	"errors"

	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

// ErrNoPlayableSource means no fallback tier yielded a usable link.
// Playback and download must not be attempted for the track.
var ErrNoPlayableSource = errors.New("no playable source for track")

// Resolve picks the download link for the requested bitrate. The ladder is
// only guaranteed to follow the fixed bitrate ordering when it was derived
// by decryption, so API-supplied ladders are probed by slot and degraded
// through explicit fallbacks: requested tier, 320, 160, then the last entry.
func Resolve(track types.Track, bitrate types.Bitrate) (types.DownloadLink, error) {
	ladder := track.DownloadURL
	if len(ladder) == 0 {
		return types.DownloadLink{}, ErrNoPlayableSource //nolint:exhaustruct
	}

	slots := []int{int(bitrate), int(types.Bitrate320), int(types.Bitrate160), len(ladder) - 1}
	for _, i := range slots {
		if i >= 0 && i < len(ladder) && len(ladder[i].URL) > 0 {
			return ladder[i], nil
		}
	}

	return types.DownloadLink{}, ErrNoPlayableSource //nolint:exhaustruct
}
