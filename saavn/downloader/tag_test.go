package downloader_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelAdmand/JioSaavn-DL/cache"
	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/downloader"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/fs"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

func newDownloader(t *testing.T, honestExt bool) *downloader.Downloader {
	t.Helper()

	conf := config.Saavn{
		SearchURL: "http://127.0.0.1:1",
		MediaKey:  "38346591",
		SearchRPS: 100,
		Timeouts:  config.SaavnTimeouts{Search: 5, FetchAudio: 5, FetchCover: 5},
	}
	dlConf := config.Downloads{
		Dir:              t.TempDir(),
		Bitrate:          "320",
		Concurrency:      1,
		HonestExtensions: honestExt,
	}

	return downloader.New(fs.DownloadsDirFrom(dlConf.Dir), conf, dlConf, cache.New())
}

func sampleTrack() types.Track {
	//nolint:exhaustruct
	return types.Track{
		ID:             "t1",
		Name:           "Tum Hi Ho",
		Album:          types.Album{ID: "a1", Name: "Aashiqui 2", URL: ""},
		Year:           "2013",
		Duration:       262,
		Label:          "T-Series",
		PrimaryArtists: "Arijit Singh, Mithoon",
	}
}

var (
	aacPayload = bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 256)
	jpegCover  = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0xAB}, 64)...)
)

func TestEmbedPrependsTagBlock(t *testing.T) {
	t.Parallel()

	d := newDownloader(t, false)

	out, filename, outType := d.Embed(zerolog.Nop(), aacPayload, "audio/mp4", jpegCover, sampleTrack())
	assert.Exactly(t, "Tum_Hi_Ho - Arijit_Singh.mp3", filename)
	assert.Exactly(t, "audio/mpeg", outType)

	require.GreaterOrEqual(t, len(out), len(aacPayload)+len(jpegCover))
	assert.Exactly(t, []byte("ID3"), out[:3])
	assert.Exactly(t, aacPayload, out[len(out)-len(aacPayload):])
}

func TestEmbedWithoutCover(t *testing.T) {
	t.Parallel()

	d := newDownloader(t, false)

	out, filename, _ := d.Embed(zerolog.Nop(), aacPayload, "audio/mp4", nil, sampleTrack())
	assert.Exactly(t, "Tum_Hi_Ho - Arijit_Singh.mp3", filename)
	assert.Greater(t, len(out), len(aacPayload))
	assert.Exactly(t, []byte("ID3"), out[:3])
}

func TestEmbedFilenameSanitization(t *testing.T) {
	t.Parallel()

	d := newDownloader(t, false)

	track := sampleTrack()
	track.Name = "Song! Name #1"
	track.PrimaryArtists = "A.R. Rahman, Hariharan"

	_, filename, _ := d.Embed(zerolog.Nop(), aacPayload, "audio/mp4", nil, track)
	assert.Exactly(t, "Song_Name_1 - A_R_Rahman.mp3", filename)
}

func TestEmbedMissingArtist(t *testing.T) {
	t.Parallel()

	d := newDownloader(t, false)

	track := sampleTrack()
	track.PrimaryArtists = ""

	_, filename, _ := d.Embed(zerolog.Nop(), aacPayload, "audio/mp4", nil, track)
	assert.Exactly(t, "Tum_Hi_Ho - Unknown.mp3", filename)
}

func TestEmbedHonestExtensions(t *testing.T) {
	t.Parallel()

	d := newDownloader(t, true)

	tests := []struct {
		name         string
		declaredType string
		expectedExt  string
		expectedType string
	}{
		{name: "mp4 payload keeps m4a", declaredType: "audio/mp4", expectedExt: ".m4a", expectedType: "audio/mp4"},
		{name: "declared mpeg keeps mp3", declaredType: "audio/mpeg", expectedExt: ".mp3", expectedType: "audio/mpeg"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, filename, outType := d.Embed(zerolog.Nop(), aacPayload, test.declaredType, nil, sampleTrack())
			assert.True(t, len(filename) > len(test.expectedExt))
			assert.Exactly(t, test.expectedExt, filename[len(filename)-len(test.expectedExt):])
			assert.Exactly(t, test.expectedType, outType)
		})
	}
}
