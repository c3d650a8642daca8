package saavn_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Log: config.Log{Level: "error", Format: "json"},
		Saavn: config.Saavn{
			SearchURL: "http://127.0.0.1:1",
			MediaKey:  "38346591",
			SearchRPS: 100,
			Timeouts:  config.SaavnTimeouts{Search: 2, FetchAudio: 10, FetchCover: 2},
		},
		Downloads: config.Downloads{
			Dir:              t.TempDir(),
			Bitrate:          "320",
			Concurrency:      2,
			HonestExtensions: false,
		},
	}
}

func trackWithLadder(url string) types.Track {
	ladder := make([]types.DownloadLink, 0, len(types.Ladder))
	for _, b := range types.Ladder {
		ladder = append(ladder, types.DownloadLink{Quality: b.Label(), URL: url})
	}

	//nolint:exhaustruct
	return types.Track{
		ID:             "t1",
		Name:           "Tum Hi Ho",
		Album:          types.Album{ID: "a1", Name: "Aashiqui 2", URL: ""},
		Year:           "2013",
		Duration:       262,
		Label:          "T-Series",
		PrimaryArtists: "Arijit Singh",
		DownloadURL:    ladder,
	}
}

func TestTryDownloadTrackProducesArtifact(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x11, 0x22, 0x33, 0x44}, 512)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mp4")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	conf := testConfig(t)
	c := saavn.NewClient(conf)

	err := c.TryDownloadTrack(t.Context(), zerolog.Nop(), trackWithLadder(srv.URL), types.Bitrate320)
	require.NoError(t, err)

	items := c.Downloads()
	require.Len(t, items, 1)

	item := items[0]
	assert.Exactly(t, types.StatusDone, item.Status)
	assert.Contains(t, item.Size, "320KBPS")
	require.NotEmpty(t, item.ArtifactPath)
	assert.Empty(t, item.DirectURL)

	out, err := os.ReadFile(item.ArtifactPath)
	require.NoError(t, err)
	assert.Greater(t, len(out), len(payload))
	assert.Exactly(t, payload, out[len(out)-len(payload):])
}

func TestTryDownloadTrackSingleFlight(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write(bytes.Repeat([]byte{0x55}, 64))
	}))
	t.Cleanup(srv.Close)

	conf := testConfig(t)
	c := saavn.NewClient(conf)
	track := trackWithLadder(srv.URL)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.TryDownloadTrack(t.Context(), zerolog.Nop(), track, types.Bitrate320)
	}()

	// Let the first request claim the in-flight slot before racing it.
	time.Sleep(100 * time.Millisecond)

	err := c.TryDownloadTrack(t.Context(), zerolog.Nop(), track, types.Bitrate320)
	require.ErrorIs(t, err, saavn.ErrDownloadInProgress)

	require.NoError(t, <-firstDone)
	assert.Exactly(t, int32(1), hits.Load())

	items := c.Downloads()
	require.Len(t, items, 1)
	assert.Exactly(t, types.StatusDone, items[0].Status)
}

func TestTryDownloadTrackDirectFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	conf := testConfig(t)
	c := saavn.NewClient(conf)

	err := c.TryDownloadTrack(t.Context(), zerolog.Nop(), trackWithLadder(srv.URL), types.Bitrate320)
	require.NoError(t, err)

	items := c.Downloads()
	require.Len(t, items, 1)

	item := items[0]
	assert.Exactly(t, types.StatusDoneDirect, item.Status)
	assert.Exactly(t, "Done (Direct)", item.Status.String())
	assert.Exactly(t, "Direct", item.Size)
	assert.Exactly(t, srv.URL, item.DirectURL)
	assert.Empty(t, item.ArtifactPath)
}

func TestTryDownloadTrackNoPlayableSource(t *testing.T) {
	t.Parallel()

	conf := testConfig(t)
	c := saavn.NewClient(conf)

	track := trackWithLadder("")
	track.DownloadURL = nil

	err := c.TryDownloadTrack(t.Context(), zerolog.Nop(), track, types.Bitrate320)
	require.ErrorIs(t, err, saavn.ErrNoPlayableSource)
	assert.Empty(t, c.Downloads())
}

func TestResolveStreamURL(t *testing.T) {
	t.Parallel()

	conf := testConfig(t)
	c := saavn.NewClient(conf)

	track := trackWithLadder("https://aac.saavncdn.com/x_320.mp4")

	streamURL, err := c.ResolveStreamURL(track, types.Bitrate320)
	require.NoError(t, err)
	assert.Exactly(t, "https://aac.saavncdn.com/x_320.mp4", streamURL)

	track.DownloadURL = nil
	_, err = c.ResolveStreamURL(track, types.Bitrate320)
	assert.ErrorIs(t, err, saavn.ErrNoPlayableSource)
}
