package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SamuelAdmand/JioSaavn-DL/saavn/types"
)

func TestFirstPrimaryArtist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		artists  string
		expected string
	}{
		{name: "multiple artists", artists: "Arijit Singh, Mithoon", expected: "Arijit Singh"},
		{name: "single artist", artists: "Arijit Singh", expected: "Arijit Singh"},
		{name: "empty", artists: "", expected: "Unknown"},
		{name: "only separators", artists: " , ", expected: "Unknown"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			track := types.Track{PrimaryArtists: test.artists} //nolint:exhaustruct
			assert.Exactly(t, test.expected, track.FirstPrimaryArtist())
		})
	}
}

func TestCoverAndThumbnailURL(t *testing.T) {
	t.Parallel()

	links := []types.ImageLink{
		{Quality: "50x50", URL: "https://c.saavncdn.com/x-50x50.jpg"},
		{Quality: "150x150", URL: "https://c.saavncdn.com/x-150x150.jpg"},
		{Quality: "500x500", URL: "https://c.saavncdn.com/x-500x500.jpg"},
	}

	var track types.Track //nolint:exhaustruct
	assert.Empty(t, track.CoverURL())
	assert.Empty(t, track.ThumbnailURL())

	track.Image = links[:1]
	assert.Exactly(t, links[0].URL, track.CoverURL())
	assert.Exactly(t, links[0].URL, track.ThumbnailURL())

	track.Image = links[:2]
	assert.Exactly(t, links[1].URL, track.CoverURL())
	assert.Exactly(t, links[1].URL, track.ThumbnailURL())

	track.Image = links
	assert.Exactly(t, links[2].URL, track.CoverURL())
	assert.Exactly(t, links[2].URL, track.ThumbnailURL())
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{name: "zero", seconds: 0, expected: "00:00"},
		{name: "under a minute", seconds: 59, expected: "00:59"},
		{name: "typical track", seconds: 262, expected: "04:22"},
		{name: "over an hour", seconds: 3725, expected: "62:05"},
		{name: "negative clamps to zero", seconds: -7, expected: "00:00"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Exactly(t, test.expected, types.FormatDuration(test.seconds))
		})
	}
}
