package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelAdmand/JioSaavn-DL/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))

	return filename
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	filename := writeConfigFile(t, "downloads:\n  dir: "+dir+"\n")

	conf, err := config.Load(filename)
	require.NoError(t, err)

	assert.Exactly(t, "info", conf.Log.Level)
	assert.Exactly(t, "pretty", conf.Log.Format)
	assert.Exactly(t, "https://jiosaavn-api-privatecvc2.vercel.app/search/songs", conf.Saavn.SearchURL)
	assert.Exactly(t, config.DefaultMediaKey, conf.Saavn.MediaKey)
	assert.InEpsilon(t, 2.0, conf.Saavn.SearchRPS, 0.001)
	assert.Exactly(t, 10, conf.Saavn.Timeouts.Search)
	assert.Exactly(t, 120, conf.Saavn.Timeouts.FetchAudio)
	assert.Exactly(t, 10, conf.Saavn.Timeouts.FetchCover)
	assert.Exactly(t, dir, conf.Downloads.Dir)
	assert.Exactly(t, "320", conf.Downloads.Bitrate)
	assert.Exactly(t, 4, conf.Downloads.Concurrency)
	assert.False(t, conf.Downloads.HonestExtensions)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	filename := writeConfigFile(t, `
log:
  level: debug
  format: json
saavn:
  search_rps: 5
  timeouts:
    search: 3
downloads:
  dir: `+dir+`
  bitrate: "160"
  concurrency: 2
  honest_extensions: true
`)

	conf, err := config.Load(filename)
	require.NoError(t, err)

	assert.Exactly(t, "debug", conf.Log.Level)
	assert.Exactly(t, "json", conf.Log.Format)
	assert.InEpsilon(t, 5.0, conf.Saavn.SearchRPS, 0.001)
	assert.Exactly(t, 3, conf.Saavn.Timeouts.Search)
	assert.Exactly(t, 120, conf.Saavn.Timeouts.FetchAudio)
	assert.Exactly(t, "160", conf.Downloads.Bitrate)
	assert.Exactly(t, 2, conf.Downloads.Concurrency)
	assert.True(t, conf.Downloads.HonestExtensions)
}

func TestLoadMediaKeyFromEnv(t *testing.T) {
	t.Setenv("MEDIA_KEY", "abcdefgh")

	filename := writeConfigFile(t, "downloads:\n  dir: "+t.TempDir()+"\n")

	conf, err := config.Load(filename)
	require.NoError(t, err)
	assert.Exactly(t, "abcdefgh", conf.Saavn.MediaKey)
}

func TestLoadRejectsBadMediaKeyLength(t *testing.T) {
	t.Setenv("MEDIA_KEY", "too-short-or-way-too-long")

	filename := writeConfigFile(t, "downloads:\n  dir: "+t.TempDir()+"\n")

	_, err := config.Load(filename)
	assert.ErrorContains(t, err, "media key")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "invalid log level",
			content: "log:\n  level: verbose\n",
			errPart: "level must be one of",
		},
		{
			name:    "invalid log format",
			content: "log:\n  format: xml\n",
			errPart: "format must be",
		},
		{
			name:    "invalid bitrate",
			content: "  bitrate: \"128\"\n",
			errPart: "bitrate must be one of",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			filename := writeConfigFile(t, "downloads:\n  dir: "+t.TempDir()+"\n"+test.content)

			_, err := config.Load(filename)
			assert.ErrorContains(t, err, test.errPart)
		})
	}
}

func TestLoadCreatesMissingDownloadsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	filename := writeConfigFile(t, "downloads:\n  dir: "+dir+"\n")

	conf, err := config.Load(filename)
	require.NoError(t, err)
	assert.Exactly(t, dir, conf.Downloads.Dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
