package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/SamuelAdmand/JioSaavn-DL/redact"
	"github.com/SamuelAdmand/JioSaavn-DL/saavn/crypto"
)

// DefaultMediaKey is the well-known symmetric key the catalog uses for
// encrypted media references. Override with the MEDIA_KEY environment
// variable.
const DefaultMediaKey = "38346591"

type Config struct {
	Log       Log       `yaml:"log"`
	Saavn     Saavn     `yaml:"saavn"`
	Downloads Downloads `yaml:"downloads"`
}

func (c *Config) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Dict("log", c.Log.ToDict()).
		Dict("saavn", c.Saavn.ToDict()).
		Dict("downloads", c.Downloads.ToDict())
}

func (c *Config) setDefaults() {
	c.Log.setDefaults()
	c.Saavn.setDefaults()
	c.Downloads.setDefaults()
}

func (c *Config) validate() error {
	if err := c.Log.validate(); nil != err {
		return fmt.Errorf("log config validation failed: %v", err)
	}

	if err := c.Saavn.validate(); nil != err {
		return fmt.Errorf("saavn config validation failed: %v", err)
	}

	if err := c.Downloads.validate(); nil != err {
		return fmt.Errorf("downloads config validation failed: %v", err)
	}

	return nil
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Log) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("level", c.Level).
		Str("format", c.Format)
}

func (c *Log) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "pretty"
	}
}

func (c *Log) validate() error {
	if !slices.Contains([]string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}, c.Level) {
		return fmt.Errorf(
			"level must be one of: trace, debug, info, warn, error, fatal, panic, got: %s",
			c.Level,
		)
	}

	if !slices.Contains([]string{"json", "pretty"}, c.Format) {
		return fmt.Errorf("format must be 'json' or 'pretty', got: %s", c.Format)
	}

	return nil
}

type Saavn struct {
	SearchURL string        `yaml:"search_url"`
	MediaKey  string        `yaml:"-"`
	SearchRPS float64       `yaml:"search_rps"`
	Timeouts  SaavnTimeouts `yaml:"timeouts"`
}

func (c *Saavn) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("search_url", c.SearchURL).
		Str("media_key", redact.String(c.MediaKey)).
		Float64("search_rps", c.SearchRPS).
		Dict("timeouts", c.Timeouts.ToDict())
}

func (c *Saavn) setDefaults() {
	if c.SearchURL == "" {
		c.SearchURL = "https://jiosaavn-api-privatecvc2.vercel.app/search/songs"
	}

	if c.MediaKey == "" {
		c.MediaKey = DefaultMediaKey
	}

	if c.SearchRPS == 0 {
		c.SearchRPS = 2
	}

	c.Timeouts.setDefaults()
}

func (c *Saavn) validate() error {
	if c.SearchURL == "" {
		return errors.New("search_url is required")
	}

	if len(c.MediaKey) != crypto.KeySize {
		return fmt.Errorf("media key must be exactly %d characters", crypto.KeySize)
	}

	if c.SearchRPS < 0 {
		return errors.New("search_rps must be greater than 0")
	}

	if err := c.Timeouts.validate(); nil != err {
		return fmt.Errorf("timeouts config validation failed: %v", err)
	}

	return nil
}

type SaavnTimeouts struct {
	Search     int `yaml:"search"`
	FetchAudio int `yaml:"fetch_audio"`
	FetchCover int `yaml:"fetch_cover"`
}

func (c *SaavnTimeouts) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Int("search", c.Search).
		Int("fetch_audio", c.FetchAudio).
		Int("fetch_cover", c.FetchCover)
}

func (c *SaavnTimeouts) setDefaults() {
	if c.Search == 0 {
		c.Search = 10
	}

	if c.FetchAudio == 0 {
		c.FetchAudio = 120
	}

	if c.FetchCover == 0 {
		c.FetchCover = 10
	}
}

func (c *SaavnTimeouts) validate() error {
	if c.Search < 0 {
		return errors.New("search must be greater than 0")
	}

	if c.FetchAudio < 0 {
		return errors.New("fetch_audio must be greater than 0")
	}

	if c.FetchCover < 0 {
		return errors.New("fetch_cover must be greater than 0")
	}

	return nil
}

type Downloads struct {
	Dir         string `yaml:"dir"`
	Bitrate     string `yaml:"bitrate"`
	Concurrency int    `yaml:"concurrency"`
	// HonestExtensions disables the compatibility extension override and
	// names artifacts after their sniffed container instead.
	HonestExtensions bool `yaml:"honest_extensions"`
}

func (c *Downloads) ToDict() *zerolog.Event {
	return zerolog.
		Dict().
		Str("dir", c.Dir).
		Str("bitrate", c.Bitrate).
		Int("concurrency", c.Concurrency).
		Bool("honest_extensions", c.HonestExtensions)
}

func (c *Downloads) setDefaults() {
	if c.Dir == "" {
		c.Dir = "./downloads"
	}

	if c.Bitrate == "" {
		c.Bitrate = "320"
	}

	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *Downloads) validate() error {
	if i, err := os.Stat(c.Dir); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			if mkErr := os.MkdirAll(c.Dir, 0o700); nil != mkErr {
				return fmt.Errorf("failed to create downloads dir: %v", mkErr)
			}
		} else {
			return fmt.Errorf("failed to stat downloads dir: %v", err)
		}
	} else if !i.IsDir() {
		return errors.New("dir must be a directory")
	}

	if !slices.Contains([]string{"12", "48", "96", "160", "320"}, c.Bitrate) {
		return fmt.Errorf("bitrate must be one of: 12, 48, 96, 160, 320, got: %s", c.Bitrate)
	}

	if c.Concurrency < 0 {
		return errors.New("concurrency must be greater than 0")
	}

	return nil
}

func Load(filename string) (*Config, error) {
	var conf Config

	data, err := os.ReadFile(lo.Ternary(len(filename) > 0, filename, "config.yaml"))
	if nil != err {
		// An explicitly specified config file must exist. The default one
		// is optional since every field has a usable default.
		if len(filename) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %v", filename, err)
		}
	} else if err := yaml.Unmarshal(data, &conf); nil != err {
		return nil, fmt.Errorf("failed to parse config file %s: %v", filename, err)
	}

	conf.Saavn.MediaKey = os.Getenv("MEDIA_KEY")
	conf.setDefaults()

	if err := conf.validate(); nil != err {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return &conf, nil
}
