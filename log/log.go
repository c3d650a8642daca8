package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamuelAdmand/JioSaavn-DL/config"
	"github.com/SamuelAdmand/JioSaavn-DL/constants"
	"github.com/SamuelAdmand/JioSaavn-DL/must"
)

func FromConfig(conf config.Log) zerolog.Logger {
	// Level is whitelisted by config validation before we get here.
	level, err := zerolog.ParseLevel(conf.Level)
	must.NilErr(err)

	switch strings.ToLower(conf.Format) {
	case "json":
		return zerolog.
			New(os.Stderr).
			Hook(&stackHook{}).
			With().
			Timestamp().
			Str("version", constants.Version).
			Str("compile_time", constants.CompileTime).
			Logger().
			Level(level)
	case "pretty":
		return zerolog.
			New(zerolog.ConsoleWriter{ //nolint:exhaustruct
				Out:          os.Stderr,
				TimeFormat:   time.RFC3339,
				TimeLocation: time.UTC,
			}).
			Hook(&stackHook{}).
			With().
			Timestamp().
			Str("version", constants.Version).
			Str("compile_time", constants.CompileTime).
			Logger().
			Level(level)
	default:
		panic("invalid logging format: " + conf.Format)
	}
}

func NewDefault() zerolog.Logger {
	return zerolog.
		New(zerolog.ConsoleWriter{ //nolint:exhaustruct
			Out:          os.Stderr,
			TimeFormat:   time.RFC3339,
			TimeLocation: time.UTC,
		}).
		Hook(&stackHook{}).
		With().
		Timestamp().
		Str("version", constants.Version).
		Str("compile_time", constants.CompileTime).
		Logger().
		Level(zerolog.InfoLevel)
}
