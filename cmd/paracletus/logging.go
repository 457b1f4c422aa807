package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"paracletus/internal/config"
)

// setupLogging installs the global logger. out gets console or JSON output
// per cfg.Pretty; extra writers always receive JSON.
func setupLogging(cfg config.LogConfig, out io.Writer, extra ...io.Writer) zerolog.Level {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	writers := append([]io.Writer{out}, extra...)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
	return level
}
