package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"paracletus/internal/config"
)

func TestSetupLogging_Level(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		if got := setupLogging(config.LogConfig{Level: tc.in}, &out); got != tc.want {
			t.Fatalf("level(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLogging_ExtraWritersGetJSON(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	var console, extra bytes.Buffer
	setupLogging(config.LogConfig{Level: "info", Pretty: true}, &console, &extra)
	log.Debug().Msg("hidden")
	log.Info().Str("device", "/dev/ttyUSB0").Msg("gps enabled")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(extra.Bytes()), &rec); err != nil {
		t.Fatalf("extra writer not JSON: %v (%q)", err, extra.String())
	}
	if rec["message"] != "gps enabled" || rec["device"] != "/dev/ttyUSB0" || rec["level"] != "info" {
		t.Fatalf("record=%v", rec)
	}
	if console.Len() == 0 || json.Valid(bytes.TrimSpace(console.Bytes())) {
		t.Fatalf("console output should be non-JSON text: %q", console.String())
	}
}
