package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogBuffer_HoldsPartialLine(t *testing.T) {
	b := NewLogBuffer(10)
	_, _ = b.Write([]byte("{\"level\":\"info\",\"message\":\"a\"}\n{\"level\":\"warn\","))
	lines, _ := b.Snapshot(10, zerolog.TraceLevel)
	if len(lines) != 1 {
		t.Fatalf("lines=%q want 1", lines)
	}
	_, _ = b.Write([]byte("\"message\":\"b\"}\n"))
	lines, _ = b.Snapshot(10, zerolog.TraceLevel)
	if len(lines) != 2 || !strings.Contains(lines[1], "\"b\"") {
		t.Fatalf("lines=%q", lines)
	}
}

func TestLogBuffer_DropsOldest(t *testing.T) {
	b := NewLogBuffer(2)
	_, _ = b.Write([]byte("one\ntwo\nthree\n"))
	lines, dropped := b.Snapshot(10, zerolog.TraceLevel)
	if dropped != 1 {
		t.Fatalf("dropped=%d want 1", dropped)
	}
	if len(lines) != 2 || lines[0] != "two" || lines[1] != "three" {
		t.Fatalf("lines=%q", lines)
	}
}

func TestLogBuffer_FromZerolog(t *testing.T) {
	b := NewLogBuffer(10)
	logger := zerolog.New(b)
	logger.Debug().Msg("chatty")
	logger.Info().Str("device", "/dev/ttyUSB0").Msg("gps enabled")
	logger.Warn().Msg("gps read stopped")

	lines, _ := b.Snapshot(10, zerolog.InfoLevel)
	if len(lines) != 2 {
		t.Fatalf("lines=%q want 2", lines)
	}
	if !strings.Contains(lines[0], "gps enabled") || !strings.Contains(lines[1], "gps read stopped") {
		t.Fatalf("lines=%q", lines)
	}

	lines, _ = b.Snapshot(1, zerolog.TraceLevel)
	if len(lines) != 1 || !strings.Contains(lines[0], "gps read stopped") {
		t.Fatalf("tail=1 lines=%q", lines)
	}
}

func TestLogsHandler(t *testing.T) {
	b := NewLogBuffer(10)
	logger := zerolog.New(b)
	logger.Info().Msg("hello")
	logger.Error().Msg("broken")

	ts := httptest.NewServer(Handler(Deps{Logs: b}))
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/logs?level=error")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code=%d", resp.StatusCode)
	}
	var got LogsResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(got.Lines) != 1 || !strings.Contains(got.Lines[0], "broken") {
		t.Fatalf("lines=%q", got.Lines)
	}

	resp, body = get(t, ts.URL+"/api/logs?format=text")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q", ct)
	}
	if strings.Count(string(body), "\n") != 2 {
		t.Fatalf("body=%q", body)
	}

	for _, q := range []string{"tail=0", "tail=x", "level=loud"} {
		resp, _ := get(t, ts.URL+"/api/logs?"+q)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s status=%d want 400", q, resp.StatusCode)
		}
	}
}
