package web

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogBuffer keeps the most recent zerolog JSON lines for /api/logs.
type LogBuffer struct {
	mu      sync.Mutex
	max     int
	entries []logEntry
	partial []byte
	dropped uint64
}

type logEntry struct {
	level zerolog.Level
	line  string
}

func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = 2000
	}
	return &LogBuffer{max: maxLines}
}

// Write implements io.Writer. Input is split into lines; a trailing partial
// line is held until its newline arrives.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)
	b.partial = nil

	if i := bytes.LastIndexByte(data, '\n'); i < len(data)-1 {
		b.partial = append([]byte(nil), data[i+1:]...)
		data = data[:i+1]
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.appendLineLocked(scanner.Text())
	}
	return len(p), nil
}

func (b *LogBuffer) appendLineLocked(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	b.entries = append(b.entries, logEntry{level: lineLevel(line), line: line})
	if len(b.entries) > b.max {
		over := len(b.entries) - b.max
		b.entries = b.entries[over:]
		b.dropped += uint64(over)
	}
}

// lineLevel reads the "level" field of a zerolog JSON line. Lines that are
// not JSON are kept at NoLevel so every filter shows them.
func lineLevel(line string) zerolog.Level {
	var v struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal([]byte(line), &v); err != nil || v.Level == "" {
		return zerolog.NoLevel
	}
	lvl, err := zerolog.ParseLevel(v.Level)
	if err != nil {
		return zerolog.NoLevel
	}
	return lvl
}

type LogsResponse struct {
	NowUTC  string   `json:"now_utc"`
	Dropped uint64   `json:"dropped"`
	Lines   []string `json:"lines"`
}

// Snapshot returns up to tail of the newest lines at or above minLevel.
func (b *LogBuffer) Snapshot(tail int, minLevel zerolog.Level) (lines []string, dropped uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tail <= 0 {
		tail = 200
	}
	for i := len(b.entries) - 1; i >= 0 && len(lines) < tail; i-- {
		e := b.entries[i]
		if e.level != zerolog.NoLevel && e.level < minLevel {
			continue
		}
		lines = append(lines, e.line)
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	if lines == nil {
		lines = []string{}
	}
	return lines, b.dropped
}

func (b *LogBuffer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		tail := 200
		if s := strings.TrimSpace(q.Get("tail")); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 1 || v > 5000 {
				http.Error(w, "tail must be an integer in [1,5000]", http.StatusBadRequest)
				return
			}
			tail = v
		}
		minLevel := zerolog.TraceLevel
		if s := strings.TrimSpace(q.Get("level")); s != "" {
			lvl, err := zerolog.ParseLevel(strings.ToLower(s))
			if err != nil {
				http.Error(w, "unknown level", http.StatusBadRequest)
				return
			}
			minLevel = lvl
		}

		lines, dropped := b.Snapshot(tail, minLevel)

		if strings.EqualFold(q.Get("format"), "text") {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			if dropped > 0 {
				_, _ = fmt.Fprintf(w, "[dropped=%d]\n", dropped)
			}
			for _, line := range lines {
				_, _ = w.Write([]byte(line))
				_, _ = w.Write([]byte("\n"))
			}
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, LogsResponse{
			NowUTC:  time.Now().UTC().Format(time.RFC3339Nano),
			Dropped: dropped,
			Lines:   lines,
		})
	})
}
