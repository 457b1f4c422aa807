package web

import (
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"paracletus/internal/gps"
)

type Status struct {
	startUnixNano int64
	sinks         atomic.Value // []string
	sentences     atomic.Value // []string
	utcOffset     atomic.Value // string
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.sinks.Store([]string{})
	s.sentences.Store([]string{})
	s.utcOffset.Store("")
	return s
}

// SetStatic records configuration that does not change at runtime.
func (s *Status) SetStatic(sentences []string, utcOffset time.Duration, sinks []string) {
	if sentences != nil {
		s.sentences.Store(append([]string(nil), sentences...))
	}
	s.utcOffset.Store(utcOffset.String())
	if sinks != nil {
		s.sinks.Store(append([]string(nil), sinks...))
	}
}

type StatusSnapshot struct {
	Service   string   `json:"service"`
	NowUTC    string   `json:"now_utc"`
	UptimeSec int64    `json:"uptime_sec"`
	Sentences []string `json:"sentences"`
	UTCOffset string   `json:"utc_offset"`
	Sinks     []string `json:"sinks"`

	GPS gps.Snapshot `json:"gps"`
	// BytesRead and LastFixAge are human-readable renderings of GPS fields.
	BytesRead  string `json:"bytes_read"`
	LastFixAge string `json:"last_fix_age,omitempty"`

	WSClients int `json:"ws_clients"`
}

func (s *Status) Snapshot(nowUTC time.Time, g gps.Snapshot, wsClients int) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := StatusSnapshot{
		Service:   "paracletus",
		NowUTC:    nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec: int64(nowUTC.Sub(start).Seconds()),
		Sentences: s.sentences.Load().([]string),
		UTCOffset: s.utcOffset.Load().(string),
		Sinks:     s.sinks.Load().([]string),
		GPS:       g,
		BytesRead: humanize.Bytes(g.Bytes),
		WSClients: wsClients,
	}
	if g.LastFixUTC != "" {
		if t, err := time.Parse(time.RFC3339Nano, g.LastFixUTC); err == nil {
			snap.LastFixAge = humanize.RelTime(t, nowUTC, "ago", "from now")
		}
	}
	return snap
}
