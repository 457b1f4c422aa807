package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"paracletus/internal/config"
	"paracletus/internal/gps"
	"paracletus/internal/nmea"
	"paracletus/internal/replay"
)

type captureSummary struct {
	Segments    int
	Reads       int
	MaxDuration time.Duration
	Results     map[string]int
	ValidFixes  int
	FirstFix    string
	LastFix     string
}

// summarizeCapture runs every recorded read through p exactly as the live
// reader would.
func summarizeCapture(records []replay.Record, p *nmea.Parser) captureSummary {
	s := captureSummary{Results: map[string]int{}}
	origin := time.Duration(0)
	segments := 0

	for _, r := range records {
		if r.Data == nil {
			segments++
			origin = r.At
			continue
		}
		s.Reads++
		at := r.At - origin
		if at < 0 {
			at = 0
		}
		if at > s.MaxDuration {
			s.MaxDuration = at
		}

		var buf nmea.RawBuffer
		buf.Fill(r.Data)
		fix, err := p.Parse(buf[:])
		s.Results[gps.ResultLabel(err)]++
		if err != nil {
			continue
		}
		if fix.Valid {
			s.ValidFixes++
		}
		if s.FirstFix == "" {
			s.FirstFix = fix.Timestamp
		}
		s.LastFix = fix.Timestamp
	}
	if segments == 0 && s.Reads > 0 {
		segments = 1
	}
	s.Segments = segments
	return s
}

func printCaptureSummary(w io.Writer, path string, cfg config.NMEAConfig) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	recs, err := replay.ReadFile(path)
	if err != nil {
		return err
	}

	s := summarizeCapture(recs, nmea.NewParser(cfg.Sentences, cfg.Offset()))

	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "segments: %d\n", s.Segments)
	fmt.Fprintf(w, "reads: %d\n", s.Reads)
	fmt.Fprintf(w, "max_duration: %s\n", s.MaxDuration)
	fmt.Fprintf(w, "fixes: %d (valid %d)\n", s.Results["ok"], s.ValidFixes)
	if s.FirstFix != "" {
		fmt.Fprintf(w, "first_fix: %s\n", s.FirstFix)
		fmt.Fprintf(w, "last_fix: %s\n", s.LastFix)
	}

	keys := make([]string, 0, len(s.Results))
	for k := range s.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "results:\n")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d\n", k, s.Results[k])
	}
	return nil
}
