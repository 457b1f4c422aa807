package gps

import (
	"bytes"

	"paracletus/internal/nmea"
)

// splitReads is a bufio.SplitFunc yielding line-aligned reads of at most
// nmea.BufferSize bytes. The newline is kept so a sentence never loses its
// trailer to the split.
func splitReads(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	limit := len(data)
	if limit > nmea.BufferSize {
		limit = nmea.BufferSize
	}
	if i := bytes.IndexByte(data[:limit], '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if len(data) >= nmea.BufferSize {
		return nmea.BufferSize, data[:nmea.BufferSize], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
