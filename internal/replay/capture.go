// Package replay records raw serial reads and plays them back with their
// original timing.
//
// Capture format, one record per line:
//
//	START            resets the origin; later offsets are relative to it
//	<t_ns>,<hex>     nanoseconds since START and the bytes of one read
//
// Blank lines and lines starting with '#' are ignored.
package replay

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Record is one captured read. A nil Data marks a START line.
type Record struct {
	At   time.Duration
	Data []byte
}

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadFile reads a whole capture file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}

func (rr *Reader) ReadAll() ([]Record, error) {
	s := bufio.NewScanner(rr.r)
	s.Buffer(make([]byte, 0, 4096), 64*1024)

	recs := make([]Record, 0, 256)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "START" {
			recs = append(recs, Record{})
			continue
		}

		tsStr, hexStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("capture line %d: missing comma", lineNum)
		}
		tsStr = strings.TrimSpace(tsStr)
		hexStr = strings.ReplaceAll(strings.TrimSpace(hexStr), " ", "")
		if tsStr == "" || hexStr == "" {
			return nil, fmt.Errorf("capture line %d: empty field", lineNum)
		}

		tsNs, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("capture line %d: timestamp: %w", lineNum, err)
		}
		if tsNs < 0 {
			return nil, fmt.Errorf("capture line %d: negative timestamp %d", lineNum, tsNs)
		}
		b, err := hex.DecodeString(hexStr)
		if err != nil {
			return nil, fmt.Errorf("capture line %d: payload: %w", lineNum, err)
		}
		recs = append(recs, Record{At: time.Duration(tsNs), Data: b})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Writer appends records to a capture file. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	w      *bufio.Writer
	start  time.Time
	closed bool
}

func CreateWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(f, 16*1024)
	if _, err := bw.WriteString("START\n"); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, w: bw, start: time.Now()}, nil
}

func (ww *Writer) WriteRecord(now time.Time, data []byte) error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return errors.New("capture writer is closed")
	}
	if len(data) == 0 {
		return nil
	}
	d := now.Sub(ww.start)
	if d < 0 {
		d = 0
	}
	_, err := fmt.Fprintf(ww.w, "%d,%s\n", d.Nanoseconds(), hex.EncodeToString(data))
	return err
}

func (ww *Writer) Flush() error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return nil
	}
	return ww.w.Flush()
}

func (ww *Writer) Close() error {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if ww.closed {
		return nil
	}
	ww.closed = true
	if err := ww.w.Flush(); err != nil {
		_ = ww.f.Close()
		return err
	}
	return ww.f.Close()
}

// Sleeper waits between records. It returns early with ctx.Err() when the
// context ends.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type PlayOptions struct {
	// Speed: 1.0 = real time, 2.0 = twice as fast.
	Speed   float64
	Loop    bool
	Sleeper Sleeper
}

// Play invokes cb for every data record, waiting the recorded gap between
// consecutive records. START markers reset the origin.
func Play(ctx context.Context, records []Record, opts PlayOptions, cb func(data []byte) error) error {
	if opts.Speed <= 0 {
		return fmt.Errorf("replay speed must be > 0")
	}
	if cb == nil {
		return errors.New("callback is nil")
	}
	if len(records) == 0 {
		return errors.New("no records")
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = realSleeper{}
	}

	for {
		var origin, lastAt time.Duration
		haveLast := false

		for _, r := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.Data == nil {
				origin = r.At
				lastAt = 0
				haveLast = false
				continue
			}

			at := r.At - origin
			if at < 0 {
				at = 0
			}
			if haveLast {
				wait := time.Duration(float64(at-lastAt) / opts.Speed)
				if wait > 0 {
					if err := sleeper.Sleep(ctx, wait); err != nil {
						return err
					}
				}
			}
			if err := cb(r.Data); err != nil {
				return err
			}
			lastAt = at
			haveLast = true
		}

		if !opts.Loop {
			return nil
		}
	}
}
