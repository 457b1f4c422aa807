package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const gpsdDefaultAddr = "127.0.0.1:2947"

// dialGPSD connects to gpsd over TCP.
func dialGPSD(ctx context.Context, addr string) (net.Conn, error) {
	if strings.TrimSpace(addr) == "" {
		addr = gpsdDefaultAddr
	}
	d := &net.Dialer{Timeout: 2 * time.Second}
	return d.DialContext(ctx, "tcp", addr)
}

// gpsdWatchRaw asks gpsd to relay the receiver's sentences unmodified.
// gpsd interleaves its own JSON reports, which the caller skips.
func gpsdWatchRaw(conn net.Conn) error {
	_, err := conn.Write([]byte("?WATCH={\"enable\":true,\"raw\":1}\n"))
	return err
}

func (s *Service) runGPSD(ctx context.Context, addr string) {
	backoff := 250 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := dialGPSD(ctx, addr)
		if err != nil {
			s.setError(fmt.Sprintf("gpsd dial failed addr=%s: %v", addr, err))
			t := backoff
			if t > maxBackoff {
				t = maxBackoff
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(t):
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = 250 * time.Millisecond

		if err := gpsdWatchRaw(conn); err != nil {
			s.setError(fmt.Sprintf("gpsd watch failed: %v", err))
			_ = conn.Close()
			continue
		}
		log.Info().Str("addr", addr).Msg("gpsd connected")

		err = s.readGPSD(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		s.setError(fmt.Sprintf("gpsd read stopped: %v", err))
	}
}

func (s *Service) readGPSD(ctx context.Context, r io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	defer stop()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 256*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		// JSON reports (VERSION, DEVICES, WATCH, ...) start with '{'.
		if len(line) == 0 || line[0] == '{' {
			continue
		}
		s.handleRead(time.Now().UTC(), line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
