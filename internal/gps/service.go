package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/ratelimit"

	"paracletus/internal/nmea"
	"paracletus/internal/replay"
	"paracletus/internal/sim"
)

// Config controls the GPS reader.
//
// Device may be empty to auto-detect /dev/ttyACM* and /dev/ttyUSB*.
// The receiver defaults to 9600 baud 8N1.
type Config struct {
	Enable bool

	// Source is "serial" (default), "gpsd", "replay" or "sim".
	Source string

	Device string
	Baud   int
	// Driver is "termios" or "jacobsa"; empty picks the platform default.
	Driver string

	// GPSDAddr is host:port for Source=="gpsd".
	GPSDAddr string

	// ReopenInterval paces serial reopen attempts.
	ReopenInterval time.Duration

	// RecordPath, when set, receives every raw read as a capture log.
	RecordPath string

	ReplayPath  string
	ReplaySpeed float64
	ReplayLoop  bool

	// Sim emits one sentence per SimInterval.
	Sim         sim.Receiver
	SimInterval time.Duration
}

// Sink receives every decoded fix. Publish should not block for long.
type Sink interface {
	Publish(fix nmea.Fix) error
}

// Indicator mirrors fix validity, typically on an LED.
type Indicator interface {
	Set(on bool) error
}

type Snapshot struct {
	Enabled bool `json:"enabled"`
	Valid   bool `json:"valid"`

	Source   string `json:"source,omitempty"`
	GPSDAddr string `json:"gpsd_addr,omitempty"`
	Device   string `json:"device,omitempty"`
	Baud     int    `json:"baud,omitempty"`

	Fix        *nmea.Fix `json:"fix,omitempty"`
	LastFixUTC string    `json:"last_fix_utc,omitempty"`

	Reads   uint64 `json:"reads"`
	Bytes   uint64 `json:"bytes"`
	Fixes   uint64 `json:"fixes"`
	Dropped uint64 `json:"dropped"`
	Errors  uint64 `json:"errors"`

	LastError string `json:"last_error,omitempty"`
}

type Option func(*Service)

func WithSinks(sinks ...Sink) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sinks...) }
}

func WithIndicator(ind Indicator) Option {
	return func(s *Service) { s.led = ind }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

type Service struct {
	cfg     Config
	parser  *nmea.Parser
	sinks   []Sink
	led     Indicator
	metrics *Metrics

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards snap and rec.
	mu   sync.Mutex
	snap Snapshot
	rec  *replay.Writer

	last atomic.Value // Snapshot
}

func New(cfg Config, parser *nmea.Parser, opts ...Option) *Service {
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source == "" {
		cfg.Source = "serial"
	}
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.ReopenInterval <= 0 {
		cfg.ReopenInterval = 2 * time.Second
	}
	if cfg.SimInterval <= 0 {
		cfg.SimInterval = time.Second
	}
	if parser == nil {
		parser = nmea.NewParser(nil, nmea.DefaultUTCOffset)
	}

	s := &Service{cfg: cfg, parser: parser}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = Snapshot{Enabled: cfg.Enable, Source: cfg.Source}
	switch cfg.Source {
	case "serial":
		s.snap.Device = cfg.Device
		s.snap.Baud = cfg.Baud
	case "gpsd":
		s.snap.GPSDAddr = strings.TrimSpace(cfg.GPSDAddr)
	case "replay":
		s.snap.Device = cfg.ReplayPath
	}
	s.last.Store(s.snap)
	return s
}

// Start launches the reader in the background. It returns nil without doing
// anything when the service is disabled or already running.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	var run func(ctx context.Context)
	switch s.cfg.Source {
	case "serial":
		device := strings.TrimSpace(s.cfg.Device)
		if device == "" {
			device = autoDetectDevice()
			if device == "" {
				s.setErrorLocked("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
				return fmt.Errorf("gps auto-detect failed")
			}
		}
		s.snap.Device = device
		run = func(ctx context.Context) { s.runSerial(ctx, device) }
	case "gpsd":
		addr := s.snap.GPSDAddr
		if addr == "" {
			addr = gpsdDefaultAddr
			s.snap.GPSDAddr = addr
		}
		run = func(ctx context.Context) { s.runGPSD(ctx, addr) }
	case "replay":
		recs, err := replay.ReadFile(s.cfg.ReplayPath)
		if err != nil {
			s.setErrorLocked(fmt.Sprintf("gps replay load failed: %v", err))
			return err
		}
		run = func(ctx context.Context) { s.runReplay(ctx, recs) }
	case "sim":
		run = func(ctx context.Context) { s.runSim(ctx) }
	default:
		return fmt.Errorf("unknown gps source %q", s.cfg.Source)
	}

	if s.cfg.RecordPath != "" {
		w, err := replay.CreateWriter(s.cfg.RecordPath)
		if err != nil {
			s.setErrorLocked(fmt.Sprintf("gps record failed: %v", err))
			return err
		}
		s.rec = w
		log.Info().Str("path", s.cfg.RecordPath).Msg("gps recording raw reads")
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.last.Store(s.snap)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		run(childCtx)
	}()
	return nil
}

func (s *Service) runSerial(ctx context.Context, device string) {
	rl := ratelimit.New(1, ratelimit.Per(s.cfg.ReopenInterval), ratelimit.WithoutSlack)
	for {
		if !take(ctx, rl) {
			return
		}

		port, err := openSerialFn(s.cfg.Driver, device, s.cfg.Baud)
		if err != nil {
			s.setError(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, s.cfg.Baud, err))
			continue
		}
		log.Info().Str("device", device).Int("baud", s.cfg.Baud).Str("driver", s.cfg.Driver).Msg("gps enabled")

		err = s.readSerial(ctx, port)
		_ = port.Close()
		if ctx.Err() != nil {
			return
		}
		s.setError(fmt.Sprintf("gps read stopped: %v", err))
		log.Warn().Err(err).Str("device", device).Msg("gps read stopped, reopening")
	}
}

// readSerial hands line-aligned reads of at most nmea.BufferSize bytes to the
// parser until r fails.
func (s *Service) readSerial(ctx context.Context, r io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	defer stop()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4*nmea.BufferSize), 4*nmea.BufferSize)
	scanner.Split(splitReads)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.handleRead(time.Now().UTC(), scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (s *Service) runReplay(ctx context.Context, recs []replay.Record) {
	log.Info().Str("path", s.cfg.ReplayPath).Int("records", len(recs)).Msg("gps replay started")
	opts := replay.PlayOptions{Speed: s.cfg.ReplaySpeed, Loop: s.cfg.ReplayLoop}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	err := replay.Play(ctx, recs, opts, func(data []byte) error {
		s.handleRead(time.Now().UTC(), data)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		s.setError(fmt.Sprintf("gps replay stopped: %v", err))
		return
	}
	log.Info().Msg("gps replay finished")
}

func (s *Service) runSim(ctx context.Context) {
	log.Info().
		Float64("lat", s.cfg.Sim.CenterLatDeg).
		Float64("lon", s.cfg.Sim.CenterLonDeg).
		Dur("interval", s.cfg.SimInterval).
		Msg("gps simulator started")
	t := time.NewTicker(s.cfg.SimInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			now = now.UTC()
			s.handleRead(now, []byte(s.cfg.Sim.RMC(now)))
		}
	}
}

// handleRead parses one read. Every read gets a fresh buffer.
func (s *Service) handleRead(nowUTC time.Time, data []byte) {
	var buf nmea.RawBuffer
	n := buf.Fill(data)

	s.mu.Lock()
	rec := s.rec
	s.mu.Unlock()
	if rec != nil {
		if err := rec.WriteRecord(nowUTC, data); err != nil {
			log.Warn().Err(err).Msg("gps record write failed")
		}
	}

	fix, err := s.parser.Parse(buf[:])
	s.metrics.observe(n, fix, err)

	s.mu.Lock()
	s.snap.Reads++
	s.snap.Bytes += uint64(n)
	switch {
	case err == nil:
		s.snap.Fixes++
		f := fix
		s.snap.Fix = &f
		s.snap.Valid = fix.Valid
		s.snap.LastFixUTC = nowUTC.Format(time.RFC3339Nano)
	case dropped(err):
		s.snap.Dropped++
	default:
		s.snap.Errors++
		s.snap.LastError = err.Error()
	}
	s.last.Store(s.snap)
	s.mu.Unlock()

	if err != nil {
		log.Debug().Err(err).Msg("nmea parse")
		return
	}

	if s.led != nil {
		if err := s.led.Set(fix.Valid); err != nil {
			log.Warn().Err(err).Msg("fix indicator")
		}
	}
	for _, sink := range s.sinks {
		if err := sink.Publish(fix); err != nil {
			s.setError(fmt.Sprintf("publish failed: %v", err))
			log.Warn().Err(err).Msg("fix publish failed")
		}
	}
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	rec := s.rec
	s.rec = nil
	s.mu.Unlock()
	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Warn().Err(err).Msg("gps record close failed")
		}
	}
	if s.led != nil {
		_ = s.led.Set(false)
	}
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

// take waits for the limiter unless ctx ends first.
func take(ctx context.Context, rl ratelimit.Limiter) bool {
	done := make(chan struct{})
	go func() {
		rl.Take()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return false
	case <-done:
		return ctx.Err() == nil
	}
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	// Transient failures do not flip Valid.
	s.snap.LastError = msg
	s.last.Store(s.snap)
}

func autoDetectDevice() string {
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
