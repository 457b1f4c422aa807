package gps

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"paracletus/internal/nmea"
)

// Metrics counts parse outcomes per read.
type Metrics struct {
	sentences *prometheus.CounterVec
	fixValid  prometheus.Gauge
	bytes     prometheus.Counter
}

// NewMetrics registers the GPS collectors with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sentences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paracletus",
			Subsystem: "nmea",
			Name:      "sentences_total",
			Help:      "Serial reads by parse result.",
		}, []string{"result"}),
		fixValid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paracletus",
			Subsystem: "gps",
			Name:      "fix_valid",
			Help:      "1 when the last decoded fix had status A.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paracletus",
			Subsystem: "gps",
			Name:      "read_bytes_total",
			Help:      "Bytes handed to the parser.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.sentences, m.fixValid, m.bytes)
	}
	return m
}

func (m *Metrics) observe(n int, fix nmea.Fix, err error) {
	if m == nil {
		return
	}
	m.bytes.Add(float64(n))
	m.sentences.WithLabelValues(ResultLabel(err)).Inc()
	if err == nil {
		if fix.Valid {
			m.fixValid.Set(1)
		} else {
			m.fixValid.Set(0)
		}
	}
}

// ResultLabel names a parse outcome for metrics and summaries.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, nmea.ErrNoSentenceFramed):
		return "no_sentence"
	case errors.Is(err, nmea.ErrIncompleteSentence):
		return "incomplete"
	case errors.Is(err, nmea.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, nmea.ErrUnsupportedSentenceType):
		return "unsupported"
	case errors.Is(err, nmea.ErrNotDecoded):
		return "not_decoded"
	case errors.Is(err, nmea.ErrFieldOutOfBounds):
		return "field_bounds"
	case errors.Is(err, nmea.ErrFieldTooLong):
		return "field_too_long"
	case errors.Is(err, nmea.ErrMalformedCoordinate):
		return "coordinate"
	default:
		return "other"
	}
}

// dropped reports parse outcomes that are expected on a healthy stream and
// are not worth recording as the last error.
func dropped(err error) bool {
	return errors.Is(err, nmea.ErrUnsupportedSentenceType) ||
		errors.Is(err, nmea.ErrNotDecoded) ||
		errors.Is(err, nmea.ErrNoSentenceFramed)
}
