package nmea

import (
	"fmt"
	"time"
)

// Fix is one decoded RMC sentence.
type Fix struct {
	Code      string    `json:"code"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Date      Date      `json:"date"`
	Time      TimeOfDay `json:"time"`
	Timestamp string    `json:"timestamp"`
	// Valid mirrors the RMC status flag (A=valid, V=void).
	Valid    bool   `json:"valid"`
	Checksum string `json:"checksum"`
}

// Parser runs the full pipeline over one buffer. It holds only immutable
// configuration, so one Parser may be shared by concurrent callers as long
// as each passes its own buffer.
type Parser struct {
	classifier *Classifier
	normalizer Normalizer
}

// NewParser builds a parser for the given allow-list (empty means
// DefaultSentences) and civil time offset.
func NewParser(sentences []string, utcOffset time.Duration) *Parser {
	return &Parser{
		classifier: NewClassifier(sentences),
		normalizer: NewNormalizer(utcOffset),
	}
}

// Classifier exposes the parser's allow-list.
func (p *Parser) Classifier() *Classifier { return p.classifier }

// Parse locates, validates, classifies and decodes the first sentence in buf.
// Any failure aborts the remaining stages.
func (p *Parser) Parse(buf []byte) (Fix, error) {
	buf = validPrefix(buf)

	frame, err := Locate(buf)
	if err != nil {
		return Fix{}, err
	}
	sentence := frame.Sentence(buf)
	if err := ValidateChecksum(sentence); err != nil {
		return Fix{}, err
	}
	class, err := p.classifier.Classify(sentence)
	if err != nil {
		return Fix{}, err
	}
	if !class.Decoded {
		return Fix{}, fmt.Errorf("%w: %s", ErrNotDecoded, class.Code)
	}

	raw, err := ExtractRMC(sentence)
	if err != nil {
		return Fix{}, err
	}
	return p.Decode(class.Code, raw)
}

// Decode converts an extracted RMC record into a Fix.
func (p *Parser) Decode(code string, raw RawSentence) (Fix, error) {
	lat, err := DecodeCoordinate(raw.Latitude, raw.LatHemisphere, Latitude)
	if err != nil {
		return Fix{}, err
	}
	lon, err := DecodeCoordinate(raw.Longitude, raw.LonHemisphere, Longitude)
	if err != nil {
		return Fix{}, err
	}
	tod := DecodeTime(raw.Time)
	date := DecodeDate(raw.Date)

	return Fix{
		Code:      code,
		Latitude:  lat,
		Longitude: lon,
		Date:      date,
		Time:      tod,
		Timestamp: p.normalizer.Normalize(date, tod),
		Valid:     raw.Validity == "A",
		Checksum:  raw.Checksum,
	}, nil
}
