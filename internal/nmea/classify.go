package nmea

import (
	"fmt"
	"sort"
	"strings"
)

// CodeLen is the width of the talker+sentence identifier after '$'.
const CodeLen = 5

// DefaultSentences is the allow-list used when none is configured.
var DefaultSentences = []string{"GNGGA", "GPGGA", "GNRMC", "GPRMC", "GPGLL", "GPZDA"}

// Class is the result of classifying an allow-listed sentence.
type Class struct {
	Code string
	// Decoded reports whether the payload is decoded (RMC class).
	Decoded bool
}

// Classifier accepts sentences by exact, case-sensitive code match.
type Classifier struct {
	codes map[string]struct{}
}

// NewClassifier builds a classifier from an allow-list. An empty list means
// DefaultSentences.
func NewClassifier(codes []string) *Classifier {
	if len(codes) == 0 {
		codes = DefaultSentences
	}
	c := &Classifier{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		c.codes[code] = struct{}{}
	}
	return c
}

// Codes returns the allow-list, sorted.
func (c *Classifier) Codes() []string {
	out := make([]string, 0, len(c.codes))
	for code := range c.codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Classify reads the CodeLen characters after the leading '$'.
func (c *Classifier) Classify(sentence []byte) (Class, error) {
	if len(sentence) < 1+CodeLen || sentence[0] != startMarker {
		return Class{}, ErrUnsupportedSentenceType
	}
	code := string(sentence[1 : 1+CodeLen])
	if _, ok := c.codes[code]; !ok {
		return Class{}, fmt.Errorf("%w: %q", ErrUnsupportedSentenceType, code)
	}
	return Class{Code: code, Decoded: isRMC(code)}, nil
}

func isRMC(code string) bool {
	return strings.HasSuffix(code, "RMC")
}
