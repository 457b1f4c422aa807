package nmea

import "fmt"

// Widths of the bounded RawSentence slots.
const (
	wideField   = 16
	narrowField = 4
)

// RMC field indices. 7 (speed) and 8 (track) are not read.
const (
	rmcTime      = 1
	rmcValidity  = 2
	rmcLatitude  = 3
	rmcLatHemi   = 4
	rmcLongitude = 5
	rmcLonHemi   = 6
	rmcDate      = 9
)

// RawSentence is a validated RMC sentence as untyped text.
//
// It is only built by ExtractRMC, after the sentence passed checksum
// validation and classification.
type RawSentence struct {
	Time          string
	Validity      string
	Latitude      string
	LatHemisphere string
	Longitude     string
	LonHemisphere string
	Date          string
	Checksum      string
}

// ExtractRMC copies the RMC fields of a framed sentence into a RawSentence.
// Every copy is checked against the slot width.
func ExtractRMC(sentence []byte) (RawSentence, error) {
	var (
		raw RawSentence
		err error
	)
	slots := []struct {
		index int
		width int
		dst   *string
	}{
		{rmcTime, wideField, &raw.Time},
		{rmcValidity, narrowField, &raw.Validity},
		{rmcLatitude, wideField, &raw.Latitude},
		{rmcLatHemi, narrowField, &raw.LatHemisphere},
		{rmcLongitude, wideField, &raw.Longitude},
		{rmcLonHemi, narrowField, &raw.LonHemisphere},
		{rmcDate, wideField, &raw.Date},
	}
	for _, s := range slots {
		if *s.dst, err = boundedField(sentence, s.index, s.width); err != nil {
			return RawSentence{}, err
		}
	}

	f, err := Locate(sentence)
	if err != nil {
		return RawSentence{}, err
	}
	raw.Checksum = string(f.Trailer(sentence))
	return raw, nil
}

// boundedField reads field n and rejects it when it does not fit in width
// bytes (one byte of each slot is reserved, as for a terminated string).
func boundedField(sentence []byte, n, width int) (string, error) {
	v, err := Field(sentence, n)
	if err != nil {
		return "", err
	}
	if len(v) >= width {
		return "", fmt.Errorf("%w: field %d is %d bytes, max %d", ErrFieldTooLong, n, len(v), width-1)
	}
	return v, nil
}
