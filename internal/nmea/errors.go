package nmea

import "errors"

// Every stage fails with one of these. None of them is fatal to the read
// loop: they all mean "no fix from this buffer".
var (
	ErrNoSentenceFramed        = errors.New("nmea: no sentence framed")
	ErrIncompleteSentence      = errors.New("nmea: incomplete sentence")
	ErrChecksumMismatch        = errors.New("nmea: checksum mismatch")
	ErrUnsupportedSentenceType = errors.New("nmea: unsupported sentence type")
	ErrFieldOutOfBounds        = errors.New("nmea: field out of bounds")
	ErrFieldTooLong            = errors.New("nmea: field too long")
	ErrMalformedCoordinate     = errors.New("nmea: malformed coordinate")

	// ErrNotDecoded is returned for allow-listed sentences that are
	// classified but whose payload is not decoded (GGA, GLL, ZDA).
	ErrNotDecoded = errors.New("nmea: sentence not decoded")
)
