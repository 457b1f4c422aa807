package nmea

import (
	"bytes"
	"fmt"
	"strconv"
)

// Checksum XORs every byte of payload. The payload is the text strictly
// between '$' and '*'.
func Checksum(payload []byte) byte {
	ck := byte(0)
	for _, c := range payload {
		ck ^= c
	}
	return ck
}

// AppendChecksum frames payload as "$<payload>*HH". A leading '$' in payload
// is tolerated.
func AppendChecksum(payload string) string {
	if len(payload) > 0 && payload[0] == startMarker {
		payload = payload[1:]
	}
	return fmt.Sprintf("$%s*%02X", payload, Checksum([]byte(payload)))
}

// ValidateChecksum checks a framed sentence ("$...*HH"). It only reads the
// bytes between the markers and the trailer; fields are never consulted.
func ValidateChecksum(sentence []byte) error {
	if len(sentence) == 0 || sentence[0] != startMarker {
		return ErrNoSentenceFramed
	}
	end := bytes.IndexByte(sentence, endMarker)
	if end < 0 {
		return ErrNoSentenceFramed
	}
	if end+3 > len(sentence) {
		return ErrIncompleteSentence
	}

	trailer := string(sentence[end+1 : end+3])
	want, err := strconv.ParseUint(trailer, 16, 8)
	if err != nil {
		return fmt.Errorf("%w: bad trailer %q", ErrChecksumMismatch, trailer)
	}
	got := Checksum(sentence[1:end])
	if got != byte(want) {
		return fmt.Errorf("%w: calculated %02X, trailer %02X", ErrChecksumMismatch, got, want)
	}
	return nil
}
