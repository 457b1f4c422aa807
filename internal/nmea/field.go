package nmea

import "fmt"

// Field returns the n-th comma-delimited field of a framed sentence. Field 0
// is the identifier between '$' and the first comma. Scanning stops at '*' or
// NUL so a field never extends past the sentence. Adjacent commas yield "".
func Field(sentence []byte, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: index %d", ErrFieldOutOfBounds, n)
	}

	i := 0
	if len(sentence) > 0 && sentence[0] == startMarker {
		i = 1
	}
	for commas := 0; commas < n; i++ {
		if i >= len(sentence) || isBoundary(sentence[i]) {
			return "", fmt.Errorf("%w: index %d, %d commas", ErrFieldOutOfBounds, n, commas)
		}
		if sentence[i] == ',' {
			commas++
		}
	}

	j := i
	for j < len(sentence) && sentence[j] != ',' && !isBoundary(sentence[j]) {
		j++
	}
	return string(sentence[i:j]), nil
}

func isBoundary(c byte) bool {
	return c == endMarker || c == 0
}
