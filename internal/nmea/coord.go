package nmea

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis selects the hemisphere letters and range of a coordinate.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) String() string {
	if a == Longitude {
		return "longitude"
	}
	return "latitude"
}

func (a Axis) limit() float64 {
	if a == Longitude {
		return 180
	}
	return 90
}

func (a Axis) negative() string {
	if a == Longitude {
		return "W"
	}
	return "S"
}

// DecodeCoordinate converts DDMM.MMMM (latitude) or DDDMM.MMMM (longitude)
// text to signed decimal degrees.
//
// Degrees are every character up to two before the decimal point; minutes
// are the rest. The result is negative iff hemisphere is S (latitude) or W
// (longitude).
func DecodeCoordinate(text, hemisphere string, axis Axis) (float64, error) {
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0, fmt.Errorf("%w: %s %q has no decimal point", ErrMalformedCoordinate, axis, text)
	}
	if dot < 2 {
		return 0, fmt.Errorf("%w: %s %q has no minutes", ErrMalformedCoordinate, axis, text)
	}

	degText, minText := text[:dot-2], text[dot-2:]
	if !isDigits(degText) || !isDigits(strings.Replace(minText, ".", "", 1)) {
		return 0, fmt.Errorf("%w: %s %q is not numeric", ErrMalformedCoordinate, axis, text)
	}
	deg, err := strconv.ParseFloat(degText, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s degrees %q: %v", ErrMalformedCoordinate, axis, degText, err)
	}
	mins, err := strconv.ParseFloat(minText, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s minutes %q: %v", ErrMalformedCoordinate, axis, minText, err)
	}
	if mins >= 60 {
		return 0, fmt.Errorf("%w: %s minutes %q out of range", ErrMalformedCoordinate, axis, minText)
	}

	dec := deg + mins/60
	if dec > axis.limit() {
		return 0, fmt.Errorf("%w: %s %q out of range", ErrMalformedCoordinate, axis, text)
	}
	if hemisphere == axis.negative() {
		dec = -dec
	}
	return dec, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
