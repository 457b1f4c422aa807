package nmea

import (
	"fmt"
	"strconv"
)

// YearBase is added to the two-digit RMC year. There is no century window:
// dates before 2000 or after 2099 cannot be represented.
const YearBase = 2000

// Date is a calendar date. The zero value means "no date".
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// TimeOfDay is a UTC time of day with second precision. The zero value is
// also what an absent time decodes to.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// DecodeTime decodes the HHMMSS prefix of an RMC time field. Accepted widths
// are 6 (HHMMSS) and HHMMSS followed by a fraction, such as the 9-wide
// HHMMSS.ss most receivers send; sub-seconds are dropped. Any other input
// decodes to the zero TimeOfDay.
func DecodeTime(text string) TimeOfDay {
	switch {
	case len(text) == 6:
	case len(text) >= 8 && len(text) <= 10 && text[6] == '.' && isDigits(text[7:]):
	default:
		return TimeOfDay{}
	}

	h, okH := twoDigits(text, 0)
	m, okM := twoDigits(text, 2)
	s, okS := twoDigits(text, 4)
	if !okH || !okM || !okS || h > 23 || m > 59 || s > 60 {
		return TimeOfDay{}
	}
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// DecodeDate decodes a 6-wide DDMMYY field. The year is YY+YearBase. Any
// other width, or a day or month outside the calendar, decodes to the zero
// Date.
func DecodeDate(text string) Date {
	if len(text) != 6 {
		return Date{}
	}
	d, okD := twoDigits(text, 0)
	m, okM := twoDigits(text, 2)
	y, okY := twoDigits(text, 4)
	if !okD || !okM || !okY || d < 1 || d > 31 || m < 1 || m > 12 {
		return Date{}
	}
	return Date{Year: y + YearBase, Month: m, Day: d}
}

func twoDigits(s string, at int) (int, bool) {
	g := s[at : at+2]
	if !isDigits(g) {
		return 0, false
	}
	v, err := strconv.Atoi(g)
	return v, err == nil
}
