package nmea

import "time"

// TimestampLayout is the format of normalized timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultUTCOffset is the deployment's civil time offset (UTC-3).
const DefaultUTCOffset = -3 * time.Hour

// epoch is reported when a fix carries no usable date/time.
var epoch = time.Unix(0, 0).UTC()

// Normalizer turns a decoded date and time into local civil time.
type Normalizer struct {
	// Offset is added to the UTC instant; -3h for UTC-3.
	Offset time.Duration
}

func NewNormalizer(offset time.Duration) Normalizer {
	return Normalizer{Offset: offset}
}

// Instant returns the local civil instant, or the Unix epoch when the year
// is zero or both hour and minute are zero ("no fix yet").
func (n Normalizer) Instant(d Date, t TimeOfDay) time.Time {
	if d.Year == 0 || (t.Hour == 0 && t.Minute == 0) {
		return epoch
	}
	utc := time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
	return utc.Add(n.Offset)
}

// Normalize formats Instant with TimestampLayout.
func (n Normalizer) Normalize(d Date, t TimeOfDay) string {
	return n.Instant(d, t).Format(TimestampLayout)
}
