// Package sim emulates a GPS receiver that flies a figure-eight and reports
// it as RMC sentences.
package sim

import (
	"fmt"
	"math"
	"strings"
	"time"

	"paracletus/internal/nmea"
)

type Receiver struct {
	CenterLatDeg float64
	CenterLonDeg float64
	RadiusNm     float64
	Period       time.Duration
	// Talker prefixes the sentence code; empty means "GP".
	Talker string
}

func (r Receiver) period() time.Duration {
	if r.Period <= 0 {
		return 120 * time.Second
	}
	return r.Period
}

func (r Receiver) radiusNm() float64 {
	if r.RadiusNm <= 0 {
		return 0.5
	}
	return r.RadiusNm
}

func (r Receiver) phase(now time.Time) float64 {
	p := r.period()
	return 2 * math.Pi * float64(now.UnixNano()%p.Nanoseconds()) / float64(p.Nanoseconds())
}

// Position returns a deterministic figure-eight (Lissajous) path around the
// center that stays within the radius.
//
//	x = cos(w)       east-west, scaled by cos(lat) for longitude
//	y = 0.5*sin(2w)  north-south
func (r Receiver) Position(now time.Time) (latDeg, lonDeg, trackDeg float64) {
	// ~60 NM per degree of latitude.
	radiusDeg := r.radiusNm() / 60.0
	w := r.phase(now)

	latDeg = r.CenterLatDeg + radiusDeg*0.5*math.Sin(2*w)
	lonDeg = r.CenterLonDeg + (radiusDeg*math.Cos(w))/math.Cos(r.CenterLatDeg*math.Pi/180.0)

	vx, vy := velocity(w)
	trackDeg = math.Mod(math.Atan2(vx, vy)*180/math.Pi+360, 360)
	return latDeg, lonDeg, trackDeg
}

// SpeedKnots is the instantaneous ground speed along the path.
func (r Receiver) SpeedKnots(now time.Time) float64 {
	vx, vy := velocity(r.phase(now))
	nmPerPeriod := r.radiusNm() * math.Hypot(vx, vy)
	return nmPerPeriod / r.period().Hours()
}

// velocity is d(x,y)/d(phase) in radius units per period.
func velocity(w float64) (vx, vy float64) {
	return -2 * math.Pi * math.Sin(w), 2 * math.Pi * math.Cos(2*w)
}

// RMC renders the position at now as a checksummed sentence terminated by
// CRLF.
func (r Receiver) RMC(now time.Time) string {
	now = now.UTC()
	lat, lon, trk := r.Position(now)
	talker := r.Talker
	if talker == "" {
		talker = "GP"
	}

	latText, ns := dm(lat, 2, "N", "S")
	lonText, ew := dm(lon, 3, "E", "W")
	fields := []string{
		talker + "RMC",
		now.Format("150405") + fmt.Sprintf(".%02d", now.Nanosecond()/1e7),
		"A",
		latText, ns,
		lonText, ew,
		fmt.Sprintf("%.1f", r.SpeedKnots(now)),
		fmt.Sprintf("%.1f", trk),
		now.Format("020106"),
		"", "",
	}
	return nmea.AppendChecksum(strings.Join(fields, ",")) + "\r\n"
}

// dm formats decimal degrees as (d)ddmm.mmmm plus hemisphere.
func dm(v float64, degWidth int, pos, neg string) (string, string) {
	hemi := pos
	if v < 0 {
		hemi = neg
		v = -v
	}
	deg := math.Floor(v)
	mins := math.Round((v-deg)*60*1e4) / 1e4
	if mins >= 60 {
		deg++
		mins = 0
	}
	return fmt.Sprintf("%0*d%07.4f", degWidth, int(deg), mins), hemi
}
