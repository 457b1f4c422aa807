package sim

import (
	"math"
	"strings"
	"testing"
	"time"

	gonmea "github.com/adrianmo/go-nmea"

	"paracletus/internal/nmea"
)

func TestReceiver_Position_Invariants(t *testing.T) {
	r := Receiver{
		CenterLatDeg: 45.0,
		CenterLonDeg: -122.0,
		RadiusNm:     1.0,
		Period:       60 * time.Second,
	}

	start := time.Date(2025, 12, 20, 19, 0, 0, 0, time.UTC)
	radiusDeg := r.RadiusNm / 60.0
	maxLonDeg := radiusDeg / math.Cos(r.CenterLatDeg*math.Pi/180.0)
	for i := 0; i < 60; i++ {
		lat, lon, trk := r.Position(start.Add(time.Duration(i) * time.Second))
		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(trk) {
			t.Fatalf("i=%d nan: %v %v %v", i, lat, lon, trk)
		}
		if trk < 0 || trk >= 360 {
			t.Fatalf("i=%d track out of range: %v", i, trk)
		}
		if math.Abs(lat-r.CenterLatDeg) > radiusDeg*1.01 {
			t.Fatalf("i=%d lat offset too large: %f", i, math.Abs(lat-r.CenterLatDeg))
		}
		if math.Abs(lon-r.CenterLonDeg) > maxLonDeg*1.01 {
			t.Fatalf("i=%d lon offset too large: %f", i, math.Abs(lon-r.CenterLonDeg))
		}
	}
}

func TestReceiver_Position_DeterministicForNow(t *testing.T) {
	r := Receiver{CenterLatDeg: 1, CenterLonDeg: 2, RadiusNm: 0.5, Period: 120 * time.Second}
	now := time.Date(2025, 12, 20, 19, 0, 0, 123, time.UTC)

	lat1, lon1, trk1 := r.Position(now)
	lat2, lon2, trk2 := r.Position(now)
	if lat1 != lat2 || lon1 != lon2 || trk1 != trk2 {
		t.Fatalf("expected deterministic result for same now")
	}
}

func TestDM(t *testing.T) {
	cases := []struct {
		v         float64
		width     int
		want, hem string
	}{
		{48.1173, 2, "4807.0380", "N"},
		{-33.5, 2, "3330.0000", "S"},
		{11.516667, 3, "01131.0000", "E"},
		{-0.999999999, 3, "00100.0000", "W"},
	}
	for _, tc := range cases {
		got, hem := dm(tc.v, tc.width, "N", "S")
		if tc.width == 3 {
			got, hem = dm(tc.v, tc.width, "E", "W")
		}
		if got != tc.want || hem != tc.hem {
			t.Fatalf("dm(%v)=%q,%q want %q,%q", tc.v, got, hem, tc.want, tc.hem)
		}
	}
}

// The simulated sentence must survive the full parse pipeline.
func TestReceiver_RMC_RoundTrip(t *testing.T) {
	r := Receiver{CenterLatDeg: -34.6, CenterLonDeg: -58.4, RadiusNm: 2, Period: 90 * time.Second}
	p := nmea.NewParser(nil, 0)

	start := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		now := start.Add(time.Duration(i) * 3 * time.Second)
		sentence := r.RMC(now)
		if !strings.HasSuffix(sentence, "\r\n") {
			t.Fatalf("sentence %q lacks CRLF", sentence)
		}

		var buf nmea.RawBuffer
		if n := buf.Fill([]byte(sentence)); n != len(sentence) {
			t.Fatalf("sentence len=%d exceeds buffer", len(sentence))
		}
		fix, err := p.Parse(buf[:])
		if err != nil {
			t.Fatalf("Parse(%q): %v", sentence, err)
		}
		lat, lon, _ := r.Position(now)
		if math.Abs(fix.Latitude-lat) > 1e-5 || math.Abs(fix.Longitude-lon) > 1e-5 {
			t.Fatalf("fix=(%v,%v) want (%v,%v)", fix.Latitude, fix.Longitude, lat, lon)
		}
		if fix.Timestamp != now.Format(nmea.TimestampLayout) {
			t.Fatalf("timestamp=%q want %q", fix.Timestamp, now.Format(nmea.TimestampLayout))
		}
		if fix.Code != "GPRMC" || !fix.Valid {
			t.Fatalf("code=%q valid=%v", fix.Code, fix.Valid)
		}
	}
}

func TestReceiver_RMC_MatchesGoNMEA(t *testing.T) {
	r := Receiver{CenterLatDeg: 48.1, CenterLonDeg: 11.5, Talker: "GN"}
	now := time.Date(2025, 6, 1, 14, 30, 15, 500_000_000, time.UTC)

	s, err := gonmea.Parse(strings.TrimSpace(r.RMC(now)))
	if err != nil {
		t.Fatalf("gonmea.Parse: %v", err)
	}
	rmc, ok := s.(gonmea.RMC)
	if !ok {
		t.Fatalf("type=%T want RMC", s)
	}
	if rmc.Talker != "GN" || rmc.Validity != gonmea.ValidRMC {
		t.Fatalf("talker=%q validity=%q", rmc.Talker, rmc.Validity)
	}
	if rmc.Time.Hour != 14 || rmc.Time.Minute != 30 || rmc.Time.Second != 15 || rmc.Time.Millisecond != 500 {
		t.Fatalf("time=%v", rmc.Time)
	}
	if rmc.Date.DD != 1 || rmc.Date.MM != 6 || rmc.Date.YY != 25 {
		t.Fatalf("date=%v", rmc.Date)
	}
	if math.Abs(rmc.Speed-r.SpeedKnots(now)) > 0.05 {
		t.Fatalf("speed=%v want %v", rmc.Speed, r.SpeedKnots(now))
	}
}
