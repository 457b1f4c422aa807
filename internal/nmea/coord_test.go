package nmea

import (
	"errors"
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestDecodeCoordinate(t *testing.T) {
	cases := []struct {
		name string
		text string
		hemi string
		axis Axis
		want float64
	}{
		{name: "North", text: "4807.038", hemi: "N", axis: Latitude, want: 48.1173},
		{name: "South", text: "4807.038", hemi: "S", axis: Latitude, want: -48.1173},
		{name: "East", text: "01131.000", hemi: "E", axis: Longitude, want: 11.516667},
		{name: "West", text: "01131.000", hemi: "W", axis: Longitude, want: -11.516667},
		{name: "HighPrecision", text: "2332.8732", hemi: "S", axis: Latitude, want: -23.54789},
		{name: "ThreeDigitDegrees", text: "17959.9999", hemi: "W", axis: Longitude, want: -179.999998},
		{name: "ZeroDegrees", text: "0030.000", hemi: "N", axis: Latitude, want: 0.5},
		{name: "NoFraction", text: "4807.", hemi: "N", axis: Latitude, want: 48.116667},
		// Only S/W flip the sign.
		{name: "UnknownHemisphere", text: "4807.038", hemi: "", axis: Latitude, want: 48.1173},
		{name: "WrongAxisLetter", text: "4807.038", hemi: "W", axis: Latitude, want: 48.1173},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeCoordinate(tc.text, tc.hemi, tc.axis)
			if err != nil {
				t.Fatalf("DecodeCoordinate() error: %v", err)
			}
			if !near(got, tc.want, 1e-4) {
				t.Fatalf("got %f want %f", got, tc.want)
			}
		})
	}
}

func TestDecodeCoordinate_Malformed(t *testing.T) {
	cases := []struct {
		name string
		text string
		axis Axis
	}{
		{name: "Empty", text: "", axis: Latitude},
		{name: "NoDot", text: "4807038", axis: Latitude},
		{name: "DotTooEarly", text: "7.038", axis: Latitude},
		{name: "NoDegrees", text: "07.038", axis: Latitude},
		{name: "Letters", text: "48O7.038", axis: Latitude},
		{name: "Signed", text: "-4807.038", axis: Latitude},
		{name: "TwoDots", text: "4807.03.8", axis: Latitude},
		{name: "MinutesOverflow", text: "4875.000", axis: Latitude},
		{name: "LatitudeRange", text: "9100.000", axis: Latitude},
		{name: "LongitudeRange", text: "18100.000", axis: Longitude},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCoordinate(tc.text, "N", tc.axis)
			if !errors.Is(err, ErrMalformedCoordinate) {
				t.Fatalf("err=%v want %v", err, ErrMalformedCoordinate)
			}
		})
	}
}

func TestDecodeCoordinate_MonotonicInMagnitude(t *testing.T) {
	prev := -1.0
	for _, text := range []string{"0000.000", "0000.001", "0059.999", "0100.000", "4807.038", "8959.999"} {
		v, err := DecodeCoordinate(text, "N", Latitude)
		if err != nil {
			t.Fatalf("DecodeCoordinate(%q) error: %v", text, err)
		}
		if v <= prev {
			t.Fatalf("DecodeCoordinate(%q)=%f not above %f", text, v, prev)
		}
		s, _ := DecodeCoordinate(text, "S", Latitude)
		if s != -v {
			t.Fatalf("S=%f want %f", s, -v)
		}
		prev = v
	}
}
