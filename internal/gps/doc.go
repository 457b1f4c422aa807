// Package gps owns byte acquisition from a GNSS receiver and hands each read
// to the nmea parser.
//
// Sources:
//   - serial: a USB/UART receiver (termios on Linux, jacobsa/go-serial elsewhere)
//   - gpsd: raw NMEA relayed by a local gpsd
//   - replay: a capture file written by the recorder
//   - sim: a simulated receiver flying a figure-eight
//
// Each read is at most one nmea.RawBuffer and is parsed on its own. Decoded
// fixes are published to the configured sinks and kept in a Snapshot.
package gps
