package udp

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"paracletus/internal/nmea"
)

type fakeConn struct {
	writes    [][]byte
	writeErr  error
	closed    bool
	closeErr  error
	writeHits int
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.writeHits++
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	cp := append([]byte(nil), p...)
	c.writes = append(c.writes, cp)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return c.closeErr
}

func TestNewBroadcaster_DialsResolvedAddr(t *testing.T) {
	var gotNetwork string
	var gotRaddr *net.UDPAddr
	fc := &fakeConn{}

	resolve := func(network, address string) (*net.UDPAddr, error) {
		return net.ResolveUDPAddr(network, address)
	}

	dial := func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		gotNetwork = network
		gotRaddr = raddr
		return fc, nil
	}

	b, err := newBroadcaster("127.0.0.1:4000", resolve, dial)
	if err != nil {
		t.Fatalf("newBroadcaster() error: %v", err)
	}
	defer b.Close()

	if gotNetwork != "udp" {
		t.Fatalf("network=%q want %q", gotNetwork, "udp")
	}
	if gotRaddr == nil || gotRaddr.Port != 4000 || !gotRaddr.IP.Equal(net.IPv4(127, 0, 0, 1)) {
		t.Fatalf("raddr=%v want 127.0.0.1:4000", gotRaddr)
	}
}

func TestNewBroadcaster_ResolveFailure(t *testing.T) {
	resolveErr := errors.New("nope")
	resolve := func(network, address string) (*net.UDPAddr, error) {
		return nil, resolveErr
	}
	dial := func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return &fakeConn{}, nil
	}

	_, err := newBroadcaster("bad:addr", resolve, dial)
	if !errors.Is(err, resolveErr) {
		t.Fatalf("err=%v want %v", err, resolveErr)
	}
}

func TestBroadcaster_Send_EmptyNoWrite(t *testing.T) {
	fc := &fakeConn{}
	b := &Broadcaster{dest: "x", conn: fc}

	if err := b.Send(nil); err != nil {
		t.Fatalf("Send(nil) error: %v", err)
	}
	if err := b.Send([]byte{}); err != nil {
		t.Fatalf("Send(empty) error: %v", err)
	}
	if fc.writeHits != 0 {
		t.Fatalf("expected no writes, got %d", fc.writeHits)
	}
}

func TestBroadcaster_Send_WritesPayload(t *testing.T) {
	fc := &fakeConn{}
	b := &Broadcaster{dest: "x", conn: fc}

	p := []byte{0x01, 0x02, 0x03}
	if err := b.Send(p); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if fc.writeHits != 1 {
		t.Fatalf("expected 1 write, got %d", fc.writeHits)
	}
	if len(fc.writes) != 1 {
		t.Fatalf("expected 1 captured write, got %d", len(fc.writes))
	}
	if string(fc.writes[0]) != string(p) {
		t.Fatalf("write=%v want %v", fc.writes[0], p)
	}
}

func TestBroadcaster_Send_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	fc := &fakeConn{writeErr: wantErr}
	b := &Broadcaster{dest: "x", conn: fc}

	err := b.Send([]byte{0x01})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
}

func TestBroadcaster_Close_NilConnNoPanic(t *testing.T) {
	b := &Broadcaster{}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestNewBroadcaster_DialFailure(t *testing.T) {
	dialErr := errors.New("unreachable")
	resolve := func(network, address string) (*net.UDPAddr, error) {
		return net.ResolveUDPAddr(network, address)
	}
	dial := func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return nil, dialErr
	}

	_, err := newBroadcaster("127.0.0.1:4000", resolve, dial)
	if !errors.Is(err, dialErr) {
		t.Fatalf("err=%v want %v", err, dialErr)
	}
}

func TestBroadcaster_Publish_EncodesFix(t *testing.T) {
	fc := &fakeConn{}
	b := &Broadcaster{dest: "x", conn: fc}

	fix := nmea.Fix{
		Code:      "GPRMC",
		Latitude:  48.1173,
		Longitude: 11.516667,
		Timestamp: "2094-03-23 09:35:19",
		Valid:     true,
		Checksum:  "6A",
	}
	if err := b.Publish(fix); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(fc.writes) != 1 {
		t.Fatalf("expected 1 captured write, got %d", len(fc.writes))
	}

	var got map[string]any
	if err := json.Unmarshal(fc.writes[0], &got); err != nil {
		t.Fatalf("datagram is not JSON: %v", err)
	}
	if got["code"] != "GPRMC" || got["timestamp"] != "2094-03-23 09:35:19" || got["valid"] != true {
		t.Fatalf("datagram=%v", got)
	}
	if lat, _ := got["lat"].(float64); lat != 48.1173 {
		t.Fatalf("lat=%v want 48.1173", got["lat"])
	}
}

func TestBroadcaster_Publish_WrapsSendError(t *testing.T) {
	wantErr := errors.New("boom")
	b := &Broadcaster{dest: "x", conn: &fakeConn{writeErr: wantErr}}

	err := b.Publish(nmea.Fix{Code: "GPRMC"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
}

func TestBroadcaster_LoopbackDelivery(t *testing.T) {
	ln, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	b, err := NewBroadcaster(ln.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewBroadcaster() error: %v", err)
	}
	defer b.Close()

	if err := b.Publish(nmea.Fix{Code: "GNRMC"}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	_ = ln.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 2048)
	n, _, err := ln.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got nmea.Fix
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Code != "GNRMC" {
		t.Fatalf("code=%q want GNRMC", got.Code)
	}
}
