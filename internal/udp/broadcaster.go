// Package udp sends decoded fixes as JSON datagrams.
package udp

import (
	"encoding/json"
	"fmt"
	"net"

	"paracletus/internal/nmea"
)

type udpConn interface {
	Write(p []byte) (int, error)
	Close() error
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)

type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

type Broadcaster struct {
	dest string
	conn udpConn
}

func NewBroadcaster(dest string) (*Broadcaster, error) {
	return newBroadcaster(dest, net.ResolveUDPAddr, func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	})
}

func newBroadcaster(dest string, resolve resolveFunc, dial dialFunc) (*Broadcaster, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Broadcaster{
		dest: dest,
		conn: conn,
	}, nil
}

func (b *Broadcaster) Dest() string { return b.dest }

func (b *Broadcaster) Send(payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	_, err := b.conn.Write(payload)
	return err
}

// Publish sends fix as a single JSON datagram.
func (b *Broadcaster) Publish(fix nmea.Fix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("encode fix: %w", err)
	}
	if err := b.Send(payload); err != nil {
		return fmt.Errorf("udp send %s: %w", b.dest, err)
	}
	return nil
}

func (b *Broadcaster) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
