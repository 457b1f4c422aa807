// Package led drives a GPIO "fix" indicator: lit while the last decoded fix is
// valid.
package led

import (
	"fmt"
	"sync"
)

// gpioLine is a single requested output line.
type gpioLine interface {
	SetValue(v int) error
	Close() error
}

type LED struct {
	mu    sync.Mutex
	pin   int
	line  gpioLine
	on    bool
	known bool
}

// Open requests BCM GPIO pin as an output, initially off.
func Open(pin int) (*LED, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("led: invalid gpio pin %d", pin)
	}
	line, err := openLineFn(pin)
	if err != nil {
		return nil, err
	}
	return &LED{pin: pin, line: line, known: true}, nil
}

func (l *LED) Pin() int { return l.pin }

// Set drives the line. Repeated calls with the same state do not touch the
// hardware.
func (l *LED) Set(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.line == nil {
		return fmt.Errorf("led: closed")
	}
	if l.known && l.on == on {
		return nil
	}
	v := 0
	if on {
		v = 1
	}
	if err := l.line.SetValue(v); err != nil {
		l.known = false
		return fmt.Errorf("led: gpio%d: %w", l.pin, err)
	}
	l.on = on
	l.known = true
	return nil
}

// Close turns the LED off and releases the line.
func (l *LED) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.line == nil {
		return nil
	}
	_ = l.line.SetValue(0)
	err := l.line.Close()
	l.line = nil
	return err
}
