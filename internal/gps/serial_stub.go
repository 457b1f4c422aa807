//go:build !linux

package gps

import (
	"fmt"
	"io"
)

const defaultDriver = driverJacobsa

func openTermios(path string, baud int) (io.ReadWriteCloser, error) {
	return nil, fmt.Errorf("termios serial driver not supported on this platform")
}
