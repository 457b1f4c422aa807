package gps

import (
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
)

const (
	driverTermios = "termios"
	driverJacobsa = "jacobsa"
)

// openJacobsa opens path in 8N1 mode through jacobsa/go-serial.
func openJacobsa(path string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		return nil, fmt.Errorf("unsupported baud %d", baud)
	}
	return serial.Open(serial.OpenOptions{
		PortName:              path,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       1,
		InterCharacterTimeout: 0,
	})
}

func openSerial(driver, path string, baud int) (io.ReadWriteCloser, error) {
	if driver == "" {
		driver = defaultDriver
	}
	switch driver {
	case driverTermios:
		return openTermios(path, baud)
	case driverJacobsa:
		return openJacobsa(path, baud)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", driver)
	}
}

var openSerialFn = openSerial
