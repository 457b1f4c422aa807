//go:build linux && (arm || arm64)

package led

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// openLine finds the named header line ("GPIO17") on any gpiochip and
// requests it as an output through the GPIO character device.
func openLine(pin int) (gpioLine, error) {
	lineName := fmt.Sprintf("GPIO%d", pin)

	// Pi 5 kernels may expose the header on gpiochip4.
	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("paracletus-fix"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &chipLine{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("led: gpio line %q not found (or busy)", lineName)
}

var openLineFn = openLine

type chipLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (c *chipLine) SetValue(v int) error {
	return c.line.SetValue(v)
}

func (c *chipLine) Close() error {
	err := c.line.Close()
	_ = c.chip.Close()
	return err
}
