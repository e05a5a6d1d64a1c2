package ports

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrNotFound indicates no usable serial device node.
var ErrNotFound = errors.New("serial port not found")

// CH340 clones enumerate with this USB vendor/product pair.
const (
	ch340VID = "1A86"
	ch340PID = "7523"
)

// Candidates is the fixed scan order for auto-detection: the two ttyUSB nodes
// the CH340 driver creates, then the ttyACM nodes used by boards with native
// USB.
var Candidates = []string{
	"/dev/ttyUSB0",
	"/dev/ttyUSB1",
	"/dev/ttyACM0",
	"/dev/ttyACM1",
}

// Test seams.
var (
	statPort       = os.Stat
	enumeratePorts = enumerator.GetDetailedPortsList
)

// Info describes one enumerated serial port.
type Info struct {
	Name         string `json:"name"`
	IsUSB        bool   `json:"is_usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	IsCH340      bool   `json:"is_ch340"`
}

// Validate checks that an explicitly supplied port exists as a device node.
func Validate(port string) error {
	if _, err := statPort(port); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrNotFound, port)
		}
		return fmt.Errorf("stat port %s: %w", port, err)
	}
	return nil
}

// Detect returns the first existing candidate device node, in list order.
// When none exists it cross-checks the USB enumeration for a CH340 signature
// to sharpen the diagnostic.
func Detect(candidates []string) (string, error) {
	if len(candidates) == 0 {
		candidates = Candidates
	}

	for _, port := range candidates {
		if _, err := statPort(port); err == nil {
			return port, nil
		}
	}

	if ch340Present() {
		return "", fmt.Errorf("%w: a CH340 USB-serial adapter is enumerated but no candidate device node exists (checked %s); check the ch341 driver and that your user is in the dialout group",
			ErrNotFound, strings.Join(candidates, ", "))
	}
	return "", fmt.Errorf("%w: no device on %s; is the board plugged in?",
		ErrNotFound, strings.Join(candidates, ", "))
}

// List enumerates serial ports with USB metadata.
func List() ([]Info, error) {
	detailed, err := enumeratePorts()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	var result []Info
	for _, p := range detailed {
		result = append(result, Info{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			IsCH340:      isCH340(p.VID, p.PID),
		})
	}
	return result, nil
}

func isCH340(vid, pid string) bool {
	return strings.EqualFold(vid, ch340VID) && strings.EqualFold(pid, ch340PID)
}

func ch340Present() bool {
	detailed, err := enumeratePorts()
	if err != nil {
		return false
	}
	for _, p := range detailed {
		if p.IsUSB && isCH340(p.VID, p.PID) {
			return true
		}
	}
	return false
}
