// Package monitor is a minimal serial console for watching sketch output
// after an upload.
package monitor

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Test seam for opening the device.
var openPort = serial.Open

// Run opens portName at baud (8N1) and copies port output to out and input
// from in to the port until ctx is cancelled or either side closes. If in is
// an io.Closer it is closed when Run returns; a blocked stdin read has no
// other unblock path, so the input goroutine would leak otherwise.
func Run(ctx context.Context, portName string, baud int, in io.Reader, out io.Writer) error {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := openPort(portName, mode)
	if err != nil {
		return fmt.Errorf("open %s at %d baud: %w", portName, baud, err)
	}
	defer func() {
		if c, ok := in.(io.Closer); ok {
			c.Close()
		}
	}()

	done := make(chan error, 2)

	go func() {
		_, err := io.Copy(out, port)
		done <- err
	}()
	if in != nil {
		go func() {
			_, err := io.Copy(port, in)
			done <- err
		}()
	}

	select {
	case <-ctx.Done():
		port.Close()
		return ctx.Err()
	case err := <-done:
		port.Close()
		if err != nil && err != io.EOF {
			return fmt.Errorf("serial monitor: %w", err)
		}
		return nil
	}
}
