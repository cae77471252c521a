// Package console writes the sensor's message lines to a serial port or
// any other text stream.
package console

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// Line terminators.
const (
	CRLF = "\r\n" // serial, matches Arduino-style println
	LF   = "\n"
)

// DefaultBaud is the serial rate used by the sensor firmware.
const DefaultBaud = 115200

// Console writes one message per line.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	eol    string
	lines  int
}

// New wraps w with LF line endings. Close does not close w.
func New(w io.Writer) *Console {
	return &Console{w: w, eol: LF}
}

// OpenSerial opens the named port at the given baud rate (8N1) and returns a
// Console using CRLF line endings.
func OpenSerial(port string, baud int) (*Console, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}

	return &Console{w: p, closer: p, eol: CRLF}, nil
}

// Println writes msg followed by the line terminator as a single write.
func (c *Console) Println(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := io.WriteString(c.w, msg+c.eol); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	c.lines++
	return nil
}

// Lines returns the number of lines successfully written.
func (c *Console) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines
}

// Close releases the underlying port, if this Console opened one.
func (c *Console) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
