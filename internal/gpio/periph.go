//go:build linux

package gpio

import (
	"fmt"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphReader reads the sensor pin through periph.io's host drivers.
// Useful on boards where the pin is not exposed on gpiochip0.
type PeriphReader struct {
	pin pgpio.PinIO
}

// NewPeriphReader initialises the periph host and configures GPIO<pin>
// as a floating input.
func NewPeriphReader(pin int) (*PeriphReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pin %s not found", name)
	}

	if err := p.In(pgpio.Float, pgpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", name, err)
	}

	return &PeriphReader{pin: p}, nil
}

// Read returns the raw level of the sensor pin (true = HIGH).
func (r *PeriphReader) Read() (bool, error) {
	return r.pin.Read() == pgpio.High, nil
}

// Close releases the pin.
func (r *PeriphReader) Close() error {
	if err := r.pin.Halt(); err != nil {
		return fmt.Errorf("halt %s: %w", r.pin.Name(), err)
	}
	return nil
}
