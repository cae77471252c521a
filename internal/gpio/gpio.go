// Package gpio provides GPIO input reading with hardware abstraction.
// The real implementations use the Linux GPIO character device (gpiocdev)
// or periph.io. The fake implementation allows testing without hardware.
package gpio

// Reader reads the raw level of the Hall sensor pin.
type Reader interface {
	// Read returns the raw pin level: true = HIGH, false = LOW.
	// No inversion is applied; the sensor is active-low and callers map
	// LOW to "magnet present".
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendCdev   = "gpiocdev"
	BackendPeriph = "periph"
)

// Defaults matching the sensor wiring (3144 OUT on GPIO 34).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 34
)

// Level aliases for scripting fakes.
const (
	Low  = false
	High = true
)
