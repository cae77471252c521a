//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pin int) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (bool, error) {
	return false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// PeriphReader is not available on non-Linux platforms.
type PeriphReader struct{}

// NewPeriphReader returns an error on non-Linux platforms.
func NewPeriphReader(pin int) (*PeriphReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *PeriphReader) Read() (bool, error) {
	return false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *PeriphReader) Close() error {
	return nil
}
