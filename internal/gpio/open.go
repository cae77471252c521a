package gpio

import "fmt"

// Open returns a Reader for the named backend.
// The chip name is only used by the gpiocdev backend.
func Open(backend, chip string, pin int) (Reader, error) {
	switch backend {
	case BackendCdev, "":
		r, err := NewRealReader(chip, pin)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendPeriph:
		r, err := NewPeriphReader(pin)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown gpio backend %q", backend)
	}
}
