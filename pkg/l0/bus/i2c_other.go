//go:build !linux

package bus

// OpenI2C is only available on linux.
func OpenI2C(path string, addr uint16, opts ...Option) (Transport, error) {
	return nil, ErrUnsupported
}
