package bus

import (
	"fmt"
	"net/url"
	"strconv"
)

type endpoint struct {
	scheme string
	path   string
	addr   uint16
	baud   int
	query  url.Values
}

func parseURL(rawURL string) (ep endpoint, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ep, fmt.Errorf("invalid bus URL %q: %w", rawURL, err)
	}
	ep.scheme, ep.path, ep.query = u.Scheme, u.Path, u.Query()
	switch u.Scheme {
	case "i2c", "":
		ep.scheme = "i2c"
		if ep.path == "" {
			ep.path = DefaultI2CPath
		}
		addr, err := queryUint(ep.query, "addr", DefaultI2CAddr, 0x7f)
		if err != nil {
			return ep, err
		}
		ep.addr = uint16(addr)
	case "serial":
		if ep.path == "" {
			return ep, fmt.Errorf("serial device path required in %q", rawURL)
		}
		baud, err := queryUint(ep.query, "baud", DefaultSerialBaud, 4000000)
		if err != nil {
			return ep, err
		}
		ep.baud = int(baud)
	case "sim":
		if _, err := simFromQuery(ep.query); err != nil {
			return ep, err
		}
	default:
		return ep, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	return ep, nil
}

// CheckURL validates a bus URL without opening the device.
func CheckURL(rawURL string) error {
	_, err := parseURL(rawURL)
	return err
}

// Open opens a transport by URL:
//
//	i2c:///dev/i2c-1?addr=0x50
//	serial:///dev/ttyUSB0?baud=115200
//	sim://?tuner=473&a=0&b=0&c=0&switch=0
//
// A bare path is an I2C device node.
func Open(rawURL string, opts ...Option) (Transport, error) {
	ep, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch ep.scheme {
	case "serial":
		return OpenSerial(ep.path, ep.baud, opts...)
	case "sim":
		dev, err := simFromQuery(ep.query)
		if err != nil {
			return nil, err
		}
		return dev, nil
	}
	return OpenI2C(ep.path, ep.addr, opts...)
}

func queryUint(q url.Values, key string, def, max uint64) (uint64, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if v > max {
		return 0, fmt.Errorf("%s %d out of range", key, v)
	}
	return v, nil
}
