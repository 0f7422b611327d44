package flagutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Port checks that v fits in a UDP port number
func Port(v uint) (uint16, error) {
	if v > 65535 {
		return 0, fmt.Errorf("port %d out of range", v)
	}
	return uint16(v), nil
}

// Ports parses each value as a port; comma separated values are split
func Ports(values []string) ([]uint16, error) {
	var out []uint16

	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}

			p, err := strconv.ParseUint(s, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", s, err)
			}

			out = append(out, uint16(p))
		}
	}

	return out, nil
}
