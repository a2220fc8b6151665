// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"strconv"
	"strings"
)

// LoopPorts helper to prevent storing entire list in memory. Each entry
// is either a single port or an inclusive range i.e. 8000-8010.
func LoopPorts(ports []string, f func(p uint16) error) error {
	for _, strPort := range ports {
		strPort = strings.TrimSpace(strPort)

		if strings.Contains(strPort, "-") {
			parts := strings.Split(strPort, "-")

			if len(parts) != 2 {
				return fmt.Errorf("invalid port: %s", strPort)
			}

			start, err := parsePort(parts[0])

			if err != nil {
				return fmt.Errorf("invalid port: %s", strPort)
			}

			end, err := parsePort(parts[1])

			if err != nil || end < start {
				return fmt.Errorf("invalid port: %s", strPort)
			}

			for i := int(start); i <= int(end); i++ {
				if err := f(uint16(i)); err != nil {
					return err
				}
			}
		} else {
			p, err := parsePort(strPort)

			if err != nil {
				return fmt.Errorf("invalid port: %s", strPort)
			}

			if err := f(p); err != nil {
				return err
			}
		}
	}

	return nil
}

// ParsePorts expands a list of ports and port ranges into a de-duplicated
// list of ports preserving first-seen order
func ParsePorts(ports []string) ([]uint16, error) {
	result := []uint16{}

	err := LoopPorts(ports, func(p uint16) error {
		if !SliceIncludes(result, p) {
			result = append(result, p)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func parsePort(s string) (uint16, error) {
	p, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)

	if err != nil {
		return 0, err
	}

	if p == 0 {
		return 0, fmt.Errorf("invalid port: %s", s)
	}

	return uint16(p), nil
}
