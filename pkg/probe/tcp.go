// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thediveo/netdb"

	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

// netdb lookups are not safe for concurrent use
var serviceQueryMux sync.Mutex

// Port data structure representing an open tcp port
type Port struct {
	ID      uint16 `json:"id"`
	Service string `json:"service"`
}

func (p Port) String() string {
	if p.Service == "" {
		return strconv.Itoa(int(p.ID))
	}

	return fmt.Sprintf("%d/%s", p.ID, p.Service)
}

// TCPHit hit payload of the tcp connect probe
type TCPHit struct {
	Ports []Port `json:"ports"`
}

// Header implements Finding
func (h TCPHit) Header() []string {
	return []string{"Open Ports"}
}

// Row implements Finding
func (h TCPHit) Row() []string {
	ports := make([]string, 0, len(h.Ports))

	for _, p := range h.Ports {
		ports = append(ports, p.String())
	}

	return []string{strings.Join(ports, ", ")}
}

type tcpConfig struct {
	timeout time.Duration
}

// TCPOption represents an option for the tcp connect probe
type TCPOption = func(c *tcpConfig)

// WithTCPTimeout sets the dial timeout per port
func WithTCPTimeout(d time.Duration) TCPOption {
	return func(c *tcpConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// TCP returns a probe that attempts a full tcp connect to each port in
// turn. An address is a hit when at least one port accepts.
func TCP(ports []uint16, options ...TCPOption) scanner.Probe[TCPHit, scanner.Empty] {
	conf := &tcpConfig{timeout: defaultTimeout}

	for _, o := range options {
		o(conf)
	}

	dialer := &net.Dialer{Timeout: conf.timeout}

	return func(ctx context.Context, address string) (scanner.Conclusion[TCPHit, scanner.Empty], error) {
		addr, err := parseAddress(address)

		if err != nil {
			return scanner.Conclusion[TCPHit, scanner.Empty]{}, err
		}

		open := []Port{}

		for _, port := range ports {
			conn, err := dialer.DialContext(
				ctx,
				"tcp",
				net.JoinHostPort(addr.String(), strconv.Itoa(int(port))),
			)

			if ctx.Err() != nil {
				if conn != nil {
					conn.Close()
				}

				return scanner.Conclusion[TCPHit, scanner.Empty]{}, ctx.Err()
			}

			if err != nil {
				continue
			}

			conn.Close()

			open = append(open, Port{ID: port, Service: serviceName(port)})
		}

		if len(open) == 0 {
			return scanner.Miss[TCPHit](scanner.Empty{}), nil
		}

		return scanner.Hit[TCPHit, scanner.Empty](TCPHit{Ports: open}), nil
	}
}

func serviceName(port uint16) string {
	serviceQueryMux.Lock()
	defer serviceQueryMux.Unlock()

	service := netdb.ServiceByPort(int(port), "tcp")

	if service == nil {
		return ""
	}

	return service.Name
}
