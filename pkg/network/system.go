// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/robgonnella/go-netsweep/internal/logger"
)

// ErrWatchClosed returned when an interface watch ends before it was asked to
var ErrWatchClosed = errors.New("interface watch closed unexpectedly")

const defaultWatchInterval = time.Second * 2

// SourceOption represents an option for SystemInterfaces
type SourceOption = func(s *SystemInterfaces)

// WithWatchInterval sets how often interfaces are polled for changes
func WithWatchInterval(d time.Duration) SourceOption {
	return func(s *SystemInterfaces) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSnapshotLister replaces the function used to read interface
// snapshots. Defaults to reading from the operating system.
func WithSnapshotLister(list func() ([]Snapshot, error)) SourceOption {
	return func(s *SystemInterfaces) {
		s.list = list
	}
}

// SystemInterfaces implements the InterfaceSource interface using the
// operating system's interface table. Changes are detected by polling and
// diffing consecutive snapshots.
type SystemInterfaces struct {
	interval time.Duration
	list     func() ([]Snapshot, error)
	debug    logger.DebugLogger
}

// NewSystemInterfaces returns a new instance of SystemInterfaces
func NewSystemInterfaces(options ...SourceOption) *SystemInterfaces {
	s := &SystemInterfaces{
		interval: defaultWatchInterval,
		list:     listSystemSnapshots,
		debug:    logger.NewDebugLogger(),
	}

	for _, o := range options {
		o(s)
	}

	return s
}

// Interfaces implements the InterfaceSource Interfaces method
func (s *SystemInterfaces) Interfaces() ([]Snapshot, error) {
	snapshots, err := s.list()

	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	return snapshots, nil
}

// Watch implements the InterfaceSource Watch method. The first poll
// establishes a baseline; only differences from it are reported.
func (s *SystemInterfaces) Watch(ctx context.Context, events chan<- ChangeEvent) error {
	prev, err := s.Interfaces()

	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next, err := s.Interfaces()

			if err != nil {
				return err
			}

			for _, evt := range diffSnapshots(prev, next) {
				s.debug.Debug().
					Str("interface", evt.Snapshot.Name).
					Str("kind", string(evt.Kind)).
					Str("changed", evt.Changed.String()).
					Msg("interface change detected")

				select {
				case <-ctx.Done():
					return nil
				case events <- evt:
				}
			}

			prev = next
		}
	}
}

func listSystemSnapshots() ([]Snapshot, error) {
	interfaces, err := net.Interfaces()

	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(interfaces))

	for _, iface := range interfaces {
		addrs, err := iface.Addrs()

		if err != nil {
			return nil, fmt.Errorf("failed to read addresses for %s: %w", iface.Name, err)
		}

		snapshots = append(snapshots, snapshotFromInterface(iface, addrs))
	}

	return snapshots, nil
}

// snapshotFromInterface prefers the first IPv4 address on the interface,
// falling back to the first address of any family
func snapshotFromInterface(iface net.Interface, addrs []net.Addr) Snapshot {
	snapshot := Snapshot{
		Name:     iface.Name,
		Index:    iface.Index,
		Up:       iface.Flags&net.FlagUp != 0,
		Loopback: iface.Flags&net.FlagLoopback != 0,
		Family:   FamilyUnknown,
	}

	var fallback *net.IPNet

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)

		if !ok {
			continue
		}

		if ipnet.IP.To4() != nil {
			setSnapshotAddress(&snapshot, ipnet)
			return snapshot
		}

		if fallback == nil {
			fallback = ipnet
		}
	}

	if fallback != nil {
		setSnapshotAddress(&snapshot, fallback)
	}

	return snapshot
}

func setSnapshotAddress(snapshot *Snapshot, ipnet *net.IPNet) {
	if ip4 := ipnet.IP.To4(); ip4 != nil {
		mask := ipnet.Mask

		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}

		snapshot.Family = FamilyIPv4
		snapshot.Address = netip.AddrFrom4([4]byte(ip4))

		if len(mask) == net.IPv4len {
			snapshot.Netmask = netip.AddrFrom4([4]byte(mask))
		}

		return
	}

	snapshot.Family = FamilyIPv6

	if addr, ok := netip.AddrFromSlice(ipnet.IP); ok {
		snapshot.Address = addr
	}

	if mask, ok := netip.AddrFromSlice(ipnet.Mask); ok {
		snapshot.Netmask = mask
	}
}
