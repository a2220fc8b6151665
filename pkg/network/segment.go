// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"net"
	"net/netip"
	"slices"
)

// ErrInvalidSegment returned when a segment cannot be built from the
// provided address and netmask
var ErrInvalidSegment = errors.New("invalid network segment")

// Segment represents one contiguous IPv4 range. Addresses are stored as
// host order uint32 values.
type Segment struct {
	Base    uint32
	Netmask uint32
}

// NewSegment returns a Segment from an IPv4 base address and netmask
func NewSegment(base, netmask netip.Addr) (Segment, error) {
	base = base.Unmap()
	netmask = netmask.Unmap()

	if !base.Is4() || !netmask.Is4() {
		return Segment{}, fmt.Errorf(
			"%w: %s/%s is not ipv4",
			ErrInvalidSegment,
			base,
			netmask,
		)
	}

	return Segment{
		Base:    AddrToUint32(base),
		Netmask: AddrToUint32(netmask),
	}, nil
}

// ParseSegment returns a Segment from a cidr string i.e. 192.168.1.0/24
func ParseSegment(cidr string) (Segment, error) {
	prefix, err := netip.ParsePrefix(cidr)

	if err != nil {
		return Segment{}, fmt.Errorf("%w: %w", ErrInvalidSegment, err)
	}

	if !prefix.Addr().Is4() {
		return Segment{}, fmt.Errorf("%w: %s is not ipv4", ErrInvalidSegment, cidr)
	}

	mask := net.CIDRMask(prefix.Bits(), 32)

	return Segment{
		Base:    AddrToUint32(prefix.Addr()),
		Netmask: IPToUint32(net.IP(mask)),
	}, nil
}

// SegmentFromIPNet returns a Segment from a *net.IPNet
func SegmentFromIPNet(ipnet *net.IPNet) (Segment, error) {
	if ipnet == nil {
		return Segment{}, fmt.Errorf("%w: nil ipnet", ErrInvalidSegment)
	}

	ip := ipnet.IP.To4()
	mask := ipnet.Mask

	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}

	if ip == nil || len(mask) != net.IPv4len {
		return Segment{}, fmt.Errorf("%w: %s is not ipv4", ErrInvalidSegment, ipnet)
	}

	return Segment{
		Base:    IPToUint32(ip),
		Netmask: IPToUint32(net.IP(mask)),
	}, nil
}

// NetworkAddress returns the network address for this segment
func (s Segment) NetworkAddress() uint32 {
	return s.Netmask & s.Base
}

// BroadcastAddress returns the broadcast address for this segment
func (s Segment) BroadcastAddress() uint32 {
	return s.NetworkAddress() | ^s.Netmask
}

// Contains reports whether addr lies within the segment bounds (inclusive)
func (s Segment) Contains(addr uint32) bool {
	return addr&s.Netmask == s.NetworkAddress()
}

// Candidates returns a lazy, restartable sequence of usable host
// addresses in ascending order. The network address, the broadcast
// address and any excluded address are skipped.
func (s Segment) Candidates(exclude ...uint32) iter.Seq[uint32] {
	network := s.NetworkAddress()
	broadcast := s.BroadcastAddress()

	return func(yield func(uint32) bool) {
		// /31 and /32 have no room between network and broadcast
		if broadcast-network < 2 {
			return
		}

		for addr := network + 1; addr < broadcast; addr++ {
			if slices.Contains(exclude, addr) {
				continue
			}

			if !yield(addr) {
				return
			}
		}
	}
}

// CandidateCount returns the number of addresses Candidates would yield
// for the same exclusions without iterating
func (s Segment) CandidateCount(exclude ...uint32) int {
	network := s.NetworkAddress()
	broadcast := s.BroadcastAddress()

	if broadcast-network < 2 {
		return 0
	}

	total := int(broadcast - network - 1)

	seen := []uint32{}

	for _, addr := range exclude {
		if addr <= network || addr >= broadcast || slices.Contains(seen, addr) {
			continue
		}

		seen = append(seen, addr)
		total--
	}

	return total
}

// String returns the cidr notation for the segment, or base/netmask when
// the netmask is not contiguous
func (s Segment) String() string {
	ones := bits.LeadingZeros32(^s.Netmask)

	if s.Netmask != ^uint32(0)<<(32-ones) {
		return fmt.Sprintf("%s/%s", Uint32ToAddr(s.Base), Uint32ToAddr(s.Netmask))
	}

	return fmt.Sprintf("%s/%d", Uint32ToAddr(s.NetworkAddress()), ones)
}

// AddrToUint32 converts an IPv4 netip.Addr to host order uint32
func AddrToUint32(addr netip.Addr) uint32 {
	b := addr.Unmap().As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Uint32ToAddr converts a host order uint32 to an IPv4 netip.Addr
func Uint32ToAddr(u uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

// IPToUint32 converts an IPv4 net.IP to host order uint32. Returns 0 for
// non IPv4 addresses.
func IPToUint32(ip net.IP) uint32 {
	ip = ip.To4()

	if ip == nil {
		return 0
	}

	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}
