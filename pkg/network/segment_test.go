// SPDX-License-Identifier: GPL-3.0-or-later

package network_test

import (
	"net"
	"net/netip"
	"slices"
	"testing"

	"github.com/robgonnella/go-netsweep/pkg/network"
	"github.com/stretchr/testify/assert"
)

func addr(s string) uint32 {
	return network.AddrToUint32(netip.MustParseAddr(s))
}

func TestSegment(t *testing.T) {
	t.Run("computes network and broadcast addresses", func(st *testing.T) {
		seg, err := network.NewSegment(
			netip.MustParseAddr("192.168.1.5"),
			netip.MustParseAddr("255.255.255.0"),
		)

		assert.NoError(st, err)
		assert.Equal(st, addr("192.168.1.0"), seg.NetworkAddress())
		assert.Equal(st, addr("192.168.1.255"), seg.BroadcastAddress())
		assert.Equal(st, "192.168.1.0/24", seg.String())
		assert.True(st, seg.Contains(addr("192.168.1.77")))
		assert.False(st, seg.Contains(addr("192.168.2.77")))
	})

	t.Run("parses cidr", func(st *testing.T) {
		seg, err := network.ParseSegment("10.10.0.9/20")

		assert.NoError(st, err)
		assert.Equal(st, addr("10.10.0.9"), seg.Base)
		assert.Equal(st, addr("255.255.240.0"), seg.Netmask)
		assert.Equal(st, "10.10.0.0/20", seg.String())
	})

	t.Run("builds from ipnet", func(st *testing.T) {
		_, ipnet, err := net.ParseCIDR("172.16.4.0/22")

		assert.NoError(st, err)

		seg, err := network.SegmentFromIPNet(ipnet)

		assert.NoError(st, err)
		assert.Equal(st, "172.16.4.0/22", seg.String())
	})

	t.Run("renders non contiguous netmask", func(st *testing.T) {
		seg := network.Segment{
			Base:    addr("10.0.0.1"),
			Netmask: addr("255.0.255.0"),
		}

		assert.Equal(st, "10.0.0.1/255.0.255.0", seg.String())
	})

	t.Run("rejects ipv6", func(st *testing.T) {
		_, err := network.ParseSegment("fe80::/64")
		assert.ErrorIs(st, err, network.ErrInvalidSegment)

		_, err = network.NewSegment(
			netip.MustParseAddr("fe80::1"),
			netip.MustParseAddr("ffff:ffff:ffff:ffff::"),
		)
		assert.ErrorIs(st, err, network.ErrInvalidSegment)

		_, ipnet, _ := net.ParseCIDR("fe80::/64")
		_, err = network.SegmentFromIPNet(ipnet)
		assert.ErrorIs(st, err, network.ErrInvalidSegment)

		_, err = network.SegmentFromIPNet(nil)
		assert.ErrorIs(st, err, network.ErrInvalidSegment)
	})

	t.Run("rejects malformed cidr", func(st *testing.T) {
		_, err := network.ParseSegment("10.0.0.300/24")
		assert.ErrorIs(st, err, network.ErrInvalidSegment)
	})
}

func TestCandidates(t *testing.T) {
	t.Run("excludes network broadcast and self", func(st *testing.T) {
		seg, _ := network.ParseSegment("192.168.1.0/24")
		self := addr("192.168.1.5")

		candidates := slices.Collect(seg.Candidates(self))

		assert.Len(st, candidates, 253)
		assert.Equal(st, 253, seg.CandidateCount(self))
		assert.NotContains(st, candidates, addr("192.168.1.0"))
		assert.NotContains(st, candidates, addr("192.168.1.255"))
		assert.NotContains(st, candidates, self)
		assert.Equal(st, addr("192.168.1.1"), candidates[0])
		assert.Equal(st, addr("192.168.1.254"), candidates[len(candidates)-1])
		assert.True(st, slices.IsSorted(candidates))
	})

	t.Run("count matches sequence for many segments", func(st *testing.T) {
		cases := []struct {
			cidr    string
			exclude []uint32
		}{
			{"10.0.0.0/30", nil},
			{"10.0.0.0/29", []uint32{addr("10.0.0.0")}},
			{"10.0.0.0/29", []uint32{addr("10.0.0.7")}},
			{"10.0.0.0/29", []uint32{addr("10.0.0.3"), addr("10.0.0.3")}},
			{"10.0.0.0/29", []uint32{addr("10.0.1.3")}},
			{"10.0.0.0/22", []uint32{addr("10.0.2.2"), addr("10.0.3.3")}},
		}

		for _, c := range cases {
			seg, err := network.ParseSegment(c.cidr)

			assert.NoError(st, err)

			candidates := slices.Collect(seg.Candidates(c.exclude...))

			excluded := map[uint32]bool{}

			for _, e := range c.exclude {
				if e > seg.NetworkAddress() && e < seg.BroadcastAddress() {
					excluded[e] = true
				}
			}

			expected := int(seg.BroadcastAddress()-seg.NetworkAddress()-1) - len(excluded)

			assert.Len(st, candidates, expected, c.cidr)
			assert.Equal(st, expected, seg.CandidateCount(c.exclude...), c.cidr)

			for _, candidate := range candidates {
				assert.NotEqual(st, seg.NetworkAddress(), candidate)
				assert.NotEqual(st, seg.BroadcastAddress(), candidate)
				assert.NotContains(st, c.exclude, candidate)
			}
		}
	})

	t.Run("yields nothing for /31 and /32", func(st *testing.T) {
		for _, cidr := range []string{"10.0.0.0/31", "10.0.0.1/32"} {
			seg, err := network.ParseSegment(cidr)

			assert.NoError(st, err)
			assert.Empty(st, slices.Collect(seg.Candidates()))
			assert.Equal(st, 0, seg.CandidateCount())
		}
	})

	t.Run("is restartable and idempotent", func(st *testing.T) {
		seg, _ := network.ParseSegment("10.1.0.0/26")
		seq := seg.Candidates(addr("10.1.0.9"))

		first := slices.Collect(seq)
		second := slices.Collect(seq)
		third := slices.Collect(seg.Candidates(addr("10.1.0.9")))

		assert.Equal(st, first, second)
		assert.Equal(st, first, third)
	})

	t.Run("stops early when consumer stops", func(st *testing.T) {
		seg, _ := network.ParseSegment("10.0.0.0/8")

		count := 0

		for range seg.Candidates() {
			count++

			if count == 10 {
				break
			}
		}

		assert.Equal(st, 10, count)
	})
}
