// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"net/netip"
	"strings"

	"github.com/robgonnella/go-netsweep/internal/util"
)

// AddressFamily represents the family of an interface's address
type AddressFamily string

const (
	// FamilyUnknown interface has no address
	FamilyUnknown AddressFamily = "unknown"
	// FamilyIPv4 interface address is IPv4
	FamilyIPv4 AddressFamily = "ipv4"
	// FamilyIPv6 interface address is IPv6
	FamilyIPv6 AddressFamily = "ipv6"
)

// Snapshot represents the state of one local interface at a point in time
type Snapshot struct {
	Name     string
	Index    int
	Address  netip.Addr
	Netmask  netip.Addr
	Up       bool
	Loopback bool
	Family   AddressFamily
}

// Segment returns the segment this interface is attached to. The second
// return value is false when the snapshot lacks an IPv4 address or netmask.
func (s Snapshot) Segment() (Segment, bool) {
	if !s.Address.IsValid() || !s.Netmask.IsValid() {
		return Segment{}, false
	}

	seg, err := NewSegment(s.Address, s.Netmask)

	if err != nil {
		return Segment{}, false
	}

	return seg, true
}

// Scannable reports whether the interface can be scanned at all: it must
// be up, have both an address and netmask, and be IPv4
func (s Snapshot) Scannable() bool {
	if !s.Up || s.Family != FamilyIPv4 {
		return false
	}

	_, ok := s.Segment()

	return ok
}

// ChangeKind represents the type of interface change
type ChangeKind string

const (
	// Added a new interface appeared
	Added ChangeKind = "added"
	// Modified an existing interface changed
	Modified ChangeKind = "modified"
	// Removed an interface disappeared
	Removed ChangeKind = "removed"
)

// ChangedFields bitset of the snapshot fields touched by a Modified event
type ChangedFields uint8

const (
	// ChangedAddress the interface address changed
	ChangedAddress ChangedFields = 1 << iota
	// ChangedNetmask the interface netmask changed
	ChangedNetmask
	// ChangedOther any other field changed (flags, index, family)
	ChangedOther
)

// Has reports whether every field in f is set
func (c ChangedFields) Has(f ChangedFields) bool {
	return c&f == f
}

func (c ChangedFields) String() string {
	fields := []string{}

	if c.Has(ChangedAddress) {
		fields = append(fields, "address")
	}

	if c.Has(ChangedNetmask) {
		fields = append(fields, "netmask")
	}

	if c.Has(ChangedOther) {
		fields = append(fields, "other")
	}

	return strings.Join(fields, "|")
}

// ChangeEvent represents a single interface change notification
type ChangeEvent struct {
	Kind     ChangeKind
	Snapshot Snapshot
	Changed  ChangedFields
}

// TriggersScan reports whether the event warrants a new scan of the
// interface: it was added, or its address or netmask changed
func (e ChangeEvent) TriggersScan() bool {
	switch e.Kind {
	case Added:
		return true
	case Modified:
		return e.Changed.Has(ChangedAddress) || e.Changed.Has(ChangedNetmask)
	default:
		return false
	}
}

// ExcludeLoopback default interface filter used for local scanning
func ExcludeLoopback(s Snapshot) bool {
	return !s.Loopback
}

// AllowNames returns an interface filter that only selects the named
// interfaces
func AllowNames(names ...string) func(s Snapshot) bool {
	return func(s Snapshot) bool {
		return util.SliceIncludes(names, s.Name)
	}
}

// diffSnapshots computes the change events needed to go from prev to next
func diffSnapshots(prev, next []Snapshot) []ChangeEvent {
	events := []ChangeEvent{}

	prevByName := make(map[string]Snapshot, len(prev))

	for _, s := range prev {
		prevByName[s.Name] = s
	}

	nextNames := make(map[string]struct{}, len(next))

	for _, s := range next {
		nextNames[s.Name] = struct{}{}

		old, exists := prevByName[s.Name]

		if !exists {
			events = append(events, ChangeEvent{Kind: Added, Snapshot: s})
			continue
		}

		var changed ChangedFields

		if old.Address != s.Address {
			changed |= ChangedAddress
		}

		if old.Netmask != s.Netmask {
			changed |= ChangedNetmask
		}

		if old.Up != s.Up ||
			old.Loopback != s.Loopback ||
			old.Index != s.Index ||
			old.Family != s.Family {
			changed |= ChangedOther
		}

		if changed != 0 {
			events = append(events, ChangeEvent{
				Kind:     Modified,
				Snapshot: s,
				Changed:  changed,
			})
		}
	}

	for _, s := range prev {
		if _, exists := nextNames[s.Name]; !exists {
			events = append(events, ChangeEvent{Kind: Removed, Snapshot: s})
		}
	}

	return events
}
