// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"context"
	"net"
)

//go:generate mockgen -destination=../../mock/network/network.go -package=mock_network . Network,InterfaceSource

// Network represents the host's default network i.e. the interface
// traffic to the default gateway leaves through
type Network interface {
	Hostname() string
	Interface() *net.Interface
	IPNet() *net.IPNet
	Gateway() net.IP
	UserIP() net.IP
	Cidr() string
}

// InterfaceSource enumerates local interfaces and reports changes to them
type InterfaceSource interface {
	// Interfaces returns a snapshot of every local interface
	Interfaces() ([]Snapshot, error)
	// Watch blocks sending change events until ctx is done, in which case
	// it returns nil, or until watching fails
	Watch(ctx context.Context, events chan<- ChangeEvent) error
}
