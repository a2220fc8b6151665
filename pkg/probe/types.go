// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/gopacket"
)

//go:generate mockgen -destination=../../mock/probe/probe.go -package=mock_probe . PacketCaptureHandle,PacketCapture

// ErrInvalidAddress returned when a probe is invoked with an address it
// cannot probe
var ErrInvalidAddress = errors.New("invalid probe address")

const defaultTimeout = time.Second

// PacketCaptureHandle interface for reading and writing raw packets on a
// live interface
type PacketCaptureHandle interface {
	Close()
	ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error)
	WritePacketData(data []byte) (err error)
	SetBPFFilter(expr string) (err error)
}

// PacketCapture interface for opening live capture handles
type PacketCapture interface {
	OpenLive(device string, snaplen int32, promisc bool, timeout time.Duration) (handle PacketCaptureHandle, _ error)
	SerializeLayers(w gopacket.SerializeBuffer, opts gopacket.SerializeOptions, layers ...gopacket.SerializableLayer) error
}

func parseAddress(address string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(address)

	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	if !addr.Unmap().Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %s is not ipv4", ErrInvalidAddress, address)
	}

	return addr.Unmap(), nil
}
