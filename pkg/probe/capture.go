// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// livePacketCapture opens real pcap handles. Tests swap it out through
// WithPacketCapture.
type livePacketCapture struct{}

var _ PacketCapture = livePacketCapture{}

func (livePacketCapture) OpenLive(device string, snaplen int32, promisc bool, timeout time.Duration) (PacketCaptureHandle, error) {
	handle, err := pcap.OpenLive(device, snaplen, promisc, timeout)

	if err != nil {
		return nil, err
	}

	return handle, nil
}

func (livePacketCapture) SerializeLayers(w gopacket.SerializeBuffer, opts gopacket.SerializeOptions, layers ...gopacket.SerializableLayer) error {
	return gopacket.SerializeLayers(w, opts, layers...)
}
