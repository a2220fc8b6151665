// SPDX-License-Identifier: GPL-3.0-or-later

package test_helper

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// NewArpReplyReadResult returns packet data for an arp reply from srcIP
// as it would be read from a capture handle
func NewArpReplyReadResult(srcIP net.IP, srcHwAddr net.HardwareAddr) (data []byte, ci gopacket.CaptureInfo, err error) {
	return newArpPacket(layers.ARPReply, srcIP, srcHwAddr)
}

// NewArpRequestReadResult returns packet data for an arp request from
// srcIP as it would be read from a capture handle
func NewArpRequestReadResult(srcIP net.IP, srcHwAddr net.HardwareAddr) (data []byte, ci gopacket.CaptureInfo, err error) {
	return newArpPacket(layers.ARPRequest, srcIP, srcHwAddr)
}

func newArpPacket(op uint16, srcIP net.IP, srcHwAddr net.HardwareAddr) ([]byte, gopacket.CaptureInfo, error) {
	eth := layers.Ethernet{
		SrcMAC:       srcHwAddr,
		DstMAC:       []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		EthernetType: layers.EthernetTypeARP,
	}

	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         op,
		SourceHwAddress:   srcHwAddr,
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		DstProtAddress:    []byte{192, 168, 1, 1},
	}

	buf := gopacket.NewSerializeBuffer()

	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	if err := gopacket.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return nil, gopacket.CaptureInfo{}, err
	}

	return buf.Bytes(), gopacket.CaptureInfo{}, nil
}
