// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/pkg/network"
	"github.com/robgonnella/go-netsweep/pkg/oui"
	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

// ErrProberNotStarted returned when the arp probe is used before Start
var ErrProberNotStarted = errors.New("arp prober not started")

// ErrProberStopped returned when the arp prober is stopped while a probe
// is waiting for a reply
var ErrProberStopped = errors.New("arp prober stopped")

// How long to wait between arp requests. Requests sent too quickly are
// dropped by some devices.
const defaultARPTiming = time.Millisecond

// How long a single packet read may block so the reader can observe Stop
const readTimeout = time.Millisecond * 100

const unknownVendor = "unknown"

// ARPHit hit payload of the arp probe
type ARPHit struct {
	MAC    net.HardwareAddr
	Vendor string
}

// MarshalJSON renders the mac address in its colon separated form
func (h ARPHit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"mac":    h.MAC.String(),
		"vendor": h.Vendor,
	})
}

// Header implements Finding
func (h ARPHit) Header() []string {
	return []string{"MAC", "Vendor"}
}

// Row implements Finding
func (h ARPHit) Row() []string {
	return []string{h.MAC.String(), h.Vendor}
}

// ARPOption represents an option for ARPProber
type ARPOption = func(p *ARPProber)

// WithARPTimeout sets how long to wait for a reply before reporting a miss
func WithARPTimeout(d time.Duration) ARPOption {
	return func(p *ARPProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithARPTiming sets the minimum delay between outgoing requests
func WithARPTiming(d time.Duration) ARPOption {
	return func(p *ARPProber) {
		if d > 0 {
			p.timing = d
		}
	}
}

// WithPacketCapture sets the data structure used to capture packets
func WithPacketCapture(cap PacketCapture) ARPOption {
	return func(p *ARPProber) {
		p.cap = cap
	}
}

// WithVendorInfo sets the repo used to look up the vendor of replying
// devices
func WithVendorInfo(repo oui.VendorRepo) ARPOption {
	return func(p *ARPProber) {
		p.vendorRepo = repo
	}
}

// ARPProber sends arp requests on a single interface and matches replies
// to the probes waiting on them. One capture handle is shared by every
// probe invocation.
type ARPProber struct {
	networkInfo network.Network
	cap         PacketCapture
	handle      PacketCaptureHandle
	timeout     time.Duration
	timing      time.Duration
	vendorRepo  oui.VendorRepo
	waiters     map[uint32][]chan net.HardwareAddr
	waitersMux  sync.Mutex
	lastWrite   time.Time
	writeMux    sync.Mutex
	done        chan struct{}
	readerDone  chan struct{}
	stopOnce    sync.Once
	debug       logger.DebugLogger
}

// NewARPProber returns a new instance of ARPProber for the interface
// backing networkInfo
func NewARPProber(networkInfo network.Network, options ...ARPOption) *ARPProber {
	p := &ARPProber{
		networkInfo: networkInfo,
		cap:         livePacketCapture{},
		timeout:     defaultTimeout,
		timing:      defaultARPTiming,
		waiters:     map[uint32][]chan net.HardwareAddr{},
		done:        make(chan struct{}),
		readerDone:  make(chan struct{}),
		debug:       logger.NewDebugLogger().Component("arp"),
	}

	for _, o := range options {
		o(p)
	}

	return p
}

// Start opens the capture handle and begins reading replies
func (p *ARPProber) Start() error {
	handle, err := p.cap.OpenLive(
		p.networkInfo.Interface().Name,
		65536,
		true,
		readTimeout,
	)

	if err != nil {
		return fmt.Errorf("failed to open capture on %s: %w", p.networkInfo.Interface().Name, err)
	}

	if err := handle.SetBPFFilter("arp"); err != nil {
		handle.Close()
		return err
	}

	p.handle = handle

	go p.readPackets()

	p.debug.Info().
		Str("interface", p.networkInfo.Interface().Name).
		Str("cidr", p.networkInfo.Cidr()).
		Msg("arp prober started")

	return nil
}

// Stop stops reading replies and closes the capture handle. Blocks until
// the reader has exited.
func (p *ARPProber) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)

		if p.handle == nil {
			return
		}

		<-p.readerDone
		p.handle.Close()
	})
}

// Probe returns the scanner probe backed by this prober
func (p *ARPProber) Probe() scanner.Probe[ARPHit, scanner.Empty] {
	return p.probe
}

func (p *ARPProber) probe(ctx context.Context, address string) (scanner.Conclusion[ARPHit, scanner.Empty], error) {
	var zero scanner.Conclusion[ARPHit, scanner.Empty]

	if p.handle == nil {
		return zero, ErrProberNotStarted
	}

	addr, err := parseAddress(address)

	if err != nil {
		return zero, err
	}

	ip := net.IP(addr.AsSlice())

	if !p.networkInfo.IPNet().Contains(ip) {
		return zero, fmt.Errorf(
			"%w: %s is not on %s",
			ErrInvalidAddress,
			address,
			p.networkInfo.Cidr(),
		)
	}

	key := network.AddrToUint32(addr)
	reply := p.addWaiter(key)
	defer p.removeWaiter(key, reply)

	if err := p.writePacketData(ctx, ip); err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		return zero, err
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.done:
		return zero, ErrProberStopped
	case <-timer.C:
		return scanner.Miss[ARPHit](scanner.Empty{}), nil
	case mac := <-reply:
		return scanner.Hit[ARPHit, scanner.Empty](ARPHit{
			MAC:    mac,
			Vendor: p.vendor(mac),
		}), nil
	}
}

func (p *ARPProber) addWaiter(key uint32) chan net.HardwareAddr {
	ch := make(chan net.HardwareAddr, 1)

	p.waitersMux.Lock()
	defer p.waitersMux.Unlock()

	p.waiters[key] = append(p.waiters[key], ch)

	return ch
}

func (p *ARPProber) removeWaiter(key uint32, ch chan net.HardwareAddr) {
	p.waitersMux.Lock()
	defer p.waitersMux.Unlock()

	remaining := []chan net.HardwareAddr{}

	for _, w := range p.waiters[key] {
		if w != ch {
			remaining = append(remaining, w)
		}
	}

	if len(remaining) == 0 {
		delete(p.waiters, key)
		return
	}

	p.waiters[key] = remaining
}

func (p *ARPProber) dispatch(key uint32, mac net.HardwareAddr) {
	p.waitersMux.Lock()
	defer p.waitersMux.Unlock()

	for _, w := range p.waiters[key] {
		select {
		case w <- mac:
		default:
		}
	}
}

func (p *ARPProber) readPackets() {
	var eth layers.Ethernet
	var arp layers.ARP
	var payload gopacket.Payload

	parser := gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet, &eth, &arp, &payload)
	decoded := []gopacket.LayerType{}

	defer close(p.readerDone)

	for {
		select {
		case <-p.done:
			return
		default:
		}

		packetData, _, err := p.handle.ReadPacketData()

		if err == pcap.NextErrorTimeoutExpired {
			continue
		}

		if err != nil {
			p.debug.Error().Err(err).Msg("error reading packet")
			continue
		}

		if err := parser.DecodeLayers(packetData, &decoded); err != nil {
			p.debug.Debug().Err(err).Msg("error decoding packet")
			continue
		}

		for _, layerType := range decoded {
			if layerType == layers.LayerTypeARP {
				p.handleARPLayer(&arp)
				break
			}
		}
	}
}

func (p *ARPProber) handleARPLayer(arp *layers.ARP) {
	if arp.Operation != layers.ARPReply {
		return
	}

	if bytes.Equal([]byte(p.networkInfo.Interface().HardwareAddr), arp.SourceHwAddress) {
		// this is a packet we sent
		return
	}

	ip := net.IP(arp.SourceProtAddress)
	mac := make(net.HardwareAddr, len(arp.SourceHwAddress))
	copy(mac, arp.SourceHwAddress)

	p.debug.Debug().
		Str("ip", ip.String()).
		Str("mac", mac.String()).
		Msg("received arp reply")

	p.dispatch(network.IPToUint32(ip), mac)
}

func (p *ARPProber) writePacketData(ctx context.Context, ip net.IP) error {
	iface := p.networkInfo.Interface()

	eth := layers.Ethernet{
		SrcMAC:       iface.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}

	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(iface.HardwareAddr),
		SourceProtAddress: []byte(p.networkInfo.UserIP().To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(ip.To4()),
	}

	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	buf := gopacket.NewSerializeBuffer()

	if err := p.cap.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return err
	}

	p.writeMux.Lock()
	defer p.writeMux.Unlock()

	// throttle writes to improve accuracy of results
	if wait := p.timing - time.Since(p.lastWrite); wait > 0 {
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	p.lastWrite = time.Now()

	return p.handle.WritePacketData(buf.Bytes())
}

func (p *ARPProber) vendor(mac net.HardwareAddr) string {
	if p.vendorRepo == nil {
		return unknownVendor
	}

	result, err := p.vendorRepo.Query(mac)

	if err != nil {
		p.debug.Warn().Err(err).Str("mac", mac.String()).Msg("vendor lookup failed")
		return unknownVendor
	}

	return result.Name
}
