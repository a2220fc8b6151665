// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/jackpal/gateway"
)

// ErrNoIPv4Address returned when an interface carries no IPv4 address to
// derive a network from
var ErrNoIPv4Address = errors.New("interface has no ipv4 address")

type networkInfo struct {
	hostname string
	gateway  net.IP
	userIP   net.IP
	ipnet    *net.IPNet
	iface    *net.Interface
}

// firstIPv4Net returns the first IPv4 network assigned to iface
func firstIPv4Net(iface *net.Interface) (*net.IPNet, error) {
	addrs, err := iface.Addrs()

	if err != nil {
		return nil, fmt.Errorf("failed to read addresses for %s: %w", iface.Name, err)
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil {
			return ipnet, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoIPv4Address, iface.Name)
}

// interfaceOwning returns the interface and network that ip is assigned to
func interfaceOwning(ip net.IP) (*net.Interface, *net.IPNet, error) {
	interfaces, err := net.Interfaces()

	if err != nil {
		return nil, nil, err
	}

	for i := range interfaces {
		ipnet, err := firstIPv4Net(&interfaces[i])

		if err != nil {
			continue
		}

		if ipnet.IP.Equal(ip) {
			return &interfaces[i], ipnet, nil
		}
	}

	return nil, nil, fmt.Errorf("no interface owns %s", ip)
}

// outboundIP returns the local address the kernel picks to reach gw. udp
// does not send anything on connect so no traffic leaves the host.
func outboundIP(gw net.IP) (net.IP, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(gw.String(), "80"))

	if err != nil {
		return nil, err
	}

	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP, nil
}

func getDefaultNetworkInfo() (*networkInfo, error) {
	hostname, err := os.Hostname()

	if err != nil {
		return nil, err
	}

	gw, err := gateway.DiscoverGateway()

	if err != nil {
		return nil, fmt.Errorf("failed to discover default gateway: %w", err)
	}

	userIP, err := outboundIP(gw)

	if err != nil {
		return nil, err
	}

	iface, ipnet, err := interfaceOwning(userIP)

	if err != nil {
		return nil, err
	}

	return &networkInfo{
		hostname: hostname,
		gateway:  gw,
		userIP:   userIP,
		ipnet:    ipnet,
		iface:    iface,
	}, nil
}

// getNetworkInfoFromInterfaceName builds network info for a named
// interface. The gateway is left nil when the host has no default route.
func getNetworkInfoFromInterfaceName(interfaceName string) (*networkInfo, error) {
	hostname, err := os.Hostname()

	if err != nil {
		return nil, err
	}

	iface, err := net.InterfaceByName(interfaceName)

	if err != nil {
		return nil, err
	}

	ipnet, err := firstIPv4Net(iface)

	if err != nil {
		return nil, err
	}

	gw, _ := gateway.DiscoverGateway()

	return &networkInfo{
		hostname: hostname,
		gateway:  gw,
		userIP:   ipnet.IP,
		ipnet:    ipnet,
		iface:    iface,
	}, nil
}
