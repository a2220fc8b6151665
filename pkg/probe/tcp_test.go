// SPDX-License-Identifier: GPL-3.0-or-later

package probe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/robgonnella/go-netsweep/pkg/probe"
	"github.com/stretchr/testify/assert"
)

func listenerPort(t *testing.T, l net.Listener) uint16 {
	addr, ok := l.Addr().(*net.TCPAddr)

	if !ok {
		t.Fatalf("unexpected listener address %s", l.Addr())
	}

	return uint16(addr.Port)
}

// closedPort returns a port nothing is listening on
func closedPort(t *testing.T) uint16 {
	l, err := net.Listen("tcp", "127.0.0.1:0")

	if err != nil {
		t.Fatal(err)
	}

	port := listenerPort(t, l)
	l.Close()

	return port
}

func TestTCP(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")

	assert.NoError(t, err)

	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()

			if err != nil {
				return
			}

			conn.Close()
		}
	}()

	open := listenerPort(t, listener)
	closed := closedPort(t)

	t.Run("reports hit with open ports", func(st *testing.T) {
		p := probe.TCP([]uint16{closed, open}, probe.WithTCPTimeout(time.Second))

		c, err := p(context.Background(), "127.0.0.1")

		assert.NoError(st, err)
		assert.True(st, c.IsHit())

		hit, ok := c.HitData()

		assert.True(st, ok)
		assert.Len(st, hit.Ports, 1)
		assert.Equal(st, open, hit.Ports[0].ID)
	})

	t.Run("reports miss when no port accepts", func(st *testing.T) {
		p := probe.TCP([]uint16{closed})

		c, err := p(context.Background(), "127.0.0.1")

		assert.NoError(st, err)
		assert.False(st, c.IsHit())
	})

	t.Run("returns error for invalid address", func(st *testing.T) {
		p := probe.TCP([]uint16{open})

		_, err := p(context.Background(), "not-an-address")
		assert.ErrorIs(st, err, probe.ErrInvalidAddress)

		_, err = p(context.Background(), "::1")
		assert.ErrorIs(st, err, probe.ErrInvalidAddress)
	})

	t.Run("returns context error when cancelled", func(st *testing.T) {
		p := probe.TCP([]uint16{open})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p(ctx, "127.0.0.1")

		assert.ErrorIs(st, err, context.Canceled)
	})
}

func TestTCPHit(t *testing.T) {
	t.Run("renders ports with service names", func(st *testing.T) {
		hit := probe.TCPHit{
			Ports: []probe.Port{
				{ID: 22, Service: "ssh"},
				{ID: 8123},
			},
		}

		assert.Equal(st, []string{"Open Ports"}, hit.Header())
		assert.Equal(st, []string{"22/ssh, 8123"}, hit.Row())
	})
}
