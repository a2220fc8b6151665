// SPDX-License-Identifier: GPL-3.0-or-later

package scanner_test

import (
	"context"
	"errors"
	"io"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	mock_network "github.com/robgonnella/go-netsweep/mock/network"
	"github.com/robgonnella/go-netsweep/pkg/network"
	"github.com/robgonnella/go-netsweep/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func snapshot(name, addr, mask string) network.Snapshot {
	return network.Snapshot{
		Name:    name,
		Address: netip.MustParseAddr(addr),
		Netmask: netip.MustParseAddr(mask),
		Up:      true,
		Family:  network.FamilyIPv4,
	}
}

func TestLocalInterfacesScan(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	t.Run("scans own /24 excluding self address", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			snapshot("eth0", "192.168.1.5", "255.255.255.0"),
		}, nil)

		s := scanner.New(
			hitsOn("192.168.1.10", "192.168.1.20"),
			scanner.WithInterfaceSource(source),
			scanner.WithOneFullScanOnly(true),
			scanner.WithReportMisses(true),
		)

		stream := s.Scan(context.Background())
		defer stream.Close()

		outcomes, err := collect(st, stream)

		assert.NoError(st, err)
		assert.Len(st, outcomes, 253)

		hits := []string{}

		for _, o := range outcomes {
			assert.Equal(st, "eth0", o.Interface)
			assert.NotContains(
				st,
				[]string{"192.168.1.0", "192.168.1.5", "192.168.1.255"},
				o.Address,
			)

			if o.Conclusion.IsHit() {
				hits = append(hits, o.Address)
			}
		}

		assert.ElementsMatch(st, []string{"192.168.1.10", "192.168.1.20"}, hits)
	})

	t.Run("limit bounds probes across all interfaces", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			snapshot("eth0", "10.0.0.1", "255.255.255.224"),
			snapshot("eth1", "10.0.1.1", "255.255.255.224"),
		}, nil)

		inFlight := atomic.Int32{}
		maxInFlight := atomic.Int32{}
		perInterface := map[string]*atomic.Int32{
			"10.0.0": {},
			"10.0.1": {},
		}

		probe := scanner.BoolProbe(func(ctx context.Context, address string) (bool, error) {
			current := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				seen := maxInFlight.Load()

				if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
					break
				}
			}

			perInterface[address[:6]].Add(1)

			time.Sleep(time.Millisecond * 2)

			return true, nil
		})

		s := scanner.New(
			probe,
			scanner.WithInterfaceSource(source),
			scanner.WithOneFullScanOnly(true),
			scanner.WithConcurrencyLimit(2),
		)

		stream := s.Scan(context.Background())
		defer stream.Close()

		outcomes, err := collect(st, stream)

		assert.NoError(st, err)
		assert.Len(st, outcomes, 58)
		assert.Equal(st, int32(29), perInterface["10.0.0"].Load())
		assert.Equal(st, int32(29), perInterface["10.0.1"].Load())
		assert.LessOrEqual(st, maxInFlight.Load(), int32(2))
	})

	t.Run("skips interfaces that do not qualify", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		loopback := snapshot("lo", "127.0.0.1", "255.0.0.0")
		loopback.Loopback = true

		down := snapshot("eth1", "10.0.1.1", "255.255.255.252")
		down.Up = false

		v6 := network.Snapshot{
			Name:    "eth2",
			Address: netip.MustParseAddr("fe80::1"),
			Netmask: netip.MustParseAddr("ffff:ffff:ffff:ffff::"),
			Up:      true,
			Family:  network.FamilyIPv6,
		}

		noMask := snapshot("eth3", "10.0.3.1", "255.255.255.252")
		noMask.Netmask = netip.Addr{}

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			loopback,
			down,
			v6,
			noMask,
			snapshot("eth4", "10.0.4.1", "255.255.255.252"),
		}, nil)

		s := scanner.New(
			hitsOn(),
			scanner.WithInterfaceSource(source),
			scanner.WithOneFullScanOnly(true),
			scanner.WithReportMisses(true),
		)

		stream := s.Scan(context.Background())
		defer stream.Close()

		outcomes, err := collect(st, stream)

		assert.NoError(st, err)
		assert.Len(st, outcomes, 1)
		assert.Equal(st, "10.0.4.2", outcomes[0].Address)
		assert.Equal(st, "eth4", outcomes[0].Interface)
	})

	t.Run("applies interface filter", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			snapshot("eth0", "10.0.0.1", "255.255.255.252"),
			snapshot("eth1", "10.0.1.1", "255.255.255.252"),
		}, nil)

		s := scanner.New(
			hitsOn(),
			scanner.WithInterfaceSource(source),
			scanner.WithInterfaceFilter(network.AllowNames("eth1")),
			scanner.WithOneFullScanOnly(true),
			scanner.WithReportMisses(true),
		)

		stream := s.Scan(context.Background())
		defer stream.Close()

		outcomes, err := collect(st, stream)

		assert.NoError(st, err)
		assert.Len(st, outcomes, 1)
		assert.Equal(st, "10.0.1.2", outcomes[0].Address)
	})

	t.Run("returns enumeration error", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		listErr := errors.New("mock list error")

		source.EXPECT().Interfaces().Return(nil, listErr)

		s := scanner.New(hitsOn(), scanner.WithInterfaceSource(source))

		stream := s.Scan(context.Background())
		defer stream.Close()

		_, err := stream.Next()
		assert.ErrorIs(st, err, listErr)

		_, err = stream.Next()
		assert.ErrorIs(st, err, io.EOF)
	})

	t.Run("rescans added interfaces without ending the stream", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		initialPassRead := make(chan struct{})

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			snapshot("eth0", "10.0.0.1", "255.255.255.248"),
		}, nil)

		source.EXPECT().Watch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, events chan<- network.ChangeEvent) error {
				<-initialPassRead

				evts := []network.ChangeEvent{
					// flags only, must not rescan
					{
						Kind:     network.Modified,
						Snapshot: snapshot("eth0", "10.0.0.1", "255.255.255.248"),
						Changed:  network.ChangedOther,
					},
					{
						Kind:     network.Added,
						Snapshot: snapshot("eth1", "10.0.1.1", "255.255.255.252"),
					},
				}

				for _, evt := range evts {
					select {
					case <-ctx.Done():
						return nil
					case events <- evt:
					}
				}

				<-ctx.Done()

				return nil
			},
		)

		s := scanner.New(
			hitsOn(),
			scanner.WithInterfaceSource(source),
			scanner.WithReportMisses(true),
		)

		stream := s.Scan(context.Background())

		initial := map[string]bool{}

		for range 5 {
			o, err := stream.Next()
			assert.NoError(st, err)
			assert.Equal(st, "eth0", o.Interface)
			initial[o.Address] = true
		}

		assert.Len(st, initial, 5)
		assert.False(st, initial["10.0.0.1"])

		close(initialPassRead)

		o, err := stream.Next()

		assert.NoError(st, err)
		assert.Equal(st, "eth1", o.Interface)
		assert.Equal(st, "10.0.1.2", o.Address)

		assert.NoError(st, stream.Close())

		_, err = stream.Next()
		assert.ErrorIs(st, err, io.EOF)
	})

	t.Run("rescans interfaces whose address changed", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		source.EXPECT().Interfaces().Return([]network.Snapshot{}, nil)

		source.EXPECT().Watch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, events chan<- network.ChangeEvent) error {
				events <- network.ChangeEvent{
					Kind:     network.Modified,
					Snapshot: snapshot("eth0", "10.0.5.1", "255.255.255.252"),
					Changed:  network.ChangedAddress,
				}

				<-ctx.Done()

				return nil
			},
		)

		s := scanner.New(
			hitsOn("10.0.5.2"),
			scanner.WithInterfaceSource(source),
		)

		stream := s.Scan(context.Background())
		defer stream.Close()

		o, err := stream.Next()

		assert.NoError(st, err)
		assert.Equal(st, "10.0.5.2", o.Address)
		assert.True(st, o.Conclusion.IsHit())
	})

	t.Run("returns watch error", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		watchErr := errors.New("mock watch error")

		source.EXPECT().Interfaces().Return([]network.Snapshot{}, nil)
		source.EXPECT().Watch(gomock.Any(), gomock.Any()).Return(watchErr)

		s := scanner.New(hitsOn(), scanner.WithInterfaceSource(source))

		stream := s.Scan(context.Background())
		defer stream.Close()

		_, err := stream.Next()
		assert.ErrorIs(st, err, watchErr)
	})

	t.Run("returns error when watch closes unexpectedly", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		source.EXPECT().Interfaces().Return([]network.Snapshot{}, nil)
		source.EXPECT().Watch(gomock.Any(), gomock.Any()).Return(nil)

		s := scanner.New(hitsOn(), scanner.WithInterfaceSource(source))

		stream := s.Scan(context.Background())
		defer stream.Close()

		_, err := stream.Next()
		assert.ErrorIs(st, err, network.ErrWatchClosed)
	})

	t.Run("probe failure stops watching", func(st *testing.T) {
		source := mock_network.NewMockInterfaceSource(ctrl)

		probeErr := errors.New("mock probe error")

		source.EXPECT().Interfaces().Return([]network.Snapshot{
			snapshot("eth0", "10.0.0.1", "255.255.255.252"),
		}, nil)

		source.EXPECT().Watch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, events chan<- network.ChangeEvent) error {
				<-ctx.Done()
				return nil
			},
		).AnyTimes()

		probe := scanner.BoolProbe(func(ctx context.Context, address string) (bool, error) {
			return false, probeErr
		})

		s := scanner.New(probe, scanner.WithInterfaceSource(source))

		stream := s.Scan(context.Background())
		defer stream.Close()

		_, err := stream.Next()
		assert.ErrorIs(st, err, probeErr)

		_, err = stream.Next()
		assert.ErrorIs(st, err, io.EOF)
	})
}
