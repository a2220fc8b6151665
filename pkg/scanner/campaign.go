// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"context"
	"sync"

	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/internal/util"
	"github.com/robgonnella/go-netsweep/pkg/network"
)

// campaign is the run state for a single iteration of a Stream
type campaign[H, M any] struct {
	ctx             context.Context
	cancel          context.CancelFunc
	abandoned       <-chan struct{}
	probe           Probe[H, M]
	segment         *network.Segment
	source          network.InterfaceSource
	interfaceFilter func(s network.Snapshot) bool
	oneFullScanOnly bool
	reportMisses    bool
	requestNotifier func(r *Request)
	budget          *budget
	results         *resultChannel[H, M]
	wg              sync.WaitGroup
	errMux          sync.Mutex
	err             error
	debug           logger.DebugLogger
}

func newCampaign[H, M any](
	ctx context.Context,
	probe Probe[H, M],
	conf *config,
) *campaign[H, M] {
	abandoned := ctx.Done()

	ctx, cancel := context.WithCancel(ctx)

	source := conf.source

	if source == nil && conf.segment == nil {
		source = network.NewSystemInterfaces()
	}

	return &campaign[H, M]{
		ctx:             ctx,
		cancel:          cancel,
		abandoned:       abandoned,
		probe:           probe,
		segment:         conf.segment,
		source:          source,
		interfaceFilter: conf.interfaceFilter,
		oneFullScanOnly: conf.oneFullScanOnly,
		reportMisses:    conf.reportMisses,
		requestNotifier: conf.requestNotifier,
		budget:          newBudget(conf.concurrencyLimit),
		results:         newResultChannel[H, M](),
		debug:           logger.NewDebugLogger().Component("scanner"),
	}
}

// run drives the campaign to completion and closes the result channel
// once every probe and interface scan has returned
func (c *campaign[H, M]) run() {
	defer func() {
		c.wg.Wait()
		c.cancel()
		c.results.close(c.failure())
		c.debug.Info().Err(c.failure()).Msg("campaign finished")
	}()

	// a base address inside the range is treated as the scanning host's own
	if c.segment != nil {
		c.debug.Info().Str("segment", c.segment.String()).Msg("starting fixed network scan")
		c.scanSegment("", *c.segment, c.segment.Base)
		return
	}

	c.debug.Info().
		Bool("oneFullScanOnly", c.oneFullScanOnly).
		Msg("starting local interfaces scan")

	if err := c.scanLocalInterfaces(); err != nil {
		c.fail(err)
		return
	}

	if c.oneFullScanOnly {
		return
	}

	if err := c.watchInterfaces(); err != nil {
		c.fail(err)
	}
}

// scanLocalInterfaces starts the initial pass over every qualifying
// interface. Scans run concurrently and are tracked by the wait group.
func (c *campaign[H, M]) scanLocalInterfaces() error {
	snapshots, err := c.source.Interfaces()

	if err != nil {
		return err
	}

	for _, snapshot := range util.FilterSlice(snapshots, c.qualifies) {
		if c.ctx.Err() != nil {
			return nil
		}

		c.startInterfaceScan(snapshot)
	}

	return nil
}

// watchInterfaces reacts to interface changes until the campaign is
// cancelled or the watch fails
func (c *campaign[H, M]) watchInterfaces() error {
	events := make(chan network.ChangeEvent)
	watchErr := make(chan error, 1)

	go func() {
		watchErr <- c.source.Watch(c.ctx, events)
	}()

	for {
		select {
		case <-c.ctx.Done():
			<-watchErr
			return nil
		case evt := <-events:
			if !evt.TriggersScan() || !c.qualifies(evt.Snapshot) {
				continue
			}

			c.debug.Info().
				Str("interface", evt.Snapshot.Name).
				Str("kind", string(evt.Kind)).
				Msg("rescanning changed interface")

			c.startInterfaceScan(evt.Snapshot)
		case err := <-watchErr:
			if c.ctx.Err() != nil {
				return nil
			}

			if err == nil {
				return network.ErrWatchClosed
			}

			return err
		}
	}
}

func (c *campaign[H, M]) startInterfaceScan(snapshot network.Snapshot) {
	segment, ok := snapshot.Segment()

	if !ok {
		return
	}

	self := network.AddrToUint32(snapshot.Address)

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		c.scanSegment(snapshot.Name, segment, self)
	}()
}

func (c *campaign[H, M]) qualifies(s network.Snapshot) bool {
	return s.Scannable() && c.interfaceFilter(s)
}

// fail records the first fatal error and cancels all in-flight work
func (c *campaign[H, M]) fail(err error) {
	c.errMux.Lock()

	if c.err == nil {
		c.err = err
	}

	c.errMux.Unlock()

	c.cancel()
}

func (c *campaign[H, M]) failure() error {
	c.errMux.Lock()
	defer c.errMux.Unlock()

	return c.err
}

func (c *campaign[H, M]) notify(r *Request) {
	if c.requestNotifier != nil {
		c.requestNotifier(r)
	}
}
