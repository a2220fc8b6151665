// SPDX-License-Identifier: GPL-3.0-or-later

package scanner

import (
	"github.com/robgonnella/go-netsweep/pkg/network"
)

// scanSegment launches one probe per candidate in ascending order,
// blocking whenever the campaign's budget is exhausted. It returns once
// every candidate has been launched or the campaign is cancelled; the
// launched probes are tracked by the campaign's wait group.
func (c *campaign[H, M]) scanSegment(iface string, segment network.Segment, exclude ...uint32) {
	total := segment.CandidateCount(exclude...)

	c.debug.Debug().
		Str("interface", iface).
		Str("segment", segment.String()).
		Int("candidates", total).
		Msg("scanning segment")

	c.notify(&Request{
		Type:      SegmentRequest,
		Interface: iface,
		Segment:   segment,
		Total:     total,
	})

	for candidate := range segment.Candidates(exclude...) {
		if c.ctx.Err() != nil {
			return
		}

		if !c.budget.acquire(c.ctx) {
			return
		}

		address := network.Uint32ToAddr(candidate).String()

		c.notify(&Request{
			Type:      ProbeRequest,
			Interface: iface,
			Segment:   segment,
			Address:   address,
		})

		c.wg.Add(1)

		go c.runProbe(iface, address)
	}
}

func (c *campaign[H, M]) runProbe(iface, address string) {
	defer c.wg.Done()
	defer c.budget.release()

	conclusion, err := c.probe(c.ctx, address)

	if err != nil {
		// errors caused by cancellation are not failures of the probe
		if c.ctx.Err() != nil {
			return
		}

		c.debug.Error().Err(err).Str("address", address).Msg("probe failed")
		c.fail(err)

		return
	}

	if !conclusion.IsHit() && !c.reportMisses {
		return
	}

	c.results.write(c.ctx, Outcome[H, M]{
		Address:    address,
		Interface:  iface,
		Conclusion: conclusion,
	})
}
