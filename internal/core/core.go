// SPDX-License-Identifier: GPL-3.0-or-later

package core

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/progress"
	"github.com/jedib0t/go-pretty/table"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/pkg/probe"
	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

// Option represents an option for Core
type Option = func(c *Core)

// WithOutput sets where progress and final results are written. Defaults
// to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Core) {
		c.out = w
	}
}

type resultKey struct {
	iface   string
	address netip.Addr
}

// Core implements the Runner interface
type Core struct {
	scanner    *scanner.Scanner[probe.Finding, scanner.Empty]
	header     []string
	noProgress bool
	printJSON  bool
	outFile    string
	out        io.Writer
	results    *Results
	index      map[resultKey]int
	pw         progress.Writer
	tracker    *progress.Tracker
	mux        sync.Mutex
	log        logger.Logger
}

// New returns a new instance of Core
func New(options ...Option) *Core {
	c := &Core{
		out: os.Stdout,
		log: logger.New(),
	}

	for _, o := range options {
		o(c)
	}

	return c
}

// Initialize implements the Runner Initialize method
func (c *Core) Initialize(
	coreScanner *scanner.Scanner[probe.Finding, scanner.Empty],
	header []string,
	noProgress bool,
	printJSON bool,
	outFile string,
) {
	c.scanner = coreScanner
	c.header = header
	c.noProgress = noProgress
	c.printJSON = printJSON
	c.outFile = outFile
	c.results = &Results{Items: []*Result{}}
	c.index = map[resultKey]int{}
	c.pw = progressWriter(c.out)
	c.tracker = &progress.Tracker{Message: "starting scan"}

	if noProgress {
		logger.SetGlobalLevel(zerolog.Disabled)
	} else {
		coreScanner.SetRequestNotifications(c.handleRequest)
	}
}

// Run implements the Runner Run method. In continuous mode it runs until
// ctx is cancelled, then prints the results gathered so far.
func (c *Core) Run(ctx context.Context) error {
	start := time.Now()

	if !c.noProgress {
		c.pw.AppendTracker(c.tracker)
		go c.pw.Render()
		defer c.pw.Stop()
	}

	stream := c.scanner.Scan(ctx)

	for o, err := range stream.All() {
		if err != nil {
			return err
		}

		c.processOutcome(o)
	}

	if err := c.printResults(); err != nil {
		return err
	}

	c.log.Info().Str("duration", time.Since(start).String()).Msg("go-netsweep complete")

	return nil
}

func (c *Core) processOutcome(o scanner.Outcome[probe.Finding, scanner.Empty]) {
	addr, err := netip.ParseAddr(o.Address)

	if err != nil {
		c.log.Error().Err(err).Str("address", o.Address).Msg("skipping unparsable address")
		return
	}

	finding, hit := o.Conclusion.HitData()

	result := &Result{
		Address:   addr,
		Interface: o.Interface,
		Hit:       hit,
		Finding:   finding,
	}

	if hit && c.scanner.Continuous() {
		c.log.Info().
			Str("address", o.Address).
			Str("interface", o.Interface).
			Str("finding", strings.Join(finding.Row(), " ")).
			Msg("host found")
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	key := resultKey{iface: result.Interface, address: result.Address}

	// continuous scans revisit addresses, keep the latest outcome
	if idx, ok := c.index[key]; ok {
		c.results.Items[idx] = result
		return
	}

	c.index[key] = len(c.results.Items)
	c.results.Items = append(c.results.Items, result)
}

// sortResults orders results by interface then address. Must be called
// with mux held, after which index no longer matches Items.
func (c *Core) sortResults() {
	slices.SortFunc(c.results.Items, func(r1, r2 *Result) int {
		if n := strings.Compare(r1.Interface, r2.Interface); n != 0 {
			return n
		}

		return r1.Address.Compare(r2.Address)
	})

	c.index = nil
}

func (c *Core) handleRequest(r *scanner.Request) {
	c.mux.Lock()
	defer c.mux.Unlock()

	switch r.Type {
	case scanner.SegmentRequest:
		c.tracker.Total += int64(r.Total)
		c.tracker.Message = segmentMessage(r)
	case scanner.ProbeRequest:
		c.tracker.Increment(1)
		c.tracker.Message = fmt.Sprintf("probing %s", r.Address)

		if c.tracker.IsDone() {
			c.tracker.Message = "scan complete"
		}
	}
}

func (c *Core) printResults() error {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.sortResults()

	if c.printJSON {
		data, err := c.results.MarshalJSON()

		if err != nil {
			return err
		}

		fmt.Fprintln(c.out, string(data))

		return c.writeReport(data)
	}

	resultTable := table.NewWriter()
	resultTable.SetOutputMirror(c.out)

	header := table.Row{"IP", "INTERFACE"}

	if c.scanner.ReportsMisses() {
		header = append(header, "STATUS")
	}

	for _, h := range c.header {
		header = append(header, h)
	}

	resultTable.AppendHeader(header)

	for _, r := range c.results.Items {
		row := table.Row{r.Address.String(), r.Interface}

		if c.scanner.ReportsMisses() {
			row = append(row, status(r.Hit))
		}

		for i := range c.header {
			cell := ""

			if r.Finding != nil {
				if values := r.Finding.Row(); i < len(values) {
					cell = values[i]
				}
			}

			row = append(row, cell)
		}

		resultTable.AppendRow(row)
	}

	output := resultTable.Render()

	return c.writeReport([]byte(output))
}

func (c *Core) writeReport(data []byte) error {
	if c.outFile == "" {
		return nil
	}

	if err := os.WriteFile(c.outFile, data, 0644); err != nil {
		c.log.Error().Err(err).Msg("failed to write output report")
		return err
	}

	return nil
}

// helpers
func status(hit bool) string {
	if hit {
		return "hit"
	}

	return "miss"
}

func segmentMessage(r *scanner.Request) string {
	if r.Interface == "" {
		return fmt.Sprintf("scanning %s", r.Segment)
	}

	return fmt.Sprintf("scanning %s on %s", r.Segment, r.Interface)
}

func progressWriter(out io.Writer) progress.Writer {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(25)
	pw.SetMessageWidth(47)
	pw.SetNumTrackersExpected(1)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%4.3f%%"

	return pw
}
