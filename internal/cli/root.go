// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robgonnella/go-netsweep/internal/core"
	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/internal/util"
	"github.com/robgonnella/go-netsweep/pkg/network"
	"github.com/robgonnella/go-netsweep/pkg/oui"
	"github.com/robgonnella/go-netsweep/pkg/probe"
	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

// ErrNoDefaultNetwork returned when a flag requires the default network
// but none could be detected
var ErrNoDefaultNetwork = errors.New("default network not detected")

// VendorRepoFactory returns the vendor repo on first use so the vendor
// database is only downloaded when needed
type VendorRepoFactory = func(options ...oui.RepoOption) (oui.VendorRepo, error)

type rootFlags struct {
	network         string
	netmask         string
	interfaces      []string
	includeLoopback bool
	defaultOnly     bool
	once            bool
	misses          bool
	limit           int
	probe           string
	ports           string
	timeoutSeconds  int
	printJSON       bool
	noProgress      bool
	outFile         string
	vendor          bool
	verbose         bool
}

// Root returns the root command. userNet may be nil when no default
// network could be detected.
func Root(
	runner core.Runner,
	userNet network.Network,
	vendorRepo VendorRepoFactory,
) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "go-netsweep",
		Short: "Sweep your networks!",
		Long: `CLI to find hosts satisfying a probe on a network, or
continuously on every local interface`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags, runner, userNet, vendorRepo)
		},
	}

	cmd.Flags().StringVarP(&flags.network, "network", "n", "", "scan a single network given as an address or cidr i.e. 192.168.1.0/24")
	cmd.Flags().StringVarP(&flags.netmask, "netmask", "m", "", "netmask for --network when it is not a cidr i.e. 255.255.255.0")
	cmd.Flags().StringSliceVarP(&flags.interfaces, "interface", "i", []string{}, "only scan the named local interfaces")
	cmd.Flags().BoolVar(&flags.includeLoopback, "include-loopback", false, "include loopback interfaces when scanning local interfaces")
	cmd.Flags().BoolVar(&flags.defaultOnly, "default-only", false, "only scan the interface used by the default route")
	cmd.Flags().BoolVar(&flags.once, "once", false, "scan local interfaces once instead of watching for changes")
	cmd.Flags().BoolVar(&flags.misses, "misses", false, "include addresses that did not satisfy the probe")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", 256, "maximum number of probes in flight")
	cmd.Flags().StringVar(&flags.probe, "probe", "tcp", "probe to run against each address: tcp, https or arp")
	cmd.Flags().StringVarP(&flags.ports, "ports", "p", "22,80,443", "ports for the tcp probe; the first port is used by the https probe")
	cmd.Flags().IntVar(&flags.timeoutSeconds, "timeout", 1, "per probe timeout in seconds")
	cmd.Flags().BoolVar(&flags.printJSON, "json", false, "output json instead of table text")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "disable all output except for final results")
	cmd.Flags().StringVar(&flags.outFile, "out-file", "", "write final results to this file")
	cmd.Flags().BoolVar(&flags.vendor, "vendor", false, "include vendor info with arp results")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log scan progress at debug level")

	cmd.AddCommand(newVersion())
	cmd.AddCommand(newUpdateVendors(vendorRepo))

	return cmd
}

func runRoot(
	cmd *cobra.Command,
	flags *rootFlags,
	runner core.Runner,
	userNet network.Network,
	vendorRepo VendorRepoFactory,
) error {
	if flags.verbose {
		logger.SetGlobalLevel(zerolog.DebugLevel)
	}

	log := logger.New()

	options := []scanner.Option{
		scanner.WithConcurrencyLimit(flags.limit),
		scanner.WithReportMisses(flags.misses),
	}

	segment, fixed, err := flags.segment()

	if err != nil {
		return err
	}

	filters := []func(s network.Snapshot) bool{}

	if !flags.includeLoopback {
		filters = append(filters, network.ExcludeLoopback)
	}

	if len(flags.interfaces) > 0 {
		filters = append(filters, network.AllowNames(flags.interfaces...))
	}

	if flags.defaultOnly {
		if userNet == nil {
			return ErrNoDefaultNetwork
		}

		filters = append(filters, network.InterfaceFilter(userNet))
	}

	var findingProbe scanner.Probe[probe.Finding, scanner.Empty]
	var header []string

	timeout := time.Second * time.Duration(flags.timeoutSeconds)

	switch strings.ToLower(flags.probe) {
	case "tcp":
		ports, err := util.ParsePorts(strings.Split(flags.ports, ","))

		if err != nil {
			return err
		}

		findingProbe = probe.AsFinding(probe.TCP(ports, probe.WithTCPTimeout(timeout)))
		header = probe.HeaderOf[probe.TCPHit]()
	case "https":
		httpOptions := []probe.HTTPOption{probe.WithHTTPTimeout(timeout)}

		if cmd.Flags().Changed("ports") {
			ports, err := util.ParsePorts(strings.Split(flags.ports, ","))

			if err != nil {
				return err
			}

			httpOptions = append(httpOptions, probe.WithHTTPPort(ports[0]))
		}

		findingProbe = probe.AsFinding(probe.HTTPSHead(httpOptions...))
		header = probe.HeaderOf[probe.HTTPHit]()
	case "arp":
		arpNet, err := arpNetwork(flags, userNet)

		if err != nil {
			return err
		}

		arpOptions := []probe.ARPOption{probe.WithARPTimeout(timeout)}

		if flags.vendor {
			repo, err := vendorRepo()

			if err != nil {
				return err
			}

			arpOptions = append(arpOptions, probe.WithVendorInfo(repo))
		}

		prober := probe.NewARPProber(arpNet, arpOptions...)

		if err := prober.Start(); err != nil {
			return err
		}

		defer prober.Stop()

		// arp only reaches hosts on the prober's own link
		filters = append(filters, network.InterfaceFilter(arpNet))

		findingProbe = probe.AsFinding(prober.Probe())
		header = probe.HeaderOf[probe.ARPHit]()
	default:
		return fmt.Errorf("unknown probe %q: must be one of tcp, https, arp", flags.probe)
	}

	log.Debug().
		Str("probe", flags.probe).
		Bool("fixed", fixed).
		Int("limit", flags.limit).
		Msg("starting scan")

	if fixed {
		options = append(options, scanner.WithNetwork(segment))
	} else {
		options = append(
			options,
			scanner.WithInterfaceFilter(allOf(filters...)),
			scanner.WithOneFullScanOnly(flags.once),
		)
	}

	runner.Initialize(
		scanner.New(findingProbe, options...),
		header,
		flags.noProgress,
		flags.printJSON,
		flags.outFile,
	)

	return runner.Run(cmd.Context())
}

// segment returns the fixed network to scan. The second return value is
// false when local interfaces should be scanned instead.
func (f *rootFlags) segment() (network.Segment, bool, error) {
	if f.network == "" {
		if f.netmask != "" {
			return network.Segment{}, false, errors.New("--netmask requires --network")
		}

		return network.Segment{}, false, nil
	}

	if strings.Contains(f.network, "/") {
		if f.netmask != "" {
			return network.Segment{}, false, errors.New("--netmask cannot be combined with a cidr --network")
		}

		seg, err := network.ParseSegment(f.network)

		return seg, err == nil, err
	}

	if f.netmask == "" {
		return network.Segment{}, false, errors.New("--network requires --netmask when it is not a cidr")
	}

	base, err := netip.ParseAddr(f.network)

	if err != nil {
		return network.Segment{}, false, fmt.Errorf("%w: %w", network.ErrInvalidSegment, err)
	}

	mask, err := netip.ParseAddr(f.netmask)

	if err != nil {
		return network.Segment{}, false, fmt.Errorf("%w: %w", network.ErrInvalidSegment, err)
	}

	seg, err := network.NewSegment(base, mask)

	return seg, err == nil, err
}

// arpNetwork returns the network the arp prober is bound to: the single
// interface named by --interface, otherwise the default network
func arpNetwork(flags *rootFlags, userNet network.Network) (network.Network, error) {
	switch len(flags.interfaces) {
	case 0:
		if userNet == nil {
			return nil, ErrNoDefaultNetwork
		}

		return userNet, nil
	case 1:
		return network.NewNetworkFromInterfaceName(flags.interfaces[0])
	default:
		return nil, errors.New("arp probe supports a single --interface")
	}
}

func allOf(filters ...func(s network.Snapshot) bool) func(s network.Snapshot) bool {
	return func(s network.Snapshot) bool {
		return util.SliceEvery(filters, func(f func(s network.Snapshot) bool) bool {
			return f(s)
		})
	}
}
