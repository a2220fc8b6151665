// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robgonnella/go-netsweep/internal/cli"
	"github.com/robgonnella/go-netsweep/internal/core"
	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/pkg/network"
	"github.com/robgonnella/go-netsweep/pkg/oui"
)

func main() {
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var userNet network.Network

	defaultNet, err := network.NewDefaultNetwork()

	if err != nil {
		log.Warn().Err(err).Msg("failed to find default network")
	} else {
		userNet = defaultNet
	}

	vendorRepo := func(options ...oui.RepoOption) (oui.VendorRepo, error) {
		return oui.GetDefaultVendorRepo(options...)
	}

	runner := core.New()

	cmd := cli.Root(runner, userNet, vendorRepo)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("command encountered an error")
	}
}
