// SPDX-License-Identifier: GPL-3.0-or-later

package core

import (
	"context"

	"github.com/robgonnella/go-netsweep/pkg/probe"
	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

//go:generate mockgen -destination=../mock/core/core.go -package=mock_core . Runner

// Runner interface for running one scan from the cli
type Runner interface {
	Initialize(
		coreScanner *scanner.Scanner[probe.Finding, scanner.Empty],
		header []string,
		noProgress bool,
		printJSON bool,
		outFile string,
	)
	Run(ctx context.Context) error
}
