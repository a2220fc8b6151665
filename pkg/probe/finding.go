// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"context"

	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

// Finding is implemented by the hit payload of every built-in probe so
// callers can render results without knowing which probe produced them.
// Header must be callable on the zero value.
type Finding interface {
	Header() []string
	Row() []string
}

// AsFinding adapts a probe whose hit payload implements Finding into a
// probe producing Finding hits
func AsFinding[H Finding](p scanner.Probe[H, scanner.Empty]) scanner.Probe[Finding, scanner.Empty] {
	return func(ctx context.Context, address string) (scanner.Conclusion[Finding, scanner.Empty], error) {
		c, err := p(ctx, address)

		if err != nil {
			return scanner.Conclusion[Finding, scanner.Empty]{}, err
		}

		if hit, ok := c.HitData(); ok {
			return scanner.Hit[Finding, scanner.Empty](hit), nil
		}

		return scanner.Miss[Finding](scanner.Empty{}), nil
	}
}

// HeaderOf returns the column names for findings of type H
func HeaderOf[H Finding]() []string {
	var zero H
	return zero.Header()
}
