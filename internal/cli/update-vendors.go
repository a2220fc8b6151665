// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"

	"github.com/robgonnella/go-netsweep/internal/logger"
	"github.com/robgonnella/go-netsweep/pkg/oui"
)

func newUpdateVendors(vendorRepo VendorRepoFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "update-vendors",
		Short: "Updates static vendors database",
		Long: `Updates the static file used for vendor lookups. This file can
be found at ~/.config/go-netsweep/oui.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the download below covers a missing file
			repo, err := vendorRepo(oui.WithFetchIfMissing(false))

			if err != nil {
				return err
			}

			logger.New().Info().Msg("updating vendor database")

			return repo.UpdateVendors(cmd.Context())
		},
	}
}
