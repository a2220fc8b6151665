// SPDX-License-Identifier: GPL-3.0-or-later

package oui

import (
	"os"
	"path/filepath"
)

// ConfigDir is the directory under the user's home holding go-netsweep
// state
const ConfigDir = ".config/go-netsweep"

// GetDefaultVendorRepo returns a klauspost/oui backed repo reading
// oui.txt from the default config location
func GetDefaultVendorRepo(options ...RepoOption) (*OUIVendorRepo, error) {
	ouiTxt, err := GetDefaultOuiTxtPath()

	if err != nil {
		return nil, err
	}

	return NewOUIVendorRepo(ouiTxt, options...)
}

// GetDefaultOuiTxtPath returns ~/.config/go-netsweep/oui.txt
func GetDefaultOuiTxtPath() (string, error) {
	home, err := os.UserHomeDir()

	if err != nil {
		return "", err
	}

	return filepath.Join(home, filepath.FromSlash(ConfigDir), "oui.txt"), nil
}
