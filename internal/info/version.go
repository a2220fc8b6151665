// SPDX-License-Identifier: GPL-3.0-or-later

package info

// VERSION the current version of go-netsweep
const VERSION = "v0.1.0"
