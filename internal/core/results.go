// SPDX-License-Identifier: GPL-3.0-or-later

package core

import (
	"encoding/json"
	"net/netip"

	"github.com/robgonnella/go-netsweep/pkg/probe"
)

// Result represents the latest outcome for one address
type Result struct {
	Address   netip.Addr
	Interface string
	Hit       bool
	Finding   probe.Finding
}

// Serializable returns a json friendly representation of the result
func (r *Result) Serializable() interface{} {
	return struct {
		Address   string        `json:"address"`
		Interface string        `json:"interface,omitempty"`
		Hit       bool          `json:"hit"`
		Finding   probe.Finding `json:"finding,omitempty"`
	}{
		Address:   r.Address.String(),
		Interface: r.Interface,
		Hit:       r.Hit,
		Finding:   r.Finding,
	}
}

// Results collection of results ordered by interface then address
type Results struct {
	Items []*Result `json:"items"`
}

// MarshalJSON renders results as a json array
func (r *Results) MarshalJSON() ([]byte, error) {
	data := []interface{}{}

	for _, item := range r.Items {
		data = append(data, item.Serializable())
	}

	return json.Marshal(data)
}
