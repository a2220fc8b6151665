// SPDX-License-Identifier: GPL-3.0-or-later

package oui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	kloui "github.com/klauspost/oui"
)

// DefaultSourceURL location of the IEEE MA-L registry
const DefaultSourceURL = "https://standards-oui.ieee.org/oui/oui.txt"

// RepoOption represents an option for OUIVendorRepo
type RepoOption = func(r *OUIVendorRepo)

// WithSourceURL sets where the registry is downloaded from
func WithSourceURL(url string) RepoOption {
	return func(r *OUIVendorRepo) {
		r.url = url
	}
}

// WithFetchIfMissing sets whether the registry is downloaded when the
// backing file does not exist yet. Defaults to true. Without a download
// every query reports "unknown" until UpdateVendors succeeds.
func WithFetchIfMissing(fetch bool) RepoOption {
	return func(r *OUIVendorRepo) {
		r.fetchMissing = fetch
	}
}

// OUIVendorRepo implements the VendorRepo interface using a local copy of
// the IEEE registry
type OUIVendorRepo struct {
	ouiTxt       string
	url          string
	fetchMissing bool
	db           kloui.StaticDB
	dbMux        sync.RWMutex
}

// NewOUIVendorRepo returns a new instance of OUIVendorRepo backed by the
// file at ouiTxt. The registry is downloaded if the file does not exist,
// see WithFetchIfMissing.
func NewOUIVendorRepo(ouiTxt string, options ...RepoOption) (*OUIVendorRepo, error) {
	repo := &OUIVendorRepo{
		ouiTxt:       ouiTxt,
		url:          DefaultSourceURL,
		fetchMissing: true,
	}

	for _, o := range options {
		o(repo)
	}

	if _, err := os.Stat(ouiTxt); errors.Is(err, os.ErrNotExist) {
		if !repo.fetchMissing {
			return repo, nil
		}

		if err := repo.UpdateVendors(context.Background()); err != nil {
			return nil, err
		}

		return repo, nil
	}

	if err := repo.loadDatabase(); err != nil {
		return nil, err
	}

	return repo, nil
}

// UpdateVendors downloads the latest registry and reloads the database
func (r *OUIVendorRepo) UpdateVendors(ctx context.Context) error {
	dir := filepath.Dir(r.ouiTxt)

	if err := os.MkdirAll(dir, 0751); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)

	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download vendor registry: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return err
	}

	if err := os.WriteFile(r.ouiTxt, data, 0666); err != nil {
		return err
	}

	return r.loadDatabase()
}

// Query returns the vendor registered for mac. Unregistered prefixes
// return a result named "unknown".
func (r *OUIVendorRepo) Query(mac net.HardwareAddr) (*VendorResult, error) {
	result := &VendorResult{
		Name: "unknown",
	}

	r.dbMux.RLock()
	db := r.db
	r.dbMux.RUnlock()

	if db == nil {
		return result, nil
	}

	entry, err := db.Query(strings.ReplaceAll(mac.String(), ":", "-"))

	if errors.Is(err, kloui.ErrNotFound) {
		return result, nil
	}

	if err != nil {
		return nil, err
	}

	result.Name = entry.Manufacturer

	return result, nil
}

func (r *OUIVendorRepo) loadDatabase() error {
	db, err := kloui.OpenStaticFile(r.ouiTxt)

	if err != nil {
		return err
	}

	r.dbMux.Lock()
	r.db = db
	r.dbMux.Unlock()

	return nil
}
