// SPDX-License-Identifier: GPL-3.0-or-later

package oui_test

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/robgonnella/go-netsweep/pkg/oui"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultOuiTxtPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()

	assert.NoError(t, err)

	t.Run("returns default oui.txt path", func(st *testing.T) {
		filePath, err := oui.GetDefaultOuiTxtPath()

		assert.NoError(st, err)
		assert.Equal(st, filepath.Join(homeDir, ".config", "go-netsweep", "oui.txt"), filePath)
	})
}

func TestOUIVendorRepo(t *testing.T) {
	t.Run("returns error when registry download fails", func(st *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ouiTxt := filepath.Join(st.TempDir(), "nested", "oui.txt")

		repo, err := oui.NewOUIVendorRepo(ouiTxt, oui.WithSourceURL(server.URL))

		assert.Error(st, err)
		assert.Nil(st, repo)

		_, err = os.Stat(ouiTxt)
		assert.True(st, os.IsNotExist(err))
	})

	t.Run("returns error when registry is unreachable", func(st *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		ouiTxt := filepath.Join(st.TempDir(), "oui.txt")

		_, err := oui.NewOUIVendorRepo(ouiTxt, oui.WithSourceURL(url))

		assert.Error(st, err)
	})

	t.Run("skips download when fetching is disabled", func(st *testing.T) {
		downloads := atomic.Int32{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			downloads.Add(1)
		}))
		defer server.Close()

		ouiTxt := filepath.Join(st.TempDir(), "oui.txt")

		repo, err := oui.NewOUIVendorRepo(
			ouiTxt,
			oui.WithSourceURL(server.URL),
			oui.WithFetchIfMissing(false),
		)

		assert.NoError(st, err)
		assert.Equal(st, int32(0), downloads.Load())

		result, err := repo.Query(net.HardwareAddr{0x00, 0x00, 0x0c, 0x12, 0x34, 0x56})

		assert.NoError(st, err)
		assert.Equal(st, "unknown", result.Name)
	})

	t.Run("downloads missing registry once and answers queries", func(st *testing.T) {
		downloads := atomic.Int32{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			downloads.Add(1)
			fmt.Fprint(w, "00-00-0C   (hex)\t\tCisco Systems, Inc\n")
		}))
		defer server.Close()

		ouiTxt := filepath.Join(st.TempDir(), "oui.txt")

		repo, err := oui.NewOUIVendorRepo(ouiTxt, oui.WithSourceURL(server.URL))

		assert.NoError(st, err)
		assert.Equal(st, int32(1), downloads.Load())

		result, err := repo.Query(net.HardwareAddr{0x00, 0x00, 0x0c, 0x12, 0x34, 0x56})

		assert.NoError(st, err)
		assert.Equal(st, "Cisco Systems, Inc", result.Name)

		reopened, err := oui.NewOUIVendorRepo(ouiTxt, oui.WithSourceURL(server.URL))

		assert.NoError(st, err)
		assert.NotNil(st, reopened)
		assert.Equal(st, int32(1), downloads.Load())
	})
}
