// SPDX-License-Identifier: GPL-3.0-or-later

package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/robgonnella/go-netsweep/pkg/scanner"
)

const defaultHTTPSPort uint16 = 443

// HTTPHit hit payload of the https probe
type HTTPHit struct {
	StatusCode int    `json:"statusCode"`
	Server     string `json:"server"`
}

// Header implements Finding
func (h HTTPHit) Header() []string {
	return []string{"Status", "Server"}
}

// Row implements Finding
func (h HTTPHit) Row() []string {
	return []string{strconv.Itoa(h.StatusCode), h.Server}
}

type httpConfig struct {
	port     uint16
	timeout  time.Duration
	insecure bool
	client   *http.Client
}

// HTTPOption represents an option for the https probe
type HTTPOption = func(c *httpConfig)

// WithHTTPPort sets the port requests are sent to
func WithHTTPPort(port uint16) HTTPOption {
	return func(c *httpConfig) {
		if port != 0 {
			c.port = port
		}
	}
}

// WithHTTPTimeout sets the overall timeout for each request
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(c *httpConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInsecureTLS sets whether server certificates are verified. Devices
// on a local network rarely present verifiable certificates, so
// verification is skipped by default.
func WithInsecureTLS(insecure bool) HTTPOption {
	return func(c *httpConfig) {
		c.insecure = insecure
	}
}

// WithHTTPClient replaces the client used to send requests. Timeout and
// tls options are ignored when set.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *httpConfig) {
		c.client = client
	}
}

// HTTPSHead returns a probe sending an HTTPS HEAD request to the address.
// Any HTTP response is a hit; transport failures are misses.
func HTTPSHead(options ...HTTPOption) scanner.Probe[HTTPHit, scanner.Empty] {
	conf := &httpConfig{
		port:     defaultHTTPSPort,
		timeout:  defaultTimeout,
		insecure: true,
	}

	for _, o := range options {
		o(conf)
	}

	client := conf.client

	if client == nil {
		client = &http.Client{
			Timeout: conf.timeout,
			// one request per host, so connections are never reused
			Transport: &http.Transport{
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: conf.insecure},
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	port := strconv.Itoa(int(conf.port))

	return func(ctx context.Context, address string) (scanner.Conclusion[HTTPHit, scanner.Empty], error) {
		addr, err := parseAddress(address)

		if err != nil {
			return scanner.Conclusion[HTTPHit, scanner.Empty]{}, err
		}

		url := fmt.Sprintf("https://%s/", net.JoinHostPort(addr.String(), port))

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)

		if err != nil {
			return scanner.Conclusion[HTTPHit, scanner.Empty]{}, err
		}

		resp, err := client.Do(req)

		if ctx.Err() != nil {
			if resp != nil {
				resp.Body.Close()
			}

			return scanner.Conclusion[HTTPHit, scanner.Empty]{}, ctx.Err()
		}

		if err != nil {
			return scanner.Miss[HTTPHit](scanner.Empty{}), nil
		}

		defer resp.Body.Close()

		return scanner.Hit[HTTPHit, scanner.Empty](HTTPHit{
			StatusCode: resp.StatusCode,
			Server:     resp.Header.Get("Server"),
		}), nil
	}
}
