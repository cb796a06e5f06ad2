// Package network provides the tuned HTTP client used against the Bilibili API.
package network

import (
	"net/http"
	"time"

	"github.com/bilisonic/bilisonic/key"
	"github.com/spf13/viper"
)

// DefaultTimeout applies when network.timeout_s is not positive.
const DefaultTimeout = 30 * time.Second

// New returns an HTTP client configured from the user's settings.
// With network.tls_fingerprint enabled, TLS handshakes mimic a Chrome browser.
func New() *http.Client {
	timeout := time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = newTransport(timeout)
	if viper.GetBool(key.NetworkTLSFingerprint) {
		transport = newFingerprintTransport(timeout)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = timeout
	t.ExpectContinueTimeout = time.Second
	return t
}
