package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// fingerprintTransport sends requests over connections whose Client Hello looks like
// Chrome's. HTTP/2 is tried first; servers that refuse it get HTTP/1.1.
type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newFingerprintTransport(timeout time.Duration) *fingerprintTransport {
	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, timeout, nil)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, network, addr, timeout, []string{"http/1.1"})
			},
			ResponseHeaderTimeout: timeout,
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	// Only bodiless requests can be replayed.
	if req.Body != nil && req.Body != http.NoBody {
		return nil, err
	}

	return t.h1.RoundTrip(req)
}

// dialChrome opens a TLS connection using the Chrome 120 fingerprint.
// A nil protos keeps Chrome's own ALPN list (h2 and http/1.1).
func dialChrome(ctx context.Context, network, addr string, timeout time.Duration, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
