package security

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"
)

// GoogleHosts are the endpoints the OAuth flow and the Calendar API talk to.
var GoogleHosts = []string{
	"www.googleapis.com",
	"oauth2.googleapis.com",
	"accounts.google.com",
	"calendar-json.googleapis.com",
}

const userAgent = "remind-me-the-hard-way/1.0"

// allowlistTransport rejects requests to hosts outside its allowlist and
// stamps a user agent on the rest.
type allowlistTransport struct {
	base    http.RoundTripper
	allowed map[string]struct{}
}

func (t *allowlistTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := strings.ToLower(req.URL.Hostname())
	if _, ok := t.allowed[host]; !ok {
		return nil, &HostError{Host: host}
	}

	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns a TLS 1.2+ client restricted to allowedHosts.
// No overall request timeout is applied: callers bound requests with their
// context.
func NewHTTPClient(allowedHosts ...string) *http.Client {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[strings.ToLower(h)] = struct{}{}
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: &allowlistTransport{base: base, allowed: allowed},
	}
}
