// Package webclient builds the HTTP clients shared by the title resolver,
// the shortener and the lookup commands.
package webclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"titlebot/internal"
)

const (
	DefaultTimeout = 5 * time.Second
	maxRedirects   = 10
)

// New returns a client with the given timeout that follows at most 10 redirects.
// When verifyTLS is false, certificate errors are ignored.
func New(timeout time.Duration, verifyTLS bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// NewRequest creates a request carrying the bot's User-Agent.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	return req, nil
}
