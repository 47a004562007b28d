package urltitle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"titlebot/internal/logger"
	"titlebot/internal/webclient"
)

const (
	ShortenTimeout = 5 * time.Second

	maxShortURLBytes = 2048
)

// Shortener returns a short form for long URLs.
type Shortener interface {
	Shorten(ctx context.Context, url string) (string, bool)
}

// ShortenerCache asks a tinyurl-style service for short URLs and remembers
// every successful answer for the life of the process. Failures are not
// remembered, so the next occurrence of the URL tries again.
//
// The cache never evicts.
type ShortenerCache struct {
	minLength int
	endpoint  string
	client    *http.Client

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// NewShortenerCache creates a cache for URLs of at least minLength characters.
// A minLength of 0 disables shortening.
func NewShortenerCache(minLength int, endpoint string, client *http.Client) *ShortenerCache {
	if client == nil {
		client = webclient.New(ShortenTimeout, true)
	}
	return &ShortenerCache{
		minLength: minLength,
		endpoint:  endpoint,
		client:    client,
		cache:     make(map[string]string),
	}
}

// Shorten returns the short form of long URLs, or false when the URL is short
// enough, shortening is disabled or the service failed.
func (s *ShortenerCache) Shorten(ctx context.Context, longURL string) (string, bool) {
	if s.minLength <= 0 || utf8.RuneCountInString(longURL) < s.minLength {
		return "", false
	}

	s.mu.RLock()
	short, ok := s.cache[longURL]
	s.mu.RUnlock()
	if ok {
		return short, true
	}

	v, err, _ := s.group.Do(longURL, func() (interface{}, error) {
		short, err := s.request(ctx, longURL)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.cache[longURL] = short
		s.mu.Unlock()
		return short, nil
	})
	if err != nil {
		logger.Warnf("Failed to shorten %s: %v", longURL, err)
		return "", false
	}
	return v.(string), true
}

// Len returns the number of cached URLs.
func (s *ShortenerCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *ShortenerCache) request(ctx context.Context, longURL string) (string, error) {
	sep := "?"
	if strings.Contains(s.endpoint, "?") {
		sep = "&"
	}
	req, err := webclient.NewRequest(ctx, http.MethodGet, s.endpoint+sep+"url="+url.QueryEscape(longURL))
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("shortener request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shortener returned status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxShortURLBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read shortener response: %w", err)
	}

	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", fmt.Errorf("shortener returned an empty body")
	}
	if strings.HasPrefix(short, "http://") {
		short = "https://" + strings.TrimPrefix(short, "http://")
	}
	return short, nil
}
