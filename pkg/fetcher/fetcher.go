// Package fetcher retrieves pages so their markup can be cleaned.
// The static fetcher issues a plain HTTP request; the dynamic fetcher drives
// a headless browser for pages that build their content with JavaScript.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type ("static" or "dynamic").
	Type() string
}

// Options controls a single fetch.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector to wait for (dynamic only)
	WaitDuration    time.Duration // Additional wait after load (dynamic only)
	Headers         map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Config holds settings shared by every fetch of one fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultConfig().Timeout
	}
	return c
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrUnexpectedStatus).
var (
	// ErrFetchFailed indicates the page could not be retrieved at all.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrUnexpectedStatus indicates the server answered with an error status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// New returns the fetcher for kind: "static" (or "") or "dynamic".
func New(kind string, cfg Config) (Fetcher, error) {
	switch kind {
	case "", "static":
		return NewStatic(cfg), nil
	case "dynamic":
		return NewDynamic(cfg)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", kind)
	}
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
