package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/DDDesignDev/homelab/config"
)

// Engine is the interface that all fetch engines must implement.
//
// A fetch that gets no response, or a response with a non-2xx status, fails
// with *models.FetchError. Engines never retry.
type Engine interface {
	// Name returns the engine identifier ("http" or "browser").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL       string
	UserAgent string
	Headers   map[string]string
	Timeout   time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}

// New returns the engine selected by cfg.Scraper.FetchMode. The browser
// engine launches Chromium; call Close on it during shutdown.
func New(cfg *config.Config) (Engine, error) {
	switch cfg.Scraper.FetchMode {
	case "", "http":
		return NewHTTPEngine(cfg.Scraper.MaxBodyBytes), nil
	case "browser":
		return NewBrowserEngine(cfg.Browser, cfg.Scraper)
	default:
		return nil, fmt.Errorf("engine: unknown fetch mode %q", cfg.Scraper.FetchMode)
	}
}
