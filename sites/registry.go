package sites

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Constructor builds a Scraper for an already fetched page.
type Constructor func(p *Page) (Scraper, error)

// Registry maps hosts (without "www.") to scraper constructors.
type Registry struct {
	sites map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sites: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry with every built-in site.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// WP Recipe Maker
	for _, host := range []string{"budgetbytes.com", "cookieandkate.com", "minimalistbaker.com"} {
		r.Register(host, NewWPRM)
	}

	// Tasty Recipes
	r.Register("pinchofyum.com", NewTasty)

	// Dotdash Meredith
	r.Register("allrecipes.com", NewAllRecipes)
	r.Register("seriouseats.com", NewSeriousEats)

	// schema.org only
	for _, host := range []string{"bbcgoodfood.com", "food.com"} {
		r.Register(host, NewSchemaOnly)
	}

	return r
}

// Register adds or replaces the constructor for host.
func (r *Registry) Register(host string, c Constructor) {
	r.sites[strings.TrimPrefix(strings.ToLower(host), "www.")] = c
}

// Lookup returns the constructor registered for pageURL's host. The error
// wraps ErrSiteUnsupported when no site matches.
func (r *Registry) Lookup(pageURL string) (Constructor, error) {
	host, err := hostOf(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSiteUnsupported, err)
	}
	c, ok := r.sites[host]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSiteUnsupported, host)
	}
	return c, nil
}

// Scrape runs the site scraper for pageURL over rawHTML. It never panics:
// an unknown host yields StatusUnsupported, and a constructor error or panic
// yields StatusFailed.
func (r *Registry) Scrape(pageURL, rawHTML string) (res Result) {
	ctor, err := r.Lookup(pageURL)
	if err != nil {
		return Result{Status: StatusUnsupported, Err: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("sites: scraper panicked", "url", pageURL, "panic", rec)
			res = Result{Status: StatusFailed, Err: fmt.Errorf("sites: scraper panicked: %v", rec)}
		}
	}()

	s, err := ctor(NewPage(pageURL, rawHTML))
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	return Result{Status: StatusSupported, Fields: collect(s)}
}

func hostOf(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in %q", pageURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}
