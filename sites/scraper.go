package sites

import (
	"errors"
	"log/slog"

	"github.com/DDDesignDev/homelab/normalize"
)

var (
	// ErrSiteUnsupported is returned for hosts with no registered scraper.
	ErrSiteUnsupported = errors.New("sites: website not supported")

	// ErrFieldNotFound is returned by an accessor when the page does not
	// carry the field.
	ErrFieldNotFound = errors.New("sites: field not found")
)

// Scraper exposes a recipe page field by field. Each accessor may fail on
// its own; callers must not assume that one failing accessor says anything
// about the others.
type Scraper interface {
	Title() (string, error)
	Author() (string, error)
	CanonicalURL() (string, error)
	TotalTime() (int, error) // minutes
	Yields() (string, error)
	Image() (any, error)
	Ingredients() ([]string, error)
	Instructions() ([]string, error)
	Nutrients() (map[string]any, error)
}

// Status tags the outcome of Registry.Scrape.
type Status int

const (
	StatusSupported Status = iota
	StatusUnsupported
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSupported:
		return "supported"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "failed"
	}
}

// Fields is what a supported scraper produced. Scalars are nil when the
// accessor failed or returned nothing.
type Fields struct {
	Title        *string
	Author       *string
	CanonicalURL *string
	TotalTime    *int
	Yields       *string
	Image        *string
	Ingredients  []string
	Instructions []string
	Nutrients    map[string]any
}

// Result is the tagged outcome of a scrape. Fields is only meaningful when
// Status is StatusSupported; Err is set otherwise.
type Result struct {
	Status Status
	Fields Fields
	Err    error
}

// collect runs every accessor independently.
func collect(s Scraper) Fields {
	var f Fields

	if v, ok := try("title", s.Title); ok && v != "" {
		f.Title = &v
	}
	if v, ok := try("author", s.Author); ok && v != "" {
		f.Author = &v
	}
	if v, ok := try("canonical_url", s.CanonicalURL); ok && v != "" {
		f.CanonicalURL = &v
	}
	if v, ok := try("total_time", s.TotalTime); ok && v >= 0 {
		f.TotalTime = &v
	}
	if v, ok := try("yields", s.Yields); ok && v != "" {
		f.Yields = &v
	}
	if v, ok := try("image", s.Image); ok {
		if u, ok := normalize.ImageURL(v); ok {
			f.Image = &u
		}
	}

	f.Ingredients, _ = try("ingredients", s.Ingredients)
	if f.Ingredients == nil {
		f.Ingredients = []string{}
	}
	f.Instructions, _ = try("instructions", s.Instructions)
	if f.Instructions == nil {
		f.Instructions = []string{}
	}
	f.Nutrients, _ = try("nutrients", s.Nutrients)
	if f.Nutrients == nil {
		f.Nutrients = map[string]any{}
	}

	return f
}

// try calls one accessor, turning both errors and panics into ok=false.
func try[T any](field string, fn func() (T, error)) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("sites: accessor panicked", "field", field, "panic", r)
			var zero T
			v, ok = zero, false
		}
	}()

	got, err := fn()
	if err != nil {
		slog.Debug("sites: accessor failed", "field", field, "error", err)
		return v, false
	}
	return got, true
}
