package models

// NormalizedRecipe is the unified output of a scrape, whichever extraction
// path produced it. Optional fields serialize as null when absent.
type NormalizedRecipe struct {
	URL              string         `json:"url"`
	Title            *string        `json:"title"`
	Author           *string        `json:"author"`
	CanonicalURL     *string        `json:"canonical_url"`
	TotalTimeMinutes *int           `json:"total_time_minutes"`
	PrepTimeMinutes  *int           `json:"prep_time_minutes"`
	CookTimeMinutes  *int           `json:"cook_time_minutes"`
	Yields           *string        `json:"yields"`
	Image            *string        `json:"image"`
	Ingredients      []string       `json:"ingredients"`
	Instructions     []string       `json:"instructions"`
	Nutrition        map[string]any `json:"nutrition"`
}

// ScrapeRequest is the payload for POST /api/scrape on the recipe-scraper
// service and on the recipes service proxy.
type ScrapeRequest struct {
	// URL is the recipe page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the fetch deadline in seconds. Default: 20. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// MaxAge allows a cached result younger than this many seconds to be
	// returned without fetching. Default: 0 (no cache).
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 20
	}
}
