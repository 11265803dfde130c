package sites

import (
	"strings"

	"github.com/DDDesignDev/homelab/normalize"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// WP Recipe Maker recipe card.
var wprmMarkup = markup{
	title:        cascadia.MustCompile(".wprm-recipe-name"),
	author:       cascadia.MustCompile(".wprm-recipe-author"),
	ingredients:  cascadia.MustCompile("li.wprm-recipe-ingredient"),
	instructions: cascadia.MustCompile(".wprm-recipe-instruction-text"),
}

var (
	wprmServings      = cascadia.MustCompile(".wprm-recipe-servings")
	wprmServingsUnit  = cascadia.MustCompile(".wprm-recipe-servings-unit")
	wprmTotalMinutes  = cascadia.MustCompile(".wprm-recipe-total_time-minutes")
	wprmTotalHours    = cascadia.MustCompile(".wprm-recipe-total_time-hours")
	wprmNutrition     = cascadia.MustCompile(".wprm-nutrition-label-text-nutrition-container")
	wprmNutritionName = cascadia.MustCompile(".wprm-nutrition-label-text-nutrition-label")
)

// WPRM scrapes sites running the WP Recipe Maker plugin.
type WPRM struct {
	*themed
}

// NewWPRM is the Constructor for WP Recipe Maker sites.
func NewWPRM(p *Page) (Scraper, error) {
	t, err := newThemed(p, wprmMarkup)
	if err != nil {
		return nil, err
	}
	return &WPRM{themed: t}, nil
}

func (w *WPRM) Yields() (string, error) {
	count := w.first(wprmServings)
	if count == "" {
		return w.themed.Yields()
	}
	if unit := w.first(wprmServingsUnit); unit != "" {
		return count + " " + unit, nil
	}
	y, _ := formatYields(count)
	return y, nil
}

func (w *WPRM) TotalTime() (int, error) {
	if total, err := w.Base.TotalTime(); err == nil {
		return total, nil
	}
	hours, okH := normalize.ParseFirstInteger(w.first(wprmTotalHours))
	minutes, okM := normalize.ParseFirstInteger(w.first(wprmTotalMinutes))
	if !okH && !okM {
		return 0, ErrFieldNotFound
	}
	return hours*60 + minutes, nil
}

// Nutrients prefers schema.org data and reads the rendered nutrition label
// otherwise, keyed by the label text ("Calories", "Saturated Fat").
func (w *WPRM) Nutrients() (map[string]any, error) {
	if n, err := w.Base.Nutrients(); err == nil {
		return n, nil
	}
	doc, err := w.page.Document()
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	doc.FindMatcher(wprmNutrition).Each(func(_ int, s *goquery.Selection) {
		label := normalize.CollapseSpace(s.FindMatcher(wprmNutritionName).Text())
		value := strings.TrimSpace(strings.TrimPrefix(normalize.CollapseSpace(s.Text()), label))
		name := strings.TrimSuffix(label, ":")
		if name != "" && value != "" {
			out[name] = value
		}
	})
	if len(out) == 0 {
		return nil, ErrFieldNotFound
	}
	return out, nil
}
