package sites

import "github.com/andybalholm/cascadia"

// Dotdash Meredith properties share one structured-content theme, with a
// per-brand class prefix.
var (
	allRecipesMarkup = markup{
		author:       cascadia.MustCompile(".mntl-attribution__item-name"),
		ingredients:  cascadia.MustCompile("li.mm-recipes-structured-ingredients__list-item, li.mntl-structured-ingredients__list-item"),
		instructions: cascadia.MustCompile("#mm-recipes-steps__content_1-0 ol > li > p, #mntl-sc-block_2-0 ol > li > p"),
	}
	seriousEatsMarkup = markup{
		author:       cascadia.MustCompile(".mntl-attribution__item-name"),
		ingredients:  cascadia.MustCompile("li.structured-ingredients__list-item"),
		instructions: cascadia.MustCompile("ol.mntl-sc-block-group--OL > li > p.mntl-sc-block-html"),
	}
)

// NewAllRecipes is the Constructor for allrecipes.com.
func NewAllRecipes(p *Page) (Scraper, error) {
	return newThemed(p, allRecipesMarkup)
}

// NewSeriousEats is the Constructor for seriouseats.com.
func NewSeriousEats(p *Page) (Scraper, error) {
	return newThemed(p, seriousEatsMarkup)
}
