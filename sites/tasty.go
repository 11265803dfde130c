package sites

import "github.com/andybalholm/cascadia"

// Tasty Recipes recipe card.
var tastyMarkup = markup{
	title:        cascadia.MustCompile(".tasty-recipes-title"),
	author:       cascadia.MustCompile(".tasty-recipes-author-name"),
	yields:       cascadia.MustCompile(".tasty-recipes-yield"),
	ingredients:  cascadia.MustCompile(".tasty-recipes-ingredients li"),
	instructions: cascadia.MustCompile(".tasty-recipes-instructions li"),
}

// NewTasty is the Constructor for sites running the Tasty Recipes plugin.
func NewTasty(p *Page) (Scraper, error) {
	return newThemed(p, tastyMarkup)
}
