package sites

import (
	"regexp"
	"strings"

	"github.com/DDDesignDev/homelab/jsonld"
	"github.com/DDDesignDev/homelab/normalize"
)

// Base implements every accessor from the page's schema.org Recipe record,
// falling back to <meta> tags and the readability article. Site scrapers
// embed it and override what their markup does better.
type Base struct {
	page *Page
}

// NewBase parses the page and returns its schema.org scraper.
func NewBase(p *Page) (*Base, error) {
	if _, err := p.Document(); err != nil {
		return nil, err
	}
	return &Base{page: p}, nil
}

// NewSchemaOnly is the constructor for sites whose schema.org data is
// complete enough on its own.
func NewSchemaOnly(p *Page) (Scraper, error) {
	return NewBase(p)
}

func (b *Base) Title() (string, error) {
	if s, ok := jsonld.String(b.page.Schema(), "name"); ok {
		if s = cleanText(s); s != "" {
			return s, nil
		}
	}
	meta := b.page.Meta()
	if meta.OGTitle != "" {
		return meta.OGTitle, nil
	}
	if article, ok := b.page.Article(); ok && article.Title != "" {
		return normalize.CollapseSpace(article.Title), nil
	}
	if meta.Title != "" {
		return meta.Title, nil
	}
	return "", ErrFieldNotFound
}

func (b *Base) Author() (string, error) {
	if name, ok := schemaAuthor(b.page.Schema()["author"]); ok {
		return name, nil
	}
	if author := b.page.Meta().Author; author != "" {
		return author, nil
	}
	if article, ok := b.page.Article(); ok && article.Byline != "" {
		return normalize.CollapseSpace(article.Byline), nil
	}
	return "", ErrFieldNotFound
}

func (b *Base) CanonicalURL() (string, error) {
	meta := b.page.Meta()
	switch {
	case meta.Canonical != "":
		return meta.Canonical, nil
	case meta.OGURL != "":
		return meta.OGURL, nil
	default:
		return b.page.URL, nil
	}
}

func (b *Base) TotalTime() (int, error) {
	rec := b.page.Schema()
	if total, ok := durationField(rec, "totalTime"); ok {
		return total, nil
	}
	prep, okPrep := durationField(rec, "prepTime")
	cook, okCook := durationField(rec, "cookTime")
	if okPrep || okCook {
		return prep + cook, nil
	}
	return 0, ErrFieldNotFound
}

func (b *Base) Yields() (string, error) {
	if y, ok := formatYields(b.page.Schema()["recipeYield"]); ok {
		return y, nil
	}
	return "", ErrFieldNotFound
}

func (b *Base) Image() (any, error) {
	if img, ok := b.page.Schema()["image"]; ok && img != nil {
		if _, ok := normalize.ImageURL(img); ok {
			return img, nil
		}
	}
	if img := b.page.Meta().Image; img != "" {
		return img, nil
	}
	return nil, ErrFieldNotFound
}

func (b *Base) Ingredients() ([]string, error) {
	raw := jsonld.Ingredients(b.page.Schema())
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = cleanText(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrFieldNotFound
	}
	return out, nil
}

func (b *Base) Instructions() ([]string, error) {
	steps := flattenInstructions(b.page.Schema()["recipeInstructions"], nil)
	if len(steps) == 0 {
		return nil, ErrFieldNotFound
	}
	return steps, nil
}

func (b *Base) Nutrients() (map[string]any, error) {
	n := jsonld.Nutrition(b.page.Schema())
	if len(n) == 0 {
		return nil, ErrFieldNotFound
	}
	out := make(map[string]any, len(n))
	for k, v := range n {
		if s, ok := v.(string); ok {
			v = cleanText(s)
		}
		out[k] = v
	}
	return out, nil
}

// schemaAuthor accepts a name string, a Person object or a list of either.
func schemaAuthor(v any) (string, bool) {
	switch a := v.(type) {
	case string:
		if s := cleanText(a); s != "" {
			return s, true
		}
	case map[string]any:
		if name, ok := a["name"].(string); ok {
			if s := cleanText(name); s != "" {
				return s, true
			}
		}
	case []any:
		for _, item := range a {
			if s, ok := schemaAuthor(item); ok {
				return s, true
			}
		}
	}
	return "", false
}

func durationField(rec map[string]any, key string) (int, bool) {
	s, ok := rec[key].(string)
	if !ok {
		return 0, false
	}
	return normalize.ParseISODurationMinutes(s)
}

// flattenInstructions walks HowToStep / HowToSection trees in order.
func flattenInstructions(v any, out []string) []string {
	switch t := v.(type) {
	case string:
		for _, line := range strings.Split(t, "\n") {
			if s := cleanText(line); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			out = flattenInstructions(item, out)
		}
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return flattenInstructions(items, out)
		}
		text, ok := t["text"].(string)
		if !ok {
			text, _ = t["name"].(string)
		}
		if s := cleanText(text); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// formatYields renders recipeYield the way recipe cards print it: a bare
// count becomes "N servings", anything else is kept as written.
func formatYields(v any) (string, bool) {
	switch y := v.(type) {
	case []any:
		for _, item := range y {
			if s, ok := formatYields(item); ok {
				return s, true
			}
		}
		return "", false
	case nil, map[string]any:
		return "", false
	}

	s, ok := jsonld.Yields(map[string]any{"recipeYield": v})
	if !ok {
		return "", false
	}
	s = cleanText(s)
	switch {
	case s == "":
		return "", false
	case s == "1":
		return "1 serving", true
	case digitsOnly.MatchString(s):
		return s + " servings", true
	default:
		return s, true
	}
}
