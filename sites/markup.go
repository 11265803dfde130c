package sites

import (
	"strings"

	"github.com/DDDesignDev/homelab/cleaner"
	"github.com/andybalholm/cascadia"
)

// markup says where a recipe plugin or theme renders each field in the page
// body. A nil selector leaves the field to Base.
type markup struct {
	title        cascadia.Selector
	author       cascadia.Selector
	yields       cascadia.Selector
	ingredients  cascadia.Selector
	instructions cascadia.Selector
}

// themed reads fields from rendered recipe-card markup first and from
// schema.org data second.
type themed struct {
	*Base
	m markup
}

func newThemed(p *Page, m markup) (*themed, error) {
	base, err := NewBase(p)
	if err != nil {
		return nil, err
	}
	return &themed{Base: base, m: m}, nil
}

func (t *themed) first(sel cascadia.Selector) string {
	if sel == nil {
		return ""
	}
	doc, err := t.page.Document()
	if err != nil {
		return ""
	}
	return cleaner.FirstText(doc, sel)
}

func (t *themed) Title() (string, error) {
	if s := t.first(t.m.title); s != "" {
		return s, nil
	}
	return t.Base.Title()
}

func (t *themed) Author() (string, error) {
	if s := t.first(t.m.author); s != "" {
		return strings.TrimPrefix(s, "By "), nil
	}
	return t.Base.Author()
}

func (t *themed) Yields() (string, error) {
	if s := t.first(t.m.yields); s != "" {
		if y, ok := formatYields(s); ok {
			return y, nil
		}
	}
	return t.Base.Yields()
}

func (t *themed) Ingredients() ([]string, error) {
	if t.m.ingredients != nil {
		if doc, err := t.page.Document(); err == nil {
			if lines := cleaner.Texts(doc, t.m.ingredients); len(lines) > 0 {
				return lines, nil
			}
		}
	}
	return t.Base.Ingredients()
}

func (t *themed) Instructions() ([]string, error) {
	if t.m.instructions != nil {
		if doc, err := t.page.Document(); err == nil {
			fragments := cleaner.InnerHTML(doc, t.m.instructions)
			if lines := markupLines(fragments, t.page.Domain()); len(lines) > 0 {
				return lines, nil
			}
		}
	}
	return t.Base.Instructions()
}
