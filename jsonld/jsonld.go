// Package jsonld locates the schema.org Recipe object embedded in a page as
// JSON-LD and exposes typed views of its loosely typed fields.
package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const recipeType = "Recipe"

// ExtractRecipe returns the first Recipe object found in the document's
// JSON-LD blocks. When nothing matches the result is an empty map, which
// callers treat as "no structured data" rather than an error.
func ExtractRecipe(rawHTML string) map[string]any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return map[string]any{}
	}
	return FromDocument(doc)
}

// FromDocument is ExtractRecipe for an already parsed document.
func FromDocument(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		data, ok := decode(s.Text())
		if !ok {
			return true
		}
		for _, c := range candidates(data) {
			if isRecipe(c) {
				found = c
				return false
			}
		}
		return true
	})
	if found == nil {
		return map[string]any{}
	}
	return found
}

// decode parses one script body. Numbers are kept as json.Number so that
// values such as recipeYield stringify exactly as written.
func decode(body string) (any, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, false
	}
	// Anything after the first value makes the block invalid JSON.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return data, true
}

// candidates flattens a block into the objects it describes: the @graph list
// of an object when present, the object itself otherwise, or every element
// of a top-level list.
func candidates(data any) []map[string]any {
	var items []any
	switch v := data.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			items = graph
		} else {
			items = []any{v}
		}
	case []any:
		items = v
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func isRecipe(m map[string]any) bool {
	switch t := m["@type"].(type) {
	case string:
		return t == recipeType
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == recipeType {
				return true
			}
		}
	}
	return false
}
