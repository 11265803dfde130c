package jsonld

import "encoding/json"

// String returns rec[key] when it is a string.
func String(rec map[string]any, key string) (string, bool) {
	s, ok := rec[key].(string)
	return s, ok
}

// Ingredients reads recipeIngredient. A bare string is one ingredient;
// scalar list entries are stringified and everything else is dropped.
func Ingredients(rec map[string]any) []string {
	switch v := rec["recipeIngredient"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// Instructions reads recipeInstructions. A bare string is one step; list
// entries are used when they are strings, or through their "text" field when
// they are objects. Anything else, sections included, is dropped.
func Instructions(rec map[string]any) []string {
	switch v := rec["recipeInstructions"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, step := range v {
			switch s := step.(type) {
			case string:
				out = append(out, s)
			case map[string]any:
				if text, ok := scalarString(s["text"]); ok && text != "" {
					out = append(out, text)
				}
			}
		}
		return out
	}
	return []string{}
}

// AuthorName returns author.name when author is an object.
func AuthorName(rec map[string]any) (string, bool) {
	author, ok := rec["author"].(map[string]any)
	if !ok {
		return "", false
	}
	return String(author, "name")
}

// CanonicalURL returns mainEntityOfPage only when it is a plain string.
func CanonicalURL(rec map[string]any) (string, bool) {
	return String(rec, "mainEntityOfPage")
}

// Yields stringifies recipeYield when it is present and not null.
func Yields(rec map[string]any) (string, bool) {
	v, ok := rec["recipeYield"]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := scalarString(v); ok {
		return s, true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Nutrition returns the nutrition object without its @type tag. Values are
// passed through untouched.
func Nutrition(rec map[string]any) map[string]any {
	n, ok := rec["nutrition"].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return StripType(n)
}

// StripType copies m without its "@type" key.
func StripType(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == "@type" {
			continue
		}
		out[k] = v
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		b, _ := json.Marshal(s)
		return string(b), true
	}
	return "", false
}
