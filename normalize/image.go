package normalize

import "strings"

// imageKeys are checked in order on an image descriptor object.
var imageKeys = []string{"url", "contentUrl", "thumbnailUrl"}

// ImageURL resolves a schema.org image value to one URL. The value may be a
// string, a list of candidates, or an ImageObject-like map that is searched
// by key and then through its nested "image".
func ImageURL(v any) (string, bool) {
	switch img := v.(type) {
	case string:
		s := strings.TrimSpace(img)
		return s, s != ""
	case []any:
		for _, item := range img {
			if u, ok := ImageURL(item); ok {
				return u, true
			}
		}
	case []string:
		for _, item := range img {
			if u, ok := ImageURL(item); ok {
				return u, true
			}
		}
	case map[string]any:
		for _, key := range imageKeys {
			if s, ok := img[key].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s, true
				}
			}
		}
		if nested, ok := img["image"]; ok {
			return ImageURL(nested)
		}
	}
	return "", false
}
