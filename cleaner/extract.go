package cleaner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta holds the <head> metadata that recipe pages reliably carry.
type PageMeta struct {
	Title       string // <title>
	OGTitle     string
	Description string
	Image       string // og:image, absolute
	SiteName    string
	Author      string // <meta name="author">
	Canonical   string // <link rel="canonical">, absolute
	OGURL       string
}

// ExtractMeta reads title, Open Graph, author and canonical metadata from a
// parsed document. Relative URLs are resolved against sourceURL.
func ExtractMeta(doc *goquery.Document, sourceURL string) PageMeta {
	meta := PageMeta{
		Title: strings.TrimSpace(doc.Find("head title").First().Text()),
	}
	base, _ := url.Parse(sourceURL)

	doc.Find("meta[property], meta[name]").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("property")
		if !ok {
			key, _ = s.Attr("name")
		}
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch strings.ToLower(key) {
		case "og:title":
			meta.OGTitle = content
		case "og:description", "description":
			if meta.Description == "" {
				meta.Description = content
			}
		case "og:image":
			meta.Image = resolve(base, content)
		case "og:site_name":
			meta.SiteName = content
		case "og:url":
			meta.OGURL = resolve(base, content)
		case "author", "article:author":
			if meta.Author == "" {
				meta.Author = content
			}
		}
	})

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		meta.Canonical = resolve(base, strings.TrimSpace(href))
	}

	return meta
}

// resolve turns ref into an absolute http(s) URL, or returns "" when it
// cannot be resolved or uses another scheme.
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
