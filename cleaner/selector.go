package cleaner

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/DDDesignDev/homelab/normalize"
)

// InnerHTML returns the inner HTML of every element in doc matched by sel,
// in document order. Elements that fail to render are skipped.
func InnerHTML(doc *goquery.Document, sel cascadia.Selector) []string {
	var out []string
	for _, node := range doc.FindMatcher(sel).Nodes {
		var buf bytes.Buffer
		ok := true
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, buf.String())
		}
	}
	return out
}

// Texts returns the whitespace-collapsed text of every element matched by
// sel, skipping empty ones.
func Texts(doc *goquery.Document, sel cascadia.Selector) []string {
	var out []string
	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		if text := normalize.CollapseSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// FirstText returns the text of the first element matched by sel.
func FirstText(doc *goquery.Document, sel cascadia.Selector) string {
	return normalize.CollapseSpace(doc.FindMatcher(sel).First().Text())
}
