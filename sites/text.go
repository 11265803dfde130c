package sites

import (
	"strings"

	"github.com/DDDesignDev/homelab/cleaner"
	"github.com/DDDesignDev/homelab/normalize"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var markdown = cleaner.NewMarkdownConverter()

// cleanText decodes entities, drops tags and collapses whitespace in a
// schema.org string. Plenty of sites put escaped markup in their JSON-LD.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	if strings.Contains(s, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return normalize.CollapseSpace(s)
}

// markupLines converts each rendered HTML fragment into one line of text.
func markupLines(fragments []string, domain string) []string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if line := cleaner.FragmentText(markdown, f, domain); line != "" {
			out = append(out, line)
		}
	}
	return out
}
