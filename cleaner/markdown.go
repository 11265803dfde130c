package cleaner

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// NewMarkdownConverter creates a reusable, goroutine-safe Converter for
// recipe step markup:
//
//   - base plugin: strips script, style, iframe, noscript and comments.
//   - commonmark plugin: keeps emphasis and links that sites put in steps.
func NewMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// ToMarkdown converts an HTML fragment to Markdown. The domain parameter
// resolves relative links so that the output is self-contained.
func ToMarkdown(conv *converter.Converter, htmlContent string, domain string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(domain))
}

// FragmentText converts an HTML fragment to a single Markdown line. It
// returns "" when the conversion fails or produces nothing.
func FragmentText(conv *converter.Converter, htmlContent string, domain string) string {
	md, err := ToMarkdown(conv, htmlContent, domain)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(md), " ")
}
