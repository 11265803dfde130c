package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be trusted. Below it the page is most likely a shell
// or an index and its title/byline guesses are noise.
const minContentLength = 50

// ExtractArticle runs the Mozilla Readability algorithm on rawHTML.
//
// Recipe extraction only uses the article's metadata (Title, Byline,
// SiteName), as a last resort behind schema.org data and meta tags. The
// second return value is false when:
//   - the source URL does not parse
//   - readability.FromReader fails
//   - the extracted TextContent is shorter than 50 characters
func ExtractArticle(rawHTML string, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Debug("readability: invalid source URL", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability: extraction failed", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return readability.Article{}, false
	}

	return article, true
}
