package sites

import (
	"net/url"
	"strings"
	"sync"

	"github.com/DDDesignDev/homelab/cleaner"
	"github.com/DDDesignDev/homelab/jsonld"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Page is an already fetched recipe page. The parsed document, the schema.org
// Recipe record, the <head> metadata and the readability article are computed
// on first use and shared by every accessor.
type Page struct {
	URL  string
	HTML string

	docOnce sync.Once
	doc     *goquery.Document
	docErr  error

	schemaOnce sync.Once
	schema     map[string]any

	metaOnce sync.Once
	meta     cleaner.PageMeta

	articleOnce sync.Once
	article     readability.Article
	articleOK   bool
}

// NewPage wraps a fetched document.
func NewPage(pageURL, rawHTML string) *Page {
	return &Page{URL: pageURL, HTML: rawHTML}
}

// Document returns the parsed HTML document.
func (p *Page) Document() (*goquery.Document, error) {
	p.docOnce.Do(func() {
		p.doc, p.docErr = goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	})
	return p.doc, p.docErr
}

// Schema returns the first schema.org Recipe record on the page, or an empty
// map.
func (p *Page) Schema() map[string]any {
	p.schemaOnce.Do(func() {
		doc, err := p.Document()
		if err != nil {
			p.schema = map[string]any{}
			return
		}
		p.schema = jsonld.FromDocument(doc)
	})
	return p.schema
}

// Meta returns the page's title, Open Graph and canonical metadata.
func (p *Page) Meta() cleaner.PageMeta {
	p.metaOnce.Do(func() {
		if doc, err := p.Document(); err == nil {
			p.meta = cleaner.ExtractMeta(doc, p.URL)
		}
	})
	return p.meta
}

// Article returns the readability view of the page.
func (p *Page) Article() (readability.Article, bool) {
	p.articleOnce.Do(func() {
		p.article, p.articleOK = cleaner.ExtractArticle(p.HTML, p.URL)
	})
	return p.article, p.articleOK
}

// Domain returns the page host, used to resolve relative links in
// converted markup.
func (p *Page) Domain() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return u.Host
}
