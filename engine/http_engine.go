package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/DDDesignDev/homelab/models"
)

const (
	defaultMaxBody = 10 << 20
	maxRedirects   = 10
	dialTimeout    = 10 * time.Second
)

// HTTPEngine fetches pages with net/http behind a Chrome TLS fingerprint.
// Recipe pages are server-rendered, so this is the default engine.
type HTTPEngine struct {
	client  *http.Client
	maxBody int64
}

var (
	helloOnce sync.Once
	helloSpec *tls.ClientHelloSpec
)

// chromeHello returns Chrome's ClientHello with ALPN limited to http/1.1:
// http.Transport cannot speak h2 over a utls conn. nil means the spec could
// not be built and the plain Chrome preset is used.
func chromeHello() *tls.ClientHelloSpec {
	helloOnce.Do(func() {
		spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
		if err != nil {
			return
		}
		for _, ext := range spec.Extensions {
			if alpn, ok := ext.(*tls.ALPNExtension); ok {
				alpn.AlpnProtocols = []string{"http/1.1"}
			}
		}
		helloSpec = &spec
	})
	return helloSpec
}

// dialChromeTLS opens a TCP connection and completes a utls handshake on it.
func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	raw, err := (&net.Dialer{Timeout: dialTimeout}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)

	var conn *tls.UConn
	if spec := chromeHello(); spec != nil {
		conn = tls.UClient(raw, &tls.Config{ServerName: host}, tls.HelloCustom)
		if err := conn.ApplyPreset(spec); err != nil {
			raw.Close()
			return nil, fmt.Errorf("apply tls preset: %w", err)
		}
	} else {
		conn = tls.UClient(raw, &tls.Config{ServerName: host, NextProtos: []string{"http/1.1"}}, tls.HelloChrome_Auto)
	}

	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, err
	}
	return conn, nil
}

// NewHTTPEngine creates an HTTPEngine. maxBody bounds how much of a response
// body is read; 0 means 10 MiB.
func NewHTTPEngine(maxBody int64) *HTTPEngine {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &HTTPEngine{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:          http.ProxyFromEnvironment,
				DialTLSContext: dialChromeTLS,
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBody: maxBody,
	}
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, &models.FetchError{URL: req.URL, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, &models.FetchError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.FetchError{
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	// Decode to UTF-8: a BOM wins, then the Content-Type charset, then a
	// <meta> charset in the first 1024 bytes.
	var src io.Reader = io.LimitReader(resp.Body, e.maxBody)
	if utf8Body, err := charset.NewReader(src, resp.Header.Get("Content-Type")); err == nil {
		src = utf8Body
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, &models.FetchError{URL: req.URL, Err: fmt.Errorf("read body: %w", err)}
	}

	doc := string(body)
	return &FetchResult{
		HTML:       doc,
		Title:      pageTitle(doc),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.Name(),
	}, nil
}

// pageTitle returns the text of the first <title> element, or "".
func pageTitle(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "title" {
				if z.Next() == html.TextToken {
					return strings.TrimSpace(string(z.Text()))
				}
				return ""
			}
		}
	}
}
