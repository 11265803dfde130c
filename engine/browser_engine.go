package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// BrowserEngine renders pages in a pooled headless Chromium. It is used for
// recipe sites that only render their recipe card client-side.
// It is safe for concurrent use.
type BrowserEngine struct {
	browser      *rod.Browser
	pagePool     rod.Pool[rod.Page]
	blockedTypes []string
	stealth      bool
}

// NewBrowserEngine launches a headless browser and initialises the page pool.
func NewBrowserEngine(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) (*BrowserEngine, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAPIError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewAPIError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	maxPages := browserCfg.MaxPages
	if maxPages <= 0 {
		maxPages = 4
	}
	slog.Info("page pool created", "maxPages", maxPages)

	return &BrowserEngine{
		browser:      browser,
		pagePool:     rod.NewPagePool(maxPages),
		blockedTypes: scraperCfg.BlockedResourceTypes,
		stealth:      browserCfg.Stealth,
	}, nil
}

func (e *BrowserEngine) Name() string { return "browser" }

// Fetch navigates a pooled tab to the URL and returns the rendered DOM.
//
//  1. Timeout guard
//  2. Acquire page, deferring about:blank + return to pool
//  3. Stealth, user agent, headers and resource blocking (before navigation)
//  4. Navigate and wait for the DOM to settle
//  5. Read the navigation status; non-2xx is a FetchError
//  6. Extract HTML, title and final URL
func (e *BrowserEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	// ── 2. Acquire page from pool ─────────────────────────────────────
	page, err := e.pagePool.Get(func() (*rod.Page, error) {
		return e.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewAPIError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		e.pagePool.Put(page)
	}()

	// ── 3. Stealth, identity and blocking ─────────────────────────────
	if e.stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}
	if req.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{UserAgent: req.UserAgent}.Call(page)
	}
	if len(req.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(req.Headers)}.Call(page)
	}
	if router := setupHijack(page, e.blockedTypes); router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 4. Navigate ───────────────────────────────────────────────────
	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, &models.FetchError{URL: req.URL, Err: err}
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, &models.FetchError{URL: req.URL, Err: err}
		}
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	// ── 5. Status code ───────────────────────────────────────────────
	statusCode := 0
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}
	if statusCode != 0 && (statusCode < 200 || statusCode > 299) {
		return nil, &models.FetchError{
			URL:        req.URL,
			StatusCode: statusCode,
			Err:        fmt.Errorf("unexpected status %d", statusCode),
		}
	}

	// ── 6. Extract rendered HTML ──────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, &models.FetchError{URL: req.URL, Err: fmt.Errorf("extract page HTML: %w", err)}
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       rawHTML,
		Title:      evalStringOrEmpty(p, `() => document.title`),
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: e.Name(),
	}, nil
}

// Close drains the page pool and kills the browser process.
func (e *BrowserEngine) Close() {
	slog.Info("browser engine shutting down: draining page pool")
	e.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := e.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
