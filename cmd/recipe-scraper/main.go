package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/DDDesignDev/homelab/api"
	"github.com/DDDesignDev/homelab/cache"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/scraper"
	"github.com/DDDesignDev/homelab/sites"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load(config.PortRecipeScraper)

	// ── 2. Initialise structured logging ────────────────────────────
	config.InitLogger(cfg.Log)
	slog.Info("recipe-scraper starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"fetchMode", cfg.Scraper.FetchMode,
	)

	// ── 3. Initialise fetch engine ──────────────────────────────────
	eng, err := engine.New(cfg)
	if err != nil {
		slog.Error("failed to initialise engine", "error", err)
		os.Exit(1)
	}
	if closer, ok := eng.(interface{ Close() }); ok {
		defer closer.Close()
	}

	// ── 4. Initialise cache and scraper ─────────────────────────────
	cc := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	sc := scraper.New(eng, sites.DefaultRegistry(), cc, cfg.Scraper)

	// ── 5. Setup router and serve ───────────────────────────────────
	router := api.NewRecipeScraperRouter(cfg, sc, time.Now())
	if err := api.Serve(cfg.Server, router); err != nil {
		slog.Error("server stopped with error", "error", err)
		return
	}

	// The engine closes via defer; for the browser engine that kills Chromium.
	slog.Info("recipe-scraper stopped")
}
