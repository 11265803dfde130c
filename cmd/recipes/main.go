package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/DDDesignDev/homelab/api"
	"github.com/DDDesignDev/homelab/api/handler"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/scraper"
	"github.com/DDDesignDev/homelab/sites"
	"github.com/DDDesignDev/homelab/store"
	"github.com/DDDesignDev/homelab/upstream"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load(config.PortRecipes)

	// ── 2. Initialise structured logging ────────────────────────────
	config.InitLogger(cfg.Log)
	slog.Info("recipes starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"db", cfg.Store.Path,
	)

	// ── 3. Open database and migrate ────────────────────────────────
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := store.RunMigrations(db)
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrated", "version", version, "dirty", dirty)

	// ── 4. Choose the scrape source ─────────────────────────────────
	var src handler.ScrapeSource
	if cfg.Upstream.ScraperURL != "" {
		src = upstream.NewScraperClient(cfg.Upstream)
		slog.Info("scraping via recipe-scraper service", "url", cfg.Upstream.ScraperURL)
	} else {
		// In-process scraping always uses the plain HTTP engine.
		src = scraper.New(engine.NewHTTPEngine(cfg.Scraper.MaxBodyBytes), sites.DefaultRegistry(), nil, cfg.Scraper)
		slog.Info("scraping in process")
	}

	// ── 5. Setup router and serve ───────────────────────────────────
	router := api.NewRecipesRouter(cfg, api.RecipesServices{
		Recipes: store.NewRecipeRepository(db),
		Meals:   store.NewMealRepository(db),
		Reports: store.NewReportRepository(db),
		Scrape:  src,
		AI:      upstream.NewAIClient(cfg.Upstream),
	}, time.Now())

	if err := api.Serve(cfg.Server, router); err != nil {
		slog.Error("server stopped with error", "error", err)
		return
	}
	slog.Info("recipes stopped")
}
