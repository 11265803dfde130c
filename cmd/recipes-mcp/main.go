package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DDDesignDev/homelab/api/handler"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/scraper"
	"github.com/DDDesignDev/homelab/sites"
	"github.com/DDDesignDev/homelab/store"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load(config.PortRecipes)

	// ── 2. Initialise logging (stdout carries the protocol) ─────────
	slog.SetDefault(config.NewLogger(cfg.Log, os.Stderr))

	// ── 3. Open database and migrate ────────────────────────────────
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, _, err := store.RunMigrations(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}

	// ── 4. Initialise the in-process scraper ────────────────────────
	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialise engine: %v\n", err)
		os.Exit(1)
	}
	if closer, ok := eng.(interface{ Close() }); ok {
		defer closer.Close()
	}

	t := &tools{
		scraper: scraper.New(eng, sites.DefaultRegistry(), nil, cfg.Scraper),
		recipes: store.NewRecipeRepository(db),
		meals:   store.NewMealRepository(db),
		reports: store.NewReportRepository(db),
	}

	// ── 5. Register tools and serve over stdio ──────────────────────
	s := server.NewMCPServer(
		"recipes",
		handler.Version,
		server.WithToolCapabilities(false),
	)
	t.register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("scrape_recipe",
		mcp.WithDescription("Scrape a recipe page and return its title, ingredients, instructions, times and nutrition as JSON."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page"),
		),
	), t.scrapeRecipe)

	s.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Search stored recipes by text in the title, description or tags, optionally restricted to one tag."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring to search for"),
		),
		mcp.WithString("tag",
			mcp.Description("Only return recipes carrying this tag"),
		),
	), t.searchRecipes)

	s.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Return one stored recipe with ingredients, steps and nutrition."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Recipe id"),
		),
	), t.getRecipe)

	s.AddTool(mcp.NewTool("list_meals",
		mcp.WithDescription("List planned meals in a date range (default: today and the next six days)."),
		mcp.WithString("start", mcp.Description("First day, YYYY-MM-DD")),
		mcp.WithString("end", mcp.Description("Last day, YYYY-MM-DD")),
		mcp.WithString("person", mcp.Description("Only meals for this person; 'Household' means everyone")),
	), t.listMeals)

	s.AddTool(mcp.NewTool("nutrition_report",
		mcp.WithDescription("Sum nutrition of planned meals per day and overall, scaled by servings."),
		mcp.WithString("start", mcp.Required(), mcp.Description("First day, YYYY-MM-DD")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Last day, YYYY-MM-DD")),
		mcp.WithString("person", mcp.Description("Only meals for this person; 'Household' means everyone")),
	), t.nutritionReport)
}
