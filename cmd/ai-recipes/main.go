package main

import (
	"log/slog"
	"time"

	"github.com/DDDesignDev/homelab/api"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/llm"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load(config.PortAIRecipes)

	// ── 2. Initialise structured logging ────────────────────────────
	config.InitLogger(cfg.Log)
	slog.Info("ai-recipes starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"model", cfg.LLM.Model,
	)

	// ── 3. Initialise LLM client ────────────────────────────────────
	if cfg.LLM.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; model calls will fail until it is")
	}
	client := llm.NewClient(cfg.LLM)

	// ── 4. Setup router and serve ───────────────────────────────────
	router := api.NewAIRouter(cfg, client, time.Now())
	if err := api.Serve(cfg.Server, router); err != nil {
		slog.Error("server stopped with error", "error", err)
		return
	}
	slog.Info("ai-recipes stopped")
}
