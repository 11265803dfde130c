package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/DDDesignDev/homelab/api"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/hue"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load(config.PortHue)

	// ── 2. Initialise structured logging ────────────────────────────
	config.InitLogger(cfg.Log)
	slog.Info("hue starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"bridge", cfg.Hue.BridgeIP,
	)

	// ── 3. Initialise bridge client ─────────────────────────────────
	bridge, err := hue.NewClient(cfg.Hue)
	if err != nil {
		slog.Error("invalid hue configuration", "error", err)
		os.Exit(1)
	}

	// ── 4. Setup router and serve ───────────────────────────────────
	router := api.NewHueRouter(cfg, bridge, time.Now())
	if err := api.Serve(cfg.Server, router); err != nil {
		slog.Error("server stopped with error", "error", err)
		return
	}
	slog.Info("hue stopped")
}
