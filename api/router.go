package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DDDesignDev/homelab/api/handler"
	"github.com/DDDesignDev/homelab/api/middleware"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

// Service names, used in health responses and metric labels.
const (
	ServiceRecipeScraper = "recipe-scraper"
	ServiceRecipes       = "recipes"
	ServiceAIRecipes     = "ai-recipes"
	ServiceHue           = "hue"
)

// newEngine builds the part every service shares.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger → Metrics
//	API:     RateLimit
//
// /health and /metrics sit outside the rate limit so probes always work.
func newEngine(cfg *config.Config, service string, startTime time.Time) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(cfg.Server.Mode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(middleware.Metrics(reg, service))

	r.GET("/health", handler.Health(service, startTime))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RateLimit(cfg.RateLimit))
	return r, apiGroup
}

// serveStatic serves dir for every unmatched route. Unmatched /api paths
// still get a JSON 404.
func serveStatic(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	files := http.FileServer(http.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error:   &models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "Not Found"},
			})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

// NewRecipeScraperRouter creates the recipe-scraper service engine.
func NewRecipeScraperRouter(cfg *config.Config, sc handler.RecipeScraper, startTime time.Time) *gin.Engine {
	r, v := newEngine(cfg, ServiceRecipeScraper, startTime)
	v.POST("/scrape", handler.Scrape(sc))
	return r
}

// RecipesServices are the dependencies of the recipes service.
type RecipesServices struct {
	Recipes *store.RecipeRepository
	Meals   *store.MealRepository
	Reports *store.ReportRepository
	Scrape  handler.ScrapeSource
	AI      handler.Suggester
}

// NewRecipesRouter creates the recipes service engine: recipe CRUD, the
// scrape proxy, the meal planner, nutrition reports and AI suggestions.
func NewRecipesRouter(cfg *config.Config, svc RecipesServices, startTime time.Time) *gin.Engine {
	r, v := newEngine(cfg, ServiceRecipes, startTime)

	// Recipes
	v.GET("/recipes", handler.ListRecipes(svc.Recipes))
	v.GET("/recipes/:id", handler.GetRecipe(svc.Recipes))
	v.POST("/recipes", handler.CreateRecipe(svc.Recipes))
	v.PUT("/recipes/:id", handler.UpdateRecipe(svc.Recipes))
	v.DELETE("/recipes/:id", handler.DeleteRecipe(svc.Recipes))

	// Scrape proxy
	v.POST("/scrape", handler.ScrapeForForm(svc.Scrape))

	// Meal planner
	v.GET("/listRecipes", handler.ListRecipeTitles(svc.Recipes))
	v.GET("/meals", handler.ListMeals(svc.Meals))
	v.POST("/meals", handler.CreateMeal(svc.Meals, svc.Recipes))
	v.PUT("/meals/:id", handler.UpdateMeal(svc.Meals, svc.Recipes))
	v.DELETE("/meals/:id", handler.DeleteMeal(svc.Meals))
	v.GET("/people", handler.ListPeople(svc.Meals))

	// Nutrition reports
	v.GET("/meals/nutritionReport", handler.NutritionReport(svc.Reports))
	v.GET("/meals/nutritionReport/daily", handler.DailyNutrition(svc.Reports))

	// AI
	v.POST("/ai/suggest", handler.SuggestRecipes(svc.Recipes, svc.AI))

	serveStatic(r, cfg.Server.StaticDir)
	return r
}

// NewAIRouter creates the ai-recipes service engine.
func NewAIRouter(cfg *config.Config, model handler.LLM, startTime time.Time) *gin.Engine {
	r, v := newEngine(cfg, ServiceAIRecipes, startTime)
	v.POST("/ai/ping", handler.Ping(model))
	v.POST("/ai/suggest", handler.SuggestFromCatalogue(model))
	return r
}

// NewHueRouter creates the Hue dashboard service engine.
func NewHueRouter(cfg *config.Config, bridge handler.Bridge, startTime time.Time) *gin.Engine {
	r, v := newEngine(cfg, ServiceHue, startTime)
	v.GET("/lights", handler.ListLights(bridge))
	v.PUT("/lights/:id/state", handler.SetLightState(bridge))
	v.PUT("/all", handler.SetAllLights(bridge))

	serveStatic(r, cfg.Server.StaticDir)
	return r
}
