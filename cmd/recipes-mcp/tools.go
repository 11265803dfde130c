package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/DDDesignDev/homelab/api/handler"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

type tools struct {
	scraper handler.ScrapeSource
	recipes *store.RecipeRepository
	meals   *store.MealRepository
	reports *store.ReportRepository
}

func (t *tools) scrapeRecipe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	recipe, err := t.scraper.ScrapeURL(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scrape failed: %v", err)), nil
	}
	return jsonResult(recipe)
}

func (t *tools) searchRecipes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := request.GetString("query", "")
	tag := request.GetString("tag", "")

	recipes, err := t.recipes.List(ctx, q, tag)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(recipes) == 0 {
		return mcp.NewToolResultText("No recipes found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d recipes:\n\n", len(recipes))
	for _, r := range recipes {
		fmt.Fprintf(&sb, "#%d %s", r.ID, r.Title)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(r.Tags, ", "))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *tools) getRecipe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	recipe, err := t.recipes.Get(ctx, int64(id))
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("recipe %d not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(recipe)
}

func (t *tools) listMeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := mealFilter(request, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	meals, err := t.meals.List(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(meals)
}

func (t *tools) nutritionReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := mealFilter(request, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	days, err := t.reports.Daily(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	totals, err := t.reports.Totals(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	return jsonResult(struct {
		Days   []models.NutritionDayTotals `json:"days"`
		Report models.NutritionReport      `json:"report"`
	}{
		Days:   days,
		Report: models.NutritionReport{Start: *f.Start, End: *f.End, Totals: totals},
	})
}

// mealFilter reads start, end and person. Without required, missing dates
// default to the coming week.
func mealFilter(request mcp.CallToolRequest, required bool) (models.MealFilter, error) {
	var f models.MealFilter

	parse := func(key string) (*models.Date, error) {
		s := request.GetString(key, "")
		if s == "" {
			if required {
				return nil, fmt.Errorf("%s is required", key)
			}
			return nil, nil
		}
		d, err := models.ParseDate(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	start, err := parse("start")
	if err != nil {
		return f, err
	}
	end, err := parse("end")
	if err != nil {
		return f, err
	}

	if start == nil && end == nil {
		today := models.Today()
		week := today.AddDays(6)
		start, end = &today, &week
	}
	if start != nil && end != nil && end.Before(*start) {
		return f, errors.New("end must be >= start")
	}

	f.Start, f.End = start, end
	if p := request.GetString("person", ""); p != "" {
		person, err := models.NormalizePerson(p)
		if err != nil {
			return f, err
		}
		f.Person = person
	}
	return f, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
