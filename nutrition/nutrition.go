// Package nutrition maps scraped nutrition data, whose keys differ from site
// to site, onto the stored per-serving NutritionFacts.
package nutrition

import (
	"strings"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/normalize"
)

// Aliases per field, in lookup order. Keys are matched lower-cased and
// trimmed.
var (
	servingSizeKeys = []string{"servingsize", "serving size", "serving_size"}
	caloriesKeys    = []string{"calories", "caloriecontent", "energy"}
	carbsKeys       = []string{"carbohydratecontent", "carbs", "carbohydrates"}
	sugarKeys       = []string{"sugarcontent", "sugars"}
	fatKeys         = []string{"fatcontent", "fat"}
	satFatKeys      = []string{"saturatedfatcontent", "saturated fat"}
	transFatKeys    = []string{"transfatcontent", "trans fat"}
	proteinKeys     = []string{"proteincontent", "protein"}
	fiberKeys       = []string{"fibercontent", "fibrecontent", "fiber"}
	sodiumKeys      = []string{"sodiumcontent", "sodium"}
	cholesterolKeys = []string{"cholesterolcontent", "cholesterol"}
	potassiumKeys   = []string{"potassiumcontent", "potassium"}
	calciumKeys     = []string{"calciumcontent", "calcium"}
	ironKeys        = []string{"ironcontent", "iron"}
	vitaminAKeys    = []string{"vitamina", "vitamina_iu", "vitaminacontent"}
	vitaminB6Keys   = []string{"vitaminb6", "vitaminb6content"}
	vitaminB12Keys  = []string{"vitaminb12", "vitaminb12content"}
	vitaminCKeys    = []string{"vitaminc", "vitaminccontent"}
	vitaminDKeys    = []string{"vitamind", "vitamindcontent"}
)

// FromScraped maps a scraped nutrition object. It returns nil when raw is
// empty or nothing in it could be mapped.
func FromScraped(raw map[string]any) *models.NutritionFacts {
	if len(raw) == 0 {
		return nil
	}

	n := make(map[string]any, len(raw))
	for k, v := range raw {
		n[strings.ToLower(strings.TrimSpace(k))] = v
	}

	facts := &models.NutritionFacts{
		CarbsG:        number(n, carbsKeys),
		SugarG:        number(n, sugarKeys),
		FatG:          number(n, fatKeys),
		SaturatedFatG: number(n, satFatKeys),
		TransFatG:     number(n, transFatKeys),
		ProteinG:      number(n, proteinKeys),
		FiberG:        number(n, fiberKeys),
		SodiumMg:      number(n, sodiumKeys),
		CholesterolMg: number(n, cholesterolKeys),
		PotassiumMg:   number(n, potassiumKeys),
		CalciumMg:     number(n, calciumKeys),
		IronMg:        number(n, ironKeys),
		VitaminAIU:    number(n, vitaminAKeys),
		VitaminB6Mg:   number(n, vitaminB6Keys),
		VitaminB12Mcg: number(n, vitaminB12Keys),
		VitaminCMg:    number(n, vitaminCKeys),
		VitaminDIU:    number(n, vitaminDKeys),
	}
	if cal := number(n, caloriesKeys); cal != nil {
		c := int(*cal)
		facts.Calories = &c
	}
	if s, ok := lookup(n, servingSizeKeys).(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			facts.ServingSize = &s
		}
	}

	if facts.IsEmpty() {
		return nil
	}
	return facts
}

// ToScrapeOut shapes a scraped recipe for the recipe form. Cook time falls
// back to the total time when the page gave no cook time.
func ToScrapeOut(r *models.NormalizedRecipe) models.ScrapeOut {
	out := models.ScrapeOut{
		Title:       r.Title,
		PrepMinutes: r.PrepTimeMinutes,
		CookMinutes: r.CookTimeMinutes,
		Ingredients: r.Ingredients,
		Steps:       r.Instructions,
		Nutrition:   FromScraped(r.Nutrition),
	}
	if out.CookMinutes == nil && r.TotalTimeMinutes != nil {
		total := *r.TotalTimeMinutes
		out.CookMinutes = &total
	}
	if r.Yields != nil {
		if n, ok := normalize.ParseFirstInteger(*r.Yields); ok {
			out.Servings = &n
		}
	}
	if out.Ingredients == nil {
		out.Ingredients = []string{}
	}
	if out.Steps == nil {
		out.Steps = []string{}
	}
	return out
}

func number(n map[string]any, keys []string) *float64 {
	f, ok := normalize.ParseNumber(lookup(n, keys))
	if !ok {
		return nil
	}
	return &f
}

// lookup returns the first alias whose value is set and not zero-like.
func lookup(n map[string]any, keys []string) any {
	for _, k := range keys {
		if v := n[k]; present(v) {
			return v
		}
	}
	return nil
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	f, ok := normalize.ParseNumber(v)
	return !ok || f != 0
}
