package models

// NutritionFacts is stored per serving. Every field is optional; nil fields
// are omitted when the facts are persisted.
type NutritionFacts struct {
	ServingSize *string `json:"serving_size,omitempty"`
	Calories    *int    `json:"calories,omitempty"` // kcal

	// macros in grams
	CarbsG        *float64 `json:"carbs_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	FatG          *float64 `json:"fat_g,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	TransFatG     *float64 `json:"trans_fat_g,omitempty"`
	ProteinG      *float64 `json:"protein_g,omitempty"`
	FiberG        *float64 `json:"fiber_g,omitempty"`

	// micros in mg / mcg / IU
	VitaminAIU    *float64 `json:"vitamin_a_iu,omitempty"`
	VitaminB6Mg   *float64 `json:"vitamin_b6_mg,omitempty"`
	VitaminB12Mcg *float64 `json:"vitamin_b12_mcg,omitempty"`
	VitaminDIU    *float64 `json:"vitamin_d_iu,omitempty"`
	VitaminCMg    *float64 `json:"vitamin_c_mg,omitempty"`
	CalciumMg     *float64 `json:"calcium_mg,omitempty"`
	IronMg        *float64 `json:"iron_mg,omitempty"`
	PotassiumMg   *float64 `json:"potassium_mg,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty"`
}

// IsEmpty reports whether no field is set.
func (n *NutritionFacts) IsEmpty() bool {
	if n == nil {
		return true
	}
	return *n == NutritionFacts{}
}

// NutritionTotals sums the tracked nutrients over a set of planned meals,
// scaled by each meal's servings.
type NutritionTotals struct {
	MealsCount int     `json:"meals_count"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	FiberG     float64 `json:"fiber_g"`
	SugarG     float64 `json:"sugar_g"`
	SodiumMg   float64 `json:"sodium_mg"`
}

// NutritionDayTotals is one row of the daily nutrition report.
type NutritionDayTotals struct {
	Day Date `json:"day"`
	NutritionTotals
}

// NutritionReport is the response for GET /api/meals/nutritionReport.
type NutritionReport struct {
	Start  Date            `json:"start"`
	End    Date            `json:"end"`
	Totals NutritionTotals `json:"totals"`
}
