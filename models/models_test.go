package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate(" 2026-03-09 ")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
	assert.Equal(t, "2026-03-15", back.AddDays(6).String())
	assert.True(t, d.Before(d.AddDays(1)))

	assert.Error(t, json.Unmarshal([]byte(`"09/03/2026"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`20260309`), &back))
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Dinner", "dinner", false},
		{"  Late   SNACK ", "late snack", false},
		{"   ", "", true},
		{strings.Repeat("x", 41), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSlot(tt.in)
			if tt.wantErr {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, ErrCodeInvalidInput, apiErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePerson(t *testing.T) {
	got, err := NormalizePerson("  Mary   Ann ")
	require.NoError(t, err)
	assert.Equal(t, "Mary Ann", got)

	_, err = NormalizePerson(" ")
	assert.Error(t, err)
	_, err = NormalizePerson(strings.Repeat("a", 81))
	assert.Error(t, err)
}

func TestMealCreateNormalize(t *testing.T) {
	d := Today()
	id := int64(1)

	m := &MealCreate{Day: &d, Slot: " Lunch ", RecipeID: &id}
	require.NoError(t, m.Normalize())
	assert.Equal(t, "lunch", m.Slot)
	assert.Equal(t, DefaultPerson, m.Person)
	require.NotNil(t, m.Servings)
	assert.Equal(t, 1.0, *m.Servings)

	zero := 0.0
	bad := &MealCreate{Day: &d, Slot: "lunch", RecipeID: &id, Servings: &zero}
	assert.Error(t, bad.Normalize())

	long := strings.Repeat("n", 2001)
	bad = &MealCreate{Day: &d, Slot: "lunch", RecipeID: &id, Notes: &long}
	assert.Error(t, bad.Normalize())

	bad = &MealCreate{Day: &d, RecipeID: &id}
	assert.Error(t, bad.Normalize(), "slot is required")
}

func TestMealUpdateNormalize(t *testing.T) {
	slot, person := "  BREAKFAST", " Ben  "
	u := &MealUpdate{Slot: &slot, Person: &person}
	require.NoError(t, u.Normalize())
	assert.Equal(t, "breakfast", *u.Slot)
	assert.Equal(t, "Ben", *u.Person)

	neg := -1.0
	assert.Error(t, (&MealUpdate{Servings: &neg}).Normalize())
	assert.NoError(t, (&MealUpdate{}).Normalize())
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Vegan", "quick", "", "VEGAN", "  ", "Dinner"})
	assert.Equal(t, []string{"dinner", "quick", "vegan"}, got)
	assert.Empty(t, NormalizeTags(nil))
	assert.NotNil(t, NormalizeTags(nil))
}

func TestTrimLines(t *testing.T) {
	assert.Equal(t, []string{"1 egg", "salt"}, TrimLines([]string{" 1 egg ", "", "\t", "salt"}))
}

func TestRecipeValidate(t *testing.T) {
	assert.NoError(t, (&RecipeCreate{Title: "Soup"}).Validate())
	assert.Error(t, (&RecipeCreate{Title: ""}).Validate())
	assert.Error(t, (&RecipeCreate{Title: strings.Repeat("t", 201)}).Validate())

	assert.NoError(t, (&RecipeUpdate{}).Validate())
	empty := ""
	assert.Error(t, (&RecipeUpdate{Title: &empty}).Validate())
}

func TestNutritionFactsIsEmpty(t *testing.T) {
	var nilFacts *NutritionFacts
	assert.True(t, nilFacts.IsEmpty())
	assert.True(t, (&NutritionFacts{}).IsEmpty())

	cal := 100
	assert.False(t, (&NutritionFacts{Calories: &cal}).IsEmpty())
}

func TestRequestDefaults(t *testing.T) {
	s := &SuggestRequest{Prompt: "x"}
	s.Defaults()
	assert.Equal(t, 30, s.Limit)
	assert.Equal(t, 3, s.K)

	p := &PingRequest{}
	p.Defaults()
	assert.NotEmpty(t, p.Text)

	sc := &ScrapeRequest{URL: "https://example.com"}
	sc.Defaults()
	assert.Equal(t, 20, sc.Timeout)
}

func TestAPIErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	err := NewAPIError(ErrCodeUpstream, "upstream failed", base).WithDetail(map[string]int{"status": 502})

	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "UPSTREAM_FAILED")
	d := err.ToDetail()
	assert.Equal(t, ErrCodeUpstream, d.Code)
	assert.Equal(t, map[string]int{"status": 502}, d.Detail)

	fe := &FetchError{URL: "https://x", StatusCode: 404}
	assert.Equal(t, "fetch https://x: HTTP 404", fe.Error())
}
