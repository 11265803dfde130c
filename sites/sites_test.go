package sites

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaPage = `<html><head>
<title>Tomato Soup | Food.com</title>
<link rel="canonical" href="https://www.food.com/recipe/soup">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Tomato Soup",
 "author":[{"@type":"Person","name":"Ann"}],
 "totalTime":"PT1H","recipeYield":["4","4 bowls"],
 "image":["",{"url":"https://img.food.com/soup.jpg"}],
 "recipeIngredient":["2 tomatoes","1 cup  stock"],
 "recipeInstructions":[
   {"@type":"HowToSection","name":"Prep","itemListElement":[{"@type":"HowToStep","text":"Chop &amp; dice."}]},
   {"@type":"HowToStep","text":"Simmer."}],
 "nutrition":{"@type":"NutritionInformation","calories":"120 calories"}}
</script></head><body><p>Soup.</p></body></html>`

const wprmPage = `<html><head>
<meta property="og:image" content="https://www.budgetbytes.com/rice.jpg">
</head><body>
<div class="wprm-recipe">
  <h2 class="wprm-recipe-name">Egg Fried Rice</h2>
  <span class="wprm-recipe-author">Beth</span>
  <span class="wprm-recipe-servings">4</span> <span class="wprm-recipe-servings-unit">people</span>
  <span class="wprm-recipe-total_time-hours">1</span> hr
  <span class="wprm-recipe-total_time-minutes">15</span> mins
  <ul>
    <li class="wprm-recipe-ingredient">2 cups  rice</li>
    <li class="wprm-recipe-ingredient">3 eggs</li>
  </ul>
  <ul>
    <li><div class="wprm-recipe-instruction-text">Whisk the <strong>eggs</strong>.</div></li>
    <li><div class="wprm-recipe-instruction-text">Fry the rice.</div></li>
  </ul>
  <span class="wprm-nutrition-label-text-nutrition-container"><span class="wprm-nutrition-label-text-nutrition-label">Calories: </span><span class="wprm-nutrition-label-text-nutrition-value">350</span> <span class="wprm-nutrition-label-text-nutrition-unit">kcal</span></span>
  <span class="wprm-nutrition-label-text-nutrition-container"><span class="wprm-nutrition-label-text-nutrition-label">Protein: </span><span class="wprm-nutrition-label-text-nutrition-value">12</span> <span class="wprm-nutrition-label-text-nutrition-unit">g</span></span>
</div>
</body></html>`

func TestScrape_UnknownHostIsUnsupported(t *testing.T) {
	res := DefaultRegistry().Scrape("https://example.org/recipe", schemaPage)

	assert.Equal(t, StatusUnsupported, res.Status)
	assert.True(t, errors.Is(res.Err, ErrSiteUnsupported))
}

func TestScrape_InvalidURLIsUnsupported(t *testing.T) {
	res := DefaultRegistry().Scrape("not a url", schemaPage)
	assert.Equal(t, StatusUnsupported, res.Status)
}

func TestScrape_SchemaOnly(t *testing.T) {
	res := DefaultRegistry().Scrape("https://www.food.com/recipe/soup-123", schemaPage)
	require.Equal(t, StatusSupported, res.Status)
	f := res.Fields

	require.NotNil(t, f.Title)
	assert.Equal(t, "Tomato Soup", *f.Title)
	require.NotNil(t, f.Author)
	assert.Equal(t, "Ann", *f.Author)
	require.NotNil(t, f.CanonicalURL)
	assert.Equal(t, "https://www.food.com/recipe/soup", *f.CanonicalURL)
	require.NotNil(t, f.TotalTime)
	assert.Equal(t, 60, *f.TotalTime)
	require.NotNil(t, f.Yields)
	assert.Equal(t, "4 servings", *f.Yields)
	require.NotNil(t, f.Image)
	assert.Equal(t, "https://img.food.com/soup.jpg", *f.Image)
	assert.Equal(t, []string{"2 tomatoes", "1 cup stock"}, f.Ingredients)
	assert.Equal(t, []string{"Chop & dice.", "Simmer."}, f.Instructions)
	assert.Equal(t, map[string]any{"calories": "120 calories"}, f.Nutrients)
}

func TestScrape_WPRMMarkup(t *testing.T) {
	res := DefaultRegistry().Scrape("https://www.budgetbytes.com/egg-fried-rice/", wprmPage)
	require.Equal(t, StatusSupported, res.Status)
	f := res.Fields

	require.NotNil(t, f.Title)
	assert.Equal(t, "Egg Fried Rice", *f.Title)
	require.NotNil(t, f.Author)
	assert.Equal(t, "Beth", *f.Author)
	require.NotNil(t, f.Yields)
	assert.Equal(t, "4 people", *f.Yields)
	require.NotNil(t, f.TotalTime)
	assert.Equal(t, 75, *f.TotalTime)
	require.NotNil(t, f.Image)
	assert.Equal(t, "https://www.budgetbytes.com/rice.jpg", *f.Image)
	require.NotNil(t, f.CanonicalURL)
	assert.Equal(t, "https://www.budgetbytes.com/egg-fried-rice/", *f.CanonicalURL)

	assert.Equal(t, []string{"2 cups rice", "3 eggs"}, f.Ingredients)
	assert.Equal(t, []string{"Whisk the **eggs**.", "Fry the rice."}, f.Instructions)
	assert.Equal(t, map[string]any{"Calories": "350 kcal", "Protein": "12 g"}, f.Nutrients)
}

// stubScraper fails in every way an accessor can.
type stubScraper struct{}

func (stubScraper) Title() (string, error)        { return "", errors.New("boom") }
func (stubScraper) Author() (string, error)       { return "Cook", nil }
func (stubScraper) CanonicalURL() (string, error) { panic("no canonical") }
func (stubScraper) TotalTime() (int, error)       { return 30, nil }
func (stubScraper) Yields() (string, error)       { return "", ErrFieldNotFound }
func (stubScraper) Image() (any, error) {
	return map[string]any{"thumbnailUrl": " http://x/t.jpg "}, nil
}
func (stubScraper) Ingredients() ([]string, error)     { return []string{"salt"}, nil }
func (stubScraper) Instructions() ([]string, error)    { panic("index out of range") }
func (stubScraper) Nutrients() (map[string]any, error) { return nil, errors.New("no label") }

func TestScrape_AccessorsAreIsolated(t *testing.T) {
	r := NewRegistry()
	r.Register("www.stub.test", func(*Page) (Scraper, error) { return stubScraper{}, nil })

	res := r.Scrape("https://stub.test/r/1", "<html></html>")
	require.Equal(t, StatusSupported, res.Status)
	f := res.Fields

	assert.Nil(t, f.Title)
	assert.Nil(t, f.CanonicalURL)
	assert.Nil(t, f.Yields)
	require.NotNil(t, f.Author)
	assert.Equal(t, "Cook", *f.Author)
	require.NotNil(t, f.TotalTime)
	assert.Equal(t, 30, *f.TotalTime)
	require.NotNil(t, f.Image)
	assert.Equal(t, "http://x/t.jpg", *f.Image)
	assert.Equal(t, []string{"salt"}, f.Ingredients)
	assert.Equal(t, []string{}, f.Instructions)
	assert.Equal(t, map[string]any{}, f.Nutrients)
}

func TestScrape_ConstructorFailures(t *testing.T) {
	r := NewRegistry()
	r.Register("broken.test", func(*Page) (Scraper, error) { return nil, errors.New("bad page") })
	r.Register("panics.test", func(*Page) (Scraper, error) { panic("nil map") })

	res := r.Scrape("https://broken.test/", "")
	assert.Equal(t, StatusFailed, res.Status)
	assert.EqualError(t, res.Err, "bad page")

	res = r.Scrape("https://panics.test/", "")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestFormatYields(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"4", "4 servings", true},
		{"1", "1 serving", true},
		{"Makes 12 cookies", "Makes 12 cookies", true},
		{[]any{"", "6"}, "6 servings", true},
		{nil, "", false},
		{"  ", "", false},
		{map[string]any{"value": 4}, "", false},
	}
	for _, tt := range tests {
		got, ok := formatYields(tt.in)
		assert.Equal(t, tt.ok, ok, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Mac & Cheese", cleanText("Mac &amp; Cheese"))
	assert.Equal(t, "Stir well", cleanText("<p>Stir  <em>well</em></p>"))
	assert.Equal(t, "", cleanText("   "))
}
