package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DDDesignDev/homelab/normalize"
)

// DefaultPerson is the pseudo-person meaning "everyone in the house".
// Filtering by it is the same as not filtering at all.
const DefaultPerson = "Household"

// DateLayout is the wire and storage format of a calendar day.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// Today returns the current local calendar day.
func Today() Date {
	return NewDate(time.Now())
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the day n days after d.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Meal is one planned meal.
type Meal struct {
	ID        int64     `json:"id"`
	Day       Date      `json:"day"`
	Slot      string    `json:"slot"`
	Person    string    `json:"person"`
	Servings  float64   `json:"servings"`
	RecipeID  int64     `json:"recipe_id"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MealCreate is the payload for POST /api/meals.
type MealCreate struct {
	Day      *Date    `json:"day" binding:"required"`
	Slot     string   `json:"slot"`
	Person   string   `json:"person"`
	Servings *float64 `json:"servings"`
	RecipeID *int64   `json:"recipe_id" binding:"required"`
	Notes    *string  `json:"notes"`
}

// Normalize applies defaults, validates lengths and canonicalizes slot and
// person. It returns an *APIError with code INVALID_INPUT on failure.
func (m *MealCreate) Normalize() error {
	if m.Person == "" {
		m.Person = DefaultPerson
	}
	if m.Servings == nil {
		one := 1.0
		m.Servings = &one
	}

	slot, err := NormalizeSlot(m.Slot)
	if err != nil {
		return err
	}
	person, err := NormalizePerson(m.Person)
	if err != nil {
		return err
	}
	if err := validateServings(*m.Servings); err != nil {
		return err
	}
	if err := validateNotes(m.Notes); err != nil {
		return err
	}
	m.Slot, m.Person = slot, person
	return nil
}

// MealUpdate is the payload for PUT /api/meals/:id. Nil fields are unchanged.
type MealUpdate struct {
	Day      *Date    `json:"day"`
	Slot     *string  `json:"slot"`
	Person   *string  `json:"person"`
	Servings *float64 `json:"servings"`
	RecipeID *int64   `json:"recipe_id"`
	Notes    *string  `json:"notes"`
}

// Normalize validates and canonicalizes the fields that are set.
func (m *MealUpdate) Normalize() error {
	if m.Slot != nil {
		slot, err := NormalizeSlot(*m.Slot)
		if err != nil {
			return err
		}
		m.Slot = &slot
	}
	if m.Person != nil {
		person, err := NormalizePerson(*m.Person)
		if err != nil {
			return err
		}
		m.Person = &person
	}
	if m.Servings != nil {
		if err := validateServings(*m.Servings); err != nil {
			return err
		}
	}
	return validateNotes(m.Notes)
}

// MealFilter selects meals for listing and reports. Zero dates are open bounds.
type MealFilter struct {
	Start  *Date
	End    *Date
	Person string
}

// NormalizeSlot lower-cases and whitespace-collapses a meal slot name.
func NormalizeSlot(slot string) (string, error) {
	if utf8.RuneCountInString(slot) > 40 {
		return "", InvalidInput("slot must be at most 40 characters")
	}
	s := normalize.CollapseSpace(cases.Lower(language.Und).String(slot))
	if s == "" {
		return "", InvalidInput("slot is required")
	}
	return s, nil
}

// NormalizePerson whitespace-collapses a person name, keeping its case.
func NormalizePerson(person string) (string, error) {
	if utf8.RuneCountInString(person) > 80 {
		return "", InvalidInput("person must be at most 80 characters")
	}
	p := normalize.CollapseSpace(person)
	if p == "" {
		return "", InvalidInput("person is required")
	}
	return p, nil
}

func validateServings(v float64) error {
	if v <= 0 {
		return InvalidInput("servings must be > 0")
	}
	return nil
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > 2000 {
		return InvalidInput("notes must be at most 2000 characters")
	}
	return nil
}
