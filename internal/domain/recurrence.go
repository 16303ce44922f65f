package domain

import (
	"fmt"
	"strings"
)

// RecurrenceType names the rule that governs how often a task becomes due again.
type RecurrenceType string

// Valid recurrence types.
const (
	RecurrenceDaily        RecurrenceType = "daily"
	RecurrenceWeekly       RecurrenceType = "weekly"
	RecurrenceFortnightly  RecurrenceType = "fortnightly"
	RecurrenceMonthly      RecurrenceType = "monthly"
	RecurrenceQuarterly    RecurrenceType = "quarterly"
	RecurrenceHalfYearly   RecurrenceType = "halfyearly"
	RecurrenceYearly       RecurrenceType = "yearly"
	RecurrenceMealTimes    RecurrenceType = "mealtimes"
	RecurrenceSpecificDays RecurrenceType = "specificdays"
)

// IsValid reports whether r is one of the known recurrence types.
func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceFortnightly,
		RecurrenceMonthly, RecurrenceQuarterly, RecurrenceHalfYearly, RecurrenceYearly,
		RecurrenceMealTimes, RecurrenceSpecificDays:
		return true
	default:
		return false
	}
}

// ParseRecurrenceType parses a case-insensitive recurrence type name.
func ParseRecurrenceType(input string) (RecurrenceType, error) {
	r := RecurrenceType(strings.TrimSpace(strings.ToLower(input)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidPatternConfig, input)
	}
	return r, nil
}

// Meal identifies one of the four daily meal boundaries a profile can configure.
type Meal string

// Valid meals, in their usual order through the day.
const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealNightcap  Meal = "nightcap"
)

// AllMeals lists every meal in day order.
var AllMeals = []Meal{MealBreakfast, MealLunch, MealDinner, MealNightcap}

// IsValid reports whether m is a known meal.
func (m Meal) IsValid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealNightcap:
		return true
	default:
		return false
	}
}

// Recurrence is the persisted form of a task's recurrence pattern.
// Meals is only meaningful for mealtimes and Days (0 = Sunday … 6 = Saturday)
// only for specificdays.
type Recurrence struct {
	Type  RecurrenceType `json:"type"`
	Meals []Meal         `json:"meals,omitempty"`
	Days  []int          `json:"days,omitempty"`
}

// Validate checks the pattern-specific configuration.
func (r Recurrence) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidPatternConfig, r.Type)
	}

	switch r.Type {
	case RecurrenceMealTimes:
		if len(r.Meals) == 0 {
			return fmt.Errorf("%w: mealtimes pattern has no meals selected", ErrInvalidPatternConfig)
		}
		for _, m := range r.Meals {
			if !m.IsValid() {
				return fmt.Errorf("%w: unknown meal %q", ErrInvalidPatternConfig, m)
			}
		}
	case RecurrenceSpecificDays:
		if len(r.Days) == 0 {
			return fmt.Errorf("%w: specificdays pattern has no days selected", ErrInvalidPatternConfig)
		}
		for _, d := range r.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidPatternConfig, d)
			}
		}
	}

	return nil
}
