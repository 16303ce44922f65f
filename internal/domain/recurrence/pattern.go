package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
)

// Pattern is a closed set of recurrence rules. The unexported method keeps
// implementations inside this package, so every switch over Pattern in this
// package can list all of them.
type Pattern interface {
	// Type returns the persisted name of the pattern.
	Type() domain.RecurrenceType
	sealed()
}

// Daily recurs every calendar day.
type Daily struct{}

// Weekly recurs every seven days.
type Weekly struct{}

// Fortnightly recurs every fourteen days.
type Fortnightly struct{}

// Monthly recurs every calendar month.
type Monthly struct{}

// Quarterly recurs every three calendar months.
type Quarterly struct{}

// HalfYearly recurs every six calendar months.
type HalfYearly struct{}

// Yearly recurs every twelve calendar months.
type Yearly struct{}

// MealTimes recurs at each selected meal, using the owning profile's meal-time table.
type MealTimes struct {
	Meals []domain.Meal
}

// SpecificDays recurs on the selected weekdays.
type SpecificDays struct {
	Days []time.Weekday
}

func (Daily) Type() domain.RecurrenceType        { return domain.RecurrenceDaily }
func (Weekly) Type() domain.RecurrenceType       { return domain.RecurrenceWeekly }
func (Fortnightly) Type() domain.RecurrenceType  { return domain.RecurrenceFortnightly }
func (Monthly) Type() domain.RecurrenceType      { return domain.RecurrenceMonthly }
func (Quarterly) Type() domain.RecurrenceType    { return domain.RecurrenceQuarterly }
func (HalfYearly) Type() domain.RecurrenceType   { return domain.RecurrenceHalfYearly }
func (Yearly) Type() domain.RecurrenceType       { return domain.RecurrenceYearly }
func (MealTimes) Type() domain.RecurrenceType    { return domain.RecurrenceMealTimes }
func (SpecificDays) Type() domain.RecurrenceType { return domain.RecurrenceSpecificDays }

func (Daily) sealed()        {}
func (Weekly) sealed()       {}
func (Fortnightly) sealed()  {}
func (Monthly) sealed()      {}
func (Quarterly) sealed()    {}
func (HalfYearly) sealed()   {}
func (Yearly) sealed()       {}
func (MealTimes) sealed()    {}
func (SpecificDays) sealed() {}

// Includes reports whether day is one of the selected weekdays.
func (s SpecificDays) Includes(day time.Weekday) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// FromDomain converts the persisted recurrence into a Pattern.
// It returns domain.ErrInvalidPatternConfig for unknown types and empty
// selection sets.
func FromDomain(r domain.Recurrence) (Pattern, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.Type {
	case domain.RecurrenceDaily:
		return Daily{}, nil
	case domain.RecurrenceWeekly:
		return Weekly{}, nil
	case domain.RecurrenceFortnightly:
		return Fortnightly{}, nil
	case domain.RecurrenceMonthly:
		return Monthly{}, nil
	case domain.RecurrenceQuarterly:
		return Quarterly{}, nil
	case domain.RecurrenceHalfYearly:
		return HalfYearly{}, nil
	case domain.RecurrenceYearly:
		return Yearly{}, nil
	case domain.RecurrenceMealTimes:
		return MealTimes{Meals: append([]domain.Meal(nil), r.Meals...)}, nil
	case domain.RecurrenceSpecificDays:
		days := make([]time.Weekday, 0, len(r.Days))
		for _, d := range r.Days {
			days = append(days, time.Weekday(d))
		}
		return SpecificDays{Days: days}, nil
	default:
		return nil, fmt.Errorf("%w: unknown recurrence type %q", domain.ErrInvalidPatternConfig, r.Type)
	}
}

// mealMinutes resolves the selected meals against a profile's table and
// returns the sorted, de-duplicated minutes after midnight. Meals missing
// from the table or with unparsable times are skipped.
func mealMinutes(meals []domain.Meal, table map[domain.Meal]string) []int {
	seen := make(map[int]struct{}, len(meals))
	minutes := make([]int, 0, len(meals))
	for _, meal := range meals {
		value, ok := table[meal]
		if !ok {
			continue
		}
		m, err := domain.ParseClock(value)
		if err != nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)
	return minutes
}
