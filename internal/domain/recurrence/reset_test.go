package recurrence

import (
	"testing"
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/stretchr/testify/assert"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func completedAt(pattern Pattern, last time.Time) ResetInput {
	return ResetInput{Pattern: pattern, Completed: true, LastCompletedAt: &last}
}

func TestShouldResetDaily(t *testing.T) {
	t.Parallel()

	last := at(2024, time.May, 6, 23, 10)
	in := completedAt(Daily{}, last)

	assert.False(t, ShouldReset(in, at(2024, time.May, 6, 23, 10)), "same instant")
	assert.False(t, ShouldReset(in, at(2024, time.May, 6, 23, 59)), "same date, later time")
	assert.True(t, ShouldReset(in, at(2024, time.May, 7, 0, 0)), "calendar date advanced")
	assert.True(t, ShouldReset(in, at(2024, time.May, 9, 12, 0)), "several days later")

	// Completed just after midnight, the whole day still counts as the same day.
	early := completedAt(Daily{}, at(2024, time.May, 6, 0, 1))
	assert.False(t, ShouldReset(early, at(2024, time.May, 6, 23, 59)))
}

func TestShouldResetUsesNowLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-05-06 20:00 UTC is already 2024-05-07 06:00 in UTC+10.
	in := completedAt(Daily{}, at(2024, time.May, 6, 10, 0))
	now := at(2024, time.May, 6, 20, 0)

	assert.False(t, ShouldReset(in, now))
	assert.True(t, ShouldReset(in, now.In(loc)))
}

func TestShouldResetNotCompleted(t *testing.T) {
	t.Parallel()

	last := at(2024, time.January, 1, 8, 0)
	now := at(2025, time.January, 1, 8, 0)

	assert.False(t, ShouldReset(ResetInput{Pattern: Daily{}, LastCompletedAt: &last}, now))
	assert.False(t, ShouldReset(ResetInput{Pattern: Daily{}, Completed: true}, now))
	assert.False(t, ShouldReset(ResetInput{Completed: true, LastCompletedAt: &last}, now))
}

func TestShouldResetRecurrenceFromGuard(t *testing.T) {
	t.Parallel()

	last := at(2024, time.May, 1, 9, 0)
	from := at(2024, time.May, 10, 0, 0)

	in := completedAt(Daily{}, last)
	in.RecurrenceFrom = &from

	d := Decide(in, at(2024, time.May, 9, 23, 59))
	assert.False(t, d.Reset)
	assert.Equal(t, ReasonNotStarted, d.Reason)
	assert.True(t, ShouldReset(in, from))

	// The guard never applies to meal patterns.
	meals := ResetInput{
		Pattern:         MealTimes{Meals: []domain.Meal{domain.MealBreakfast}},
		Completed:       true,
		LastCompletedAt: &last,
		RecurrenceFrom:  &from,
		MealTimes:       map[domain.Meal]string{domain.MealBreakfast: "07:00"},
	}
	assert.True(t, ShouldReset(meals, at(2024, time.May, 2, 7, 0)))
}

func TestShouldResetSpecificDays(t *testing.T) {
	t.Parallel()

	pattern := SpecificDays{Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}
	// 2024-05-06 is a Monday.
	in := completedAt(pattern, at(2024, time.May, 6, 10, 0))

	assert.False(t, ShouldReset(in, at(2024, time.May, 6, 10, 1)), "Monday")
	assert.False(t, ShouldReset(in, at(2024, time.May, 6, 23, 59)), "Monday night")
	assert.False(t, ShouldReset(in, at(2024, time.May, 7, 0, 0)), "Tuesday start")
	assert.False(t, ShouldReset(in, at(2024, time.May, 7, 18, 0)), "Tuesday evening")
	assert.True(t, ShouldReset(in, at(2024, time.May, 8, 0, 0)), "Wednesday 00:00")

	empty := completedAt(SpecificDays{}, at(2024, time.May, 6, 10, 0))
	assert.False(t, ShouldReset(empty, at(2024, time.May, 8, 0, 0)), "empty selection is inert")
}

func TestShouldResetMealTimes(t *testing.T) {
	t.Parallel()

	table := map[domain.Meal]string{
		domain.MealBreakfast: "07:00",
		domain.MealLunch:     "12:00",
	}
	pattern := MealTimes{Meals: []domain.Meal{domain.MealBreakfast, domain.MealLunch}}
	last := at(2024, time.May, 6, 8, 0)
	in := ResetInput{Pattern: pattern, Completed: true, LastCompletedAt: &last, MealTimes: table}

	assert.False(t, ShouldReset(in, at(2024, time.May, 6, 11, 59)), "before lunch")
	assert.True(t, ShouldReset(in, at(2024, time.May, 6, 12, 0)), "lunch boundary crossed")

	t.Run("next day before breakfast", func(t *testing.T) {
		assert.False(t, ShouldReset(in, at(2024, time.May, 7, 6, 59)))
		assert.True(t, ShouldReset(in, at(2024, time.May, 7, 7, 0)))
	})

	t.Run("missing table never resets", func(t *testing.T) {
		noTable := in
		noTable.MealTimes = nil
		d := Decide(noTable, at(2024, time.May, 8, 12, 0))
		assert.False(t, d.Reset)
		assert.Equal(t, ReasonMissingMealTimes, d.Reason)
	})

	t.Run("unconfigured meals are ignored", func(t *testing.T) {
		dinner := in
		dinner.Pattern = MealTimes{Meals: []domain.Meal{domain.MealDinner}}
		d := Decide(dinner, at(2024, time.May, 8, 20, 0))
		assert.False(t, d.Reset)
		assert.Equal(t, ReasonNoMealBoundaries, d.Reason)
	})

	t.Run("completion after the last meal of the day", func(t *testing.T) {
		late := at(2024, time.May, 6, 13, 0)
		lateIn := in
		lateIn.LastCompletedAt = &late
		assert.False(t, ShouldReset(lateIn, at(2024, time.May, 6, 23, 0)))
	})
}

func TestShouldResetWeeklyAndFortnightly(t *testing.T) {
	t.Parallel()

	last := at(2024, time.May, 6, 10, 0)

	weekly := completedAt(Weekly{}, last)
	assert.False(t, ShouldReset(weekly, last.Add(week-time.Minute)))
	assert.True(t, ShouldReset(weekly, last.Add(week)))

	fortnightly := completedAt(Fortnightly{}, last)
	assert.False(t, ShouldReset(fortnightly, last.Add(week)))
	assert.False(t, ShouldReset(fortnightly, last.Add(fortnight-time.Second)))
	assert.True(t, ShouldReset(fortnightly, last.Add(fortnight)))

	// A completion time in the future is not an elapsed interval.
	assert.False(t, ShouldReset(weekly, last.Add(-fortnight)))
}

func TestShouldResetCalendarPatterns(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		pattern  Pattern
		last     time.Time
		now      time.Time
		expected bool
	}{
		{"monthly same month", Monthly{}, at(2024, time.March, 1, 0, 0), at(2024, time.March, 31, 23, 59), false},
		{"monthly next month", Monthly{}, at(2024, time.March, 31, 23, 0), at(2024, time.April, 1, 0, 0), true},
		{"monthly same month next year", Monthly{}, at(2023, time.March, 15, 0, 0), at(2024, time.March, 15, 0, 0), true},
		{"quarterly March 31 to April 1", Quarterly{}, at(2024, time.March, 31, 12, 0), at(2024, time.April, 1, 0, 0), true},
		{"quarterly within Q1", Quarterly{}, at(2024, time.January, 2, 0, 0), at(2024, time.March, 31, 23, 59), false},
		{"quarterly within Q2", Quarterly{}, at(2024, time.April, 1, 0, 0), at(2024, time.June, 29, 0, 0), false},
		{"quarterly same quarter next year", Quarterly{}, at(2023, time.May, 1, 0, 0), at(2024, time.May, 1, 0, 0), true},
		{"half-yearly within first half", HalfYearly{}, at(2024, time.January, 1, 0, 0), at(2024, time.June, 30, 23, 59), false},
		{"half-yearly July", HalfYearly{}, at(2024, time.June, 30, 23, 59), at(2024, time.July, 1, 0, 0), true},
		{"yearly same year", Yearly{}, at(2024, time.January, 1, 0, 0), at(2024, time.December, 31, 23, 59), false},
		{"yearly new year", Yearly{}, at(2024, time.December, 31, 23, 59), at(2025, time.January, 1, 0, 0), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ShouldReset(completedAt(tc.pattern, tc.last), tc.now))
		})
	}
}

func TestShouldResetIsIdempotent(t *testing.T) {
	t.Parallel()

	last := at(2024, time.May, 6, 8, 0)
	from := at(2024, time.May, 1, 0, 0)
	in := ResetInput{
		Pattern:         MealTimes{Meals: []domain.Meal{domain.MealLunch}},
		Completed:       true,
		LastCompletedAt: &last,
		RecurrenceFrom:  &from,
		MealTimes:       map[domain.Meal]string{domain.MealLunch: "12:00"},
	}
	now := at(2024, time.May, 6, 12, 30)

	first := ShouldReset(in, now)
	second := ShouldReset(in, now)

	assert.Equal(t, first, second)
	assert.True(t, last.Equal(*in.LastCompletedAt), "input must not be mutated")
}
