package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPeriodCalendarPatterns(t *testing.T) {
	t.Parallel()

	now := at(2024, time.May, 8, 15, 45)

	testCases := []struct {
		name    string
		pattern Pattern
		start   time.Time
		end     time.Time
	}{
		{"daily", Daily{}, at(2024, time.May, 8, 0, 0), at(2024, time.May, 9, 0, 0)},
		{"monthly", Monthly{}, at(2024, time.May, 1, 0, 0), at(2024, time.June, 1, 0, 0)},
		{"quarterly", Quarterly{}, at(2024, time.April, 1, 0, 0), at(2024, time.July, 1, 0, 0)},
		{"half-yearly", HalfYearly{}, at(2024, time.January, 1, 0, 0), at(2024, time.July, 1, 0, 0)},
		{"yearly", Yearly{}, at(2024, time.January, 1, 0, 0), at(2025, time.January, 1, 0, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			period, err := CurrentPeriod(tc.pattern, time.Time{}, now, nil)
			require.NoError(t, err)
			assert.True(t, tc.start.Equal(period.Start), "start: expected %v, got %v", tc.start, period.Start)
			assert.True(t, tc.end.Equal(period.End), "end: expected %v, got %v", tc.end, period.End)
		})
	}
}

func TestCurrentPeriodInterval(t *testing.T) {
	t.Parallel()

	anchor := at(2024, time.May, 1, 9, 0)

	period, err := CurrentPeriod(Weekly{}, anchor, at(2024, time.May, 16, 12, 0), nil)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 15, 9, 0).Equal(period.Start))
	assert.True(t, at(2024, time.May, 22, 9, 0).Equal(period.End))

	period, err = CurrentPeriod(Fortnightly{}, anchor, at(2024, time.May, 16, 12, 0), nil)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 15, 9, 0).Equal(period.Start))
	assert.Equal(t, fortnight, period.Length())

	_, err = CurrentPeriod(Weekly{}, anchor, anchor.Add(-time.Minute), nil)
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestCurrentPeriodSpecificDays(t *testing.T) {
	t.Parallel()

	pattern := SpecificDays{Days: []time.Weekday{time.Monday, time.Friday}}

	// Wednesday 2024-05-08 sits between Monday the 6th and Friday the 10th.
	period, err := CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 8, 12, 0), nil)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 6, 0, 0).Equal(period.Start))
	assert.True(t, at(2024, time.May, 10, 0, 0).Equal(period.End))

	// On a selected day the period starts that midnight.
	period, err = CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 10, 8, 0), nil)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 10, 0, 0).Equal(period.Start))
	assert.True(t, at(2024, time.May, 13, 0, 0).Equal(period.End))

	_, err = CurrentPeriod(SpecificDays{}, time.Time{}, at(2024, time.May, 10, 8, 0), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPatternConfig)
}

func TestCurrentPeriodMealTimes(t *testing.T) {
	t.Parallel()

	pattern := MealTimes{Meals: []domain.Meal{domain.MealBreakfast, domain.MealLunch, domain.MealDinner}}
	table := map[domain.Meal]string{
		domain.MealBreakfast: "07:30",
		domain.MealLunch:     "12:00",
		domain.MealDinner:    "18:30",
	}

	period, err := CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 8, 13, 0), table)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 8, 12, 0).Equal(period.Start))
	assert.True(t, at(2024, time.May, 8, 18, 30).Equal(period.End))

	// Before breakfast the period began at yesterday's dinner.
	period, err = CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 8, 6, 0), table)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 7, 18, 30).Equal(period.Start))
	assert.True(t, at(2024, time.May, 8, 7, 30).Equal(period.End))

	// After dinner the period ends at tomorrow's breakfast.
	period, err = CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 8, 22, 0), table)
	require.NoError(t, err)
	assert.True(t, at(2024, time.May, 9, 7, 30).Equal(period.End))

	_, err = CurrentPeriod(pattern, time.Time{}, at(2024, time.May, 8, 13, 0), nil)
	assert.ErrorIs(t, err, domain.ErrMissingConfiguration)
}

func TestPeriodProgress(t *testing.T) {
	t.Parallel()

	p := Period{Start: at(2024, time.May, 8, 0, 0), End: at(2024, time.May, 9, 0, 0)}

	progress, ok := p.Progress(at(2024, time.May, 8, 18, 0))
	require.True(t, ok)
	assert.InDelta(t, 0.75, progress, 1e-9)

	_, ok = Period{Start: p.Start, End: p.Start}.Progress(p.Start)
	assert.False(t, ok, "empty period has no progress")
}
