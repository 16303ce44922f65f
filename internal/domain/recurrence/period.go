package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
)

// ErrNotStarted is returned when the anchor of an interval pattern lies after now.
var ErrNotStarted = errors.New("recurrence has not started")

// Period is a half-open interval [Start, End) between two recurrence boundaries.
type Period struct {
	Start time.Time
	End   time.Time
}

// Length returns End − Start.
func (p Period) Length() time.Duration {
	return p.End.Sub(p.Start)
}

// Progress returns the fraction of the period elapsed at now. The second
// result is false for empty periods, where progress is undefined.
func (p Period) Progress(now time.Time) (float64, bool) {
	length := p.Length()
	if length <= 0 {
		return 0, false
	}
	return float64(now.Sub(p.Start)) / float64(length), true
}

// CurrentPeriod returns the recurrence period containing now.
//
// Boundaries follow the reset rule: daily and weekday patterns switch at local
// midnight, meal patterns at each configured meal time, weekly and fortnightly
// patterns every 7 or 14 days counted from anchor, and month-based patterns at
// the start of each calendar month, quarter, half-year or year.
//
// anchor is only used by Weekly and Fortnightly. mealTimes is only used by
// MealTimes and may be nil otherwise.
func CurrentPeriod(
	pattern Pattern,
	anchor time.Time,
	now time.Time,
	mealTimes map[domain.Meal]string,
) (Period, error) {
	day := StartOfDay(now)

	switch p := pattern.(type) {
	case Daily:
		return Period{Start: day, End: day.AddDate(0, 0, 1)}, nil

	case SpecificDays:
		return weekdayPeriod(p, day)

	case MealTimes:
		return mealPeriod(p, mealTimes, now)

	case Weekly:
		return intervalPeriod(anchor.In(now.Location()), now, week)

	case Fortnightly:
		return intervalPeriod(anchor.In(now.Location()), now, fortnight)

	case Monthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Period{Start: start, End: start.AddDate(0, 1, 0)}, nil

	case Quarterly:
		return calendarBlock(now, 3), nil

	case HalfYearly:
		return calendarBlock(now, 6), nil

	case Yearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Period{Start: start, End: start.AddDate(1, 0, 0)}, nil

	default:
		return Period{}, fmt.Errorf("%w: unsupported pattern %T", domain.ErrInvalidPatternConfig, pattern)
	}
}

// calendarBlock returns the block of months (3 or 6) containing now,
// aligned on January.
func calendarBlock(now time.Time, months int) Period {
	first := time.Month(monthIndex(now)/months*months + 1)
	start := time.Date(now.Year(), first, 1, 0, 0, 0, 0, now.Location())
	return Period{Start: start, End: start.AddDate(0, months, 0)}
}

func weekdayPeriod(p SpecificDays, day time.Time) (Period, error) {
	if len(p.Days) == 0 {
		return Period{}, fmt.Errorf("%w: no weekdays selected", domain.ErrInvalidPatternConfig)
	}

	var period Period
	for i := 0; i < 7; i++ {
		d := day.AddDate(0, 0, -i)
		if p.Includes(d.Weekday()) {
			period.Start = d
			break
		}
	}
	for i := 1; i <= 7; i++ {
		d := day.AddDate(0, 0, i)
		if p.Includes(d.Weekday()) {
			period.End = d
			break
		}
	}
	if period.Start.IsZero() || period.End.IsZero() {
		return Period{}, fmt.Errorf("%w: weekdays out of range", domain.ErrInvalidPatternConfig)
	}
	return period, nil
}

func mealPeriod(p MealTimes, table map[domain.Meal]string, now time.Time) (Period, error) {
	if table == nil {
		return Period{}, fmt.Errorf("%w: profile has no meal-time table", domain.ErrMissingConfiguration)
	}
	minutes := mealMinutes(p.Meals, table)
	if len(minutes) == 0 {
		return Period{}, fmt.Errorf("%w: no selected meal has a configured time", domain.ErrMissingConfiguration)
	}

	var period Period
	today := StartOfDay(now)
	// Yesterday's last meal and tomorrow's first meal bound every instant.
	for offset := -1; offset <= 1; offset++ {
		d := today.AddDate(0, 0, offset)
		for _, m := range minutes {
			b := time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, now.Location())
			if !b.After(now) {
				period.Start = b
			} else if period.End.IsZero() {
				period.End = b
			}
		}
	}
	return period, nil
}

func intervalPeriod(anchor, now time.Time, interval time.Duration) (Period, error) {
	if now.Before(anchor) {
		return Period{}, ErrNotStarted
	}
	elapsed := now.Sub(anchor) / interval
	start := anchor.Add(elapsed * interval)
	return Period{Start: start, End: start.Add(interval)}, nil
}
