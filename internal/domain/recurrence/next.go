package recurrence

import "time"

// NextOccurrence returns the next occurrence of pattern after ref.
//
// Day-based patterns add calendar days, so the wall-clock time of ref is kept
// across daylight-saving changes. Month-based patterns add calendar months and
// clamp to the last day of the target month when the day overflows, e.g.
// January 31 + 1 month is February 28 (29 in leap years) and February 29 + 1
// year is February 28.
//
// MealTimes and SpecificDays fall back to the next calendar day; their real
// boundaries depend on profile data and are resolved by CurrentPeriod.
func NextOccurrence(pattern Pattern, ref time.Time) time.Time {
	switch pattern.(type) {
	case Daily, SpecificDays, MealTimes:
		return ref.AddDate(0, 0, 1)
	case Weekly:
		return ref.AddDate(0, 0, 7)
	case Fortnightly:
		return ref.AddDate(0, 0, 14)
	case Monthly:
		return AddMonthsClamped(ref, 1)
	case Quarterly:
		return AddMonthsClamped(ref, 3)
	case HalfYearly:
		return AddMonthsClamped(ref, 6)
	case Yearly:
		return AddMonthsClamped(ref, 12)
	default:
		return ref.AddDate(0, 0, 1)
	}
}

// AddMonthsClamped adds months to t, clamping the day of month to the last
// day of the target month instead of overflowing into the month after.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalise through the first of the month so the target month is exact.
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
