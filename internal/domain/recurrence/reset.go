package recurrence

import (
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
)

const (
	week      = 7 * 24 * time.Hour
	fortnight = 14 * 24 * time.Hour
)

// Reasons reported by Decide.
const (
	ReasonNotCompleted      = "task is not completed"
	ReasonNoPattern         = "task has no recurrence pattern"
	ReasonNotStarted        = "recurrence has not started yet"
	ReasonSameDay           = "completed today"
	ReasonNewDay            = "calendar day changed"
	ReasonDayNotSelected    = "today is not a selected weekday"
	ReasonSelectedDay       = "selected weekday reached"
	ReasonMissingMealTimes  = "profile has no meal-time table"
	ReasonNoMealBoundaries  = "no selected meal has a configured time"
	ReasonMealCrossed       = "meal boundary passed since completion"
	ReasonMealNotCrossed    = "no meal boundary passed since completion"
	ReasonIntervalElapsed   = "interval elapsed since completion"
	ReasonIntervalRemaining = "interval not yet elapsed"
	ReasonPeriodChanged     = "calendar period changed"
	ReasonSamePeriod        = "still in the completion period"
)

// ResetInput carries everything the reset rule needs about one task.
type ResetInput struct {
	Pattern         Pattern
	Completed       bool
	LastCompletedAt *time.Time

	// RecurrenceFrom suppresses resets before it. Ignored for MealTimes.
	RecurrenceFrom *time.Time

	// MealTimes is the owning profile's meal table, required for MealTimes.
	MealTimes map[domain.Meal]string
}

// InputForTask builds the reset input for a task. profile may be nil.
func InputForTask(task *domain.Task, pattern Pattern, profile *domain.UserProfile) ResetInput {
	in := ResetInput{
		Pattern:         pattern,
		Completed:       task.IsCompleted,
		LastCompletedAt: task.CompletedAt,
		RecurrenceFrom:  task.RecurrenceFrom,
	}
	if profile != nil {
		in.MealTimes = profile.MealTimes
	}
	return in
}

// Decision is the outcome of the reset rule with a human-readable reason.
type Decision struct {
	Reset  bool
	Reason string
}

// ShouldReset reports whether a completed task should return to pending at now.
// It is a pure predicate: calling it repeatedly with the same inputs gives the
// same answer.
func ShouldReset(in ResetInput, now time.Time) bool {
	return Decide(in, now).Reset
}

// Decide applies the reset rule and explains the outcome.
func Decide(in ResetInput, now time.Time) Decision {
	if !in.Completed || in.LastCompletedAt == nil {
		return Decision{Reason: ReasonNotCompleted}
	}
	if in.Pattern == nil {
		return Decision{Reason: ReasonNoPattern}
	}

	last := in.LastCompletedAt.In(now.Location())

	if _, meals := in.Pattern.(MealTimes); !meals {
		if in.RecurrenceFrom != nil && now.Before(*in.RecurrenceFrom) {
			return Decision{Reason: ReasonNotStarted}
		}
	}

	switch p := in.Pattern.(type) {
	case Daily:
		if SameDate(now, last) {
			return Decision{Reason: ReasonSameDay}
		}
		return Decision{Reset: true, Reason: ReasonNewDay}

	case SpecificDays:
		if SameDate(now, last) {
			return Decision{Reason: ReasonSameDay}
		}
		if !p.Includes(now.Weekday()) {
			return Decision{Reason: ReasonDayNotSelected}
		}
		return Decision{Reset: true, Reason: ReasonSelectedDay}

	case MealTimes:
		return decideMeals(p, in.MealTimes, last, now)

	case Weekly:
		return decideInterval(now.Sub(last), week)

	case Fortnightly:
		return decideInterval(now.Sub(last), fortnight)

	case Monthly:
		return decidePeriod(now.Year() != last.Year() || now.Month() != last.Month())

	case Quarterly:
		return decidePeriod(now.Year() != last.Year() || monthIndex(now)/3 != monthIndex(last)/3)

	case HalfYearly:
		return decidePeriod(now.Year() != last.Year() || monthIndex(now)/6 != monthIndex(last)/6)

	case Yearly:
		return decidePeriod(now.Year() != last.Year())

	default:
		return Decision{Reason: ReasonNoPattern}
	}
}

func decideMeals(p MealTimes, table map[domain.Meal]string, last, now time.Time) Decision {
	if table == nil {
		return Decision{Reason: ReasonMissingMealTimes}
	}
	boundaries := mealMinutes(p.Meals, table)
	if len(boundaries) == 0 {
		return Decision{Reason: ReasonNoMealBoundaries}
	}

	nowMinute := minuteOfDay(now)
	lastMinute := minuteOfDay(last)
	sameDay := SameDate(now, last)

	for _, b := range boundaries {
		if b > nowMinute {
			continue
		}
		if !sameDay || b > lastMinute {
			return Decision{Reset: true, Reason: ReasonMealCrossed}
		}
	}
	return Decision{Reason: ReasonMealNotCrossed}
}

// decideInterval resets once at least one whole interval has elapsed.
func decideInterval(elapsed, interval time.Duration) Decision {
	if elapsed/interval >= 1 {
		return Decision{Reset: true, Reason: ReasonIntervalElapsed}
	}
	return Decision{Reason: ReasonIntervalRemaining}
}

func decidePeriod(changed bool) Decision {
	if changed {
		return Decision{Reset: true, Reason: ReasonPeriodChanged}
	}
	return Decision{Reason: ReasonSamePeriod}
}

// monthIndex returns the zero-based month, January = 0.
func monthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
