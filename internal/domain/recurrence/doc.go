// Package recurrence implements the scheduling rules for recurring tasks.
//
// The three entry points are pure functions: NextOccurrence computes the next
// due date for a pattern, ShouldReset decides whether a completed task rolls
// back to pending at a given instant, and CurrentPeriod finds the recurrence
// period containing an instant so callers can measure progress toward the next
// boundary. None of them read the clock or mutate their inputs; every calendar
// comparison happens in the location of the "now" argument.
package recurrence
