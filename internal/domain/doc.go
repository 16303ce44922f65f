// Package domain contains the core household entities: tasks, task groups,
// user profiles and the history of completion changes. It also defines the
// persisted shape of recurrence patterns, which the recurrence subpackage
// turns into executable rules.
package domain
