// Package jobs runs the periodic background work: the reset sweep and
// notification evaluation. Jobs run one after another on a single goroutine,
// once when the runner starts and then on every tick.
package jobs
