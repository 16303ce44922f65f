// Package lifecycle owns the household task state at runtime.
//
// Controller applies the reset rule on load and on every sweep, performs the
// user actions (complete, uncheck, reset, restore), records history and
// persists the result. All writes are serialized by a single mutex, so a
// task's completion is never read and cleared by two callers at once.
package lifecycle
