// Package events carries domain events between the task lifecycle, the
// notification dispatcher and their observers.
//
// Producers emit events without knowing which handlers consume them. The
// Recorder handler keeps the most recent events for the activity feed.
package events
