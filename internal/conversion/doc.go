// Package conversion contains the orchestrator that drives one media
// conversion from request to terminal outcome.
//
// A session moves through classifying, backend selection, and in-progress
// phases before settling in exactly one of succeeded, failed, or cancelled.
// The orchestrator owns a single active session at a time; submitting while
// one is running is rejected with ErrBusy. Subscribers observe the session
// through an event channel carrying zero or more progress fractions followed
// by exactly one terminal event, after which the channel is closed.
//
// The orchestrator itself holds no conversion logic: classification, preset
// policy, destination resolution, and the two execution backends are separate
// packages wired in at construction.
package conversion
