// Package engine computes a single day's task schedule from declarative
// task templates, per-day instance modifications, and sleep settings.
//
// The package is deliberately pure: no storage, no clock, no logging. It is
// the algorithmic core the rest of the repo is plumbing around:
//   - recurrence.go decides whether a template occurs on a date
//   - order.go orders tasks so prerequisites come first (cycle-tolerant)
//   - busy.go finds free gaps between already-placed intervals
//   - engine.go orchestrates one Filter -> Check -> Anchor -> Place pass
package engine
