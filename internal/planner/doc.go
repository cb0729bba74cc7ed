// Package planner is the only caller of the scheduling engine.
//
// It loads template/instance/settings snapshots from storage, feeds them to
// the pure computation, and maintains the per-date result cache. Every write
// path that can change a schedule goes through this package so invalidation
// stays in one place.
package planner
