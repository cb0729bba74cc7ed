// Package storage is dayplan's SQLite persistence layer.
//
// It holds the engine's external collaborators:
//   - task templates (with soft delete)
//   - per-date task instances (status + manual start overrides)
//   - per-user sleep settings
//   - the per-date schedule cache (disposable, recomputable)
//
// The engine itself never touches this package; the planner service loads
// snapshots here and feeds them to the pure computation.
package storage
