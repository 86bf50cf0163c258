// Package state provides thread-safe state management for service health
// and sample catalog data.
//
// # Overview
//
// The Store is the coordination point where the background health poller
// meets UI rendering: the poller writes fresh health and sample data, the
// UI reads immutable snapshots on its own schedule.
//
// # Update Semantics
//
// Update has special error handling behavior:
//
//	// Success case: Replace entire snapshot
//	store.Update(health, samples, nil)
//	→ snapshot.Health = health
//	→ snapshot.Samples = samples
//	→ snapshot.Service = derived from health
//	→ snapshot.LastError = nil
//
//	// Error case: Keep old data, record error
//	store.Update(nil, nil, err)
//	→ snapshot.Health = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// A single failed poll keeps the last known service state so one dropped
// request does not flap the header; once IsOffline reports true the service
// state degrades to unavailable.
//
// # Defensive Copying
//
// Both Update and Snapshot copy the sample slice and the error value, so
// the poller and the UI never share mutable state. The cost is a few
// kilobytes per snapshot, which is negligible for a desktop client.
//
// # Concurrency Model
//
// A readers-writer lock: Update takes the write lock, Snapshot the read
// lock, and the lock is held only during copies, never during network I/O
// or rendering. The zero value Store is ready to use.
package state
