// Package tracker owns the study-tracking collections and every mutation on them.
//
// A Tracker holds Subjects, Assignments and StudySessions in memory. Consumers
// never write to the collections directly: they call the mutation methods,
// subscribe to Change notifications, and read copies through Snapshot.
//
// # Error Model
//
// Mutations never return errors. An unmet precondition (empty name, missing
// deadline, non-positive hours) or an unknown id turns the call into a no-op,
// reported only through the boolean result. Subscribers are notified after
// successful mutations and never after a no-op.
//
// # Concurrency
//
// The tracker is designed for a single writer driven by discrete user events.
// An internal mutex keeps reads from other goroutines safe, and subscribers
// run synchronously on the mutating goroutine after the lock is released.
package tracker
