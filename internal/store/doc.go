// Package store provides SQLite-backed durable key-value storage for studyflow.
//
// Each persisted collection is one row in the kv table: the key names the
// collection and the value holds its serialized text. Rows are written
// independently; no transaction spans more than one key.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the single writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// The schema version is tracked in PRAGMA user_version; Open applies any
// missing migrations and refuses databases written by a newer version.
package store
