// Package fstore implements the durable, file-backed store.IStore.
//
// Files:
//
// A store consists of two files next to each other:
//
//   - the snapshot (e.g. my_db.json): the full state encoded by a snapshot.Codec,
//     replaced atomically on every save
//   - the write-ahead log (my_db.wal): one line per mutation since the last
//     checkpoint
//
// Write Path:
//
// Every mutation (Insert, Delete, Clear) runs three steps while holding the
// store mutex:
//
//  1. append the record to the write-ahead log (fsynced unless SyncWrites is off)
//  2. apply the mutation to the in-memory database (maple engine)
//  3. persist the snapshot, every SnapshotInterval mutations (default: every one)
//
// If step 1 fails the mutation is rejected and memory is unchanged. If step 3
// fails the caller receives an IoFailure, but memory keeps the change and the
// log keeps the record: the next successful snapshot or the next Open repairs
// the on-disk state. Deleting a missing document fails with KeyNotFound before
// anything is logged.
//
// Read Path:
//
// Get, List and Collections only read memory.
//
// Recovery:
//
// Open runs recovery.Recover: load the snapshot, fold the log onto it, persist
// the result and truncate the log. Checkpoint and Close do the same for the
// running store (save, then truncate).
//
// Metrics:
//
// The package records process wide metrics with github.com/VictoriaMetrics/metrics
// (ddoc_wal_appends_total, ddoc_snapshot_writes_total,
// ddoc_snapshot_duration_seconds, ...). metrics.WritePrometheus exposes them.
//
// Limitations:
//
// There is no file locking. Two processes opening the same files at the same
// time lose data.
package fstore
