// Package recovery rebuilds the in-memory state of a dDoc database when it is
// opened.
//
// Recover runs once per open: it loads the snapshot, folds every record of the
// write-ahead log onto it, persists the result as a fresh snapshot and finally
// truncates the log. Fold and Apply are exported so that the folding can be
// tested (and reused) without any files.
//
// Failure classification:
//
//   - snapshot missing: new database, not an error
//   - snapshot unreadable: store.RetCIoFailure
//   - snapshot not decodable: store.RetCCorruptSnapshot
//   - unparseable wal lines: skipped and counted in Result.Skipped
package recovery
