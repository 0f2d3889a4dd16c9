// Package snapshot provides total-state (de)serialization of a dDoc
// database and the file operations used to persist it.
//
// The package focuses on:
//   - A Codec interface with deterministic JSON implementations
//   - Atomic replacement of the snapshot file (write tmp, fsync, rename)
//   - Distinguishing "new database" (absent or empty file) from corruption
//
// Key Components:
//
//   - Codec: Encode/Decode of a State (collection -> id -> document).
//     NewJSONCodec produces compact output, NewPrettyJSONCodec indented
//     output that is convenient to inspect by hand. Both sort all keys, so
//     encoding the same State twice yields identical bytes.
//
//   - Save: Writes the encoding to "<path>.tmp", syncs it and renames it over
//     the destination. A crash in the middle of Save leaves either the old or
//     the new snapshot in place, never a truncated one.
//
//   - Load: Reads and decodes the snapshot. A missing file is reported as an
//     error wrapping os.ErrNotExist, a file that is not a valid encoding as an
//     error wrapping ErrCorrupt. Empty files decode to an empty State.
//
// Concurrency:
//
//	Codecs are stateless and safe for concurrent use. Save and Load are not
//	synchronized; the caller (the storage engine) serializes them.
package snapshot
