// Package store provides the high-level interface of a dDoc document store with
// unified error handling. It sits on top of the in-memory db.DocDB implementations
// and adds durability (fstore) or nothing at all (lstore).
//
// The package focuses on:
//   - A unified interface (IStore) for collection/document operations across backends
//   - Pluggable in-memory backends through the DBFactory pattern
//   - Typed errors that callers can branch on
//
// Key Components:
//
//   - IStore Interface: Insert, Get, Delete, List and Clear on named collections,
//     plus Collections, GetDBInfo and Close. Write operations return a *Error,
//     reads only touch memory and never fail.
//
//   - Error System: Every error returned by a store is a *Error carrying a RetCode
//     (KeyNotFound, IoFailure, MalformedDocument, CorruptSnapshot, ...), a message
//     and optionally the underlying cause. Errors match by code, so callers write
//
//     if errors.Is(err, store.ErrKeyNotFound) { ... }
//
//     and can still reach the cause (e.g. an *os.PathError) with errors.As.
//
//   - FlatView: A string key-value view of the "default" collection. It is the
//     programmatic counterpart of the flat records the write-ahead log accepts
//     (insert <key> <value>, delete <key>).
//
//   - Checkpointer: Optional interface of stores that can compact their
//     persistent state (fstore).
//
// Implementations:
//
//   - File Store (fstore): The durable implementation. Every mutation is written
//     to a write-ahead log before memory is changed and the full state is then
//     persisted as a snapshot. Opening the store recovers from both files.
//     Available in the "github.com/ValentinKolb/dDoc/lib/store/fstore" package.
//
//   - Local Store (lstore): The same contract without any persistence. Useful for
//     tests and the --volatile flag of the CLI.
//     Available in the "github.com/ValentinKolb/dDoc/lib/store/lstore" package.
//
// The testing package (github.com/ValentinKolb/dDoc/lib/store/testing) contains a
// conformance suite (RunStoreTests) that both implementations pass.
package store
