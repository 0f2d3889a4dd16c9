// Package db provides a standardized interface for the in-memory state of a
// document database. It defines the DocDB interface that the stores build on,
// independent of how (or whether) that state is persisted.
//
// The package focuses on:
//   - A unified interface for collection/document operations
//   - Whole-state export and import for snapshotting and recovery
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - DocDB Interface: The core interface that all in-memory implementations
//     must satisfy. It provides methods for writing (Upsert, Delete, Clear),
//     reading (Get, List, HasCollection, Collections), whole-state transfer
//     (Export, Import) and metadata retrieval (GetInfo).
//
//   - Entry: A document paired with its id, the element type of List.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different engines (currently "maple").
//
//   - Database Information: The DatabaseInfo structure provides standardized
//     reporting on database state, including size statistics, implementation type,
//     and implementation-specific metadata. Note: For most implementations the
//     size is estimated since a precise calculation can be expensive.
//
// Note on Collections:
//   - A collection is created implicitly by the first Upsert into it. No other
//     operation creates a collection.
//   - Clear empties a collection but keeps it present. For Get and List an
//     empty collection behaves exactly like a missing one, only HasCollection
//     and Collections can tell them apart.
//   - Any string is a valid collection name or document id, including the
//     empty string.
//
// Note on Copies:
//   - Implementations must never hand out references to their internal state.
//     Get, List and Export return deep copies, Upsert and Import store deep copies.
//
// Related Packages:
//
// The engines/maple package (github.com/ValentinKolb/dDoc/lib/db/engines/maple) provides
// the in-memory implementation of the DocDB interface used by all stores. It keeps
// collections in a concurrent map and the ids of each collection in a B-tree so
// that List returns documents in id order without sorting.
//
// The testing package (github.com/ValentinKolb/dDoc/lib/db/testing) provides
// standardized tests and benchmarks for implementations of the db.DocDB interface.
//   - RunDocDBTests: Runs a standardized test suite to validate implementations
//   - RunDocDBBenchmarks: Provides performance benchmarks for comparing implementations
package db
