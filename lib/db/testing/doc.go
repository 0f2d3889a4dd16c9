// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.DocDB interface.
//
// The package contains:
//   - testing: A conformance suite for the DocDB contract (collection semantics,
//     id ordering, copy isolation, export/import and concurrent use)
//   - benchmark: Performance tests for measuring throughput of common database operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() db.DocDB {
//		return NewMyDatabase()
//	}
//
//	// Running the standard test suite
//	dbtesting.RunDocDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunDocDBBenchmarks(b, "MyDatabase", factory)
package testing
