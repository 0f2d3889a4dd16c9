// Package testing provides a conformance suite for implementations of the
// store.IStore interface.
//
// Example usage:
//
//	storetesting.RunStoreTests(t, "MyStore", func(t *testing.T) store.IStore {
//		return NewMyStore(t.TempDir())
//	})
package testing
