// Package lstore implements a volatile, in-memory document store based on the
// store.IStore interface. It is a thin wrapper around any db.DocDB implementation
// that adds the store error semantics (KeyNotFound on deleting a missing
// document, InvalidOperation after Close). Nothing is persisted between process
// restarts.
//
// Thread Safety:
//
//	All operations are thread-safe. The underlying db.DocDB implementation is
//	expected to provide its own thread safety guarantees.
//
// Usage Example:
//
//	factory := func() db.DocDB { return maple.NewMapleDB(nil) }
//	s := lstore.NewLocalStore(factory)
//	defer s.Close()
//
//	err := s.Insert("users", "u1", doc)
//	doc, ok := s.Get("users", "u1")
//
// The CLI uses this store for the --volatile flag, the tests of other packages
// use it wherever durability is irrelevant.
package lstore
