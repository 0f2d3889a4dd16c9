// Package maple provides the in-memory implementation of the db.DocDB interface.
//
// Architecture Overview:
//
// MapleDB keeps one entry per collection in a concurrent map (xsync.MapOf). Each
// collection owns a plain Go map from document id to document and a B-tree
// (github.com/google/btree) holding the same ids in sorted order:
//
//   - Lookups (Get) go through the hash map.
//   - Ordered iteration (List, Export) walks the B-tree, so no sorting is
//     needed when listing a collection.
//   - Every collection has its own read/write lock. Operations on different
//     collections never contend with each other.
//
// Ownership:
//
// Documents are deep-copied when they enter the database (Upsert, Import) and
// when they leave it (Get, List, Export). Callers can modify any value they pass
// in or receive without affecting the stored state.
//
// Collections:
//
// A collection is created by the first Upsert into it and is never removed by
// Delete or Clear. Clear only drops the documents. Import replaces all
// collections at once and is not atomic with respect to concurrent readers.
//
// Statistics:
//
// GetInfo counts collections and documents exactly. The size in bytes is
// estimated: a bounded number of documents per collection is sampled into a
// util.SizeHistogram and the average is extrapolated to all documents. The
// distribution of documents across collections is reported in the metadata.
//
// Usage Example:
//
//	database := maple.NewMapleDB(nil)
//	defer database.Close()
//
//	database.Upsert("users", "u1", document.String("Alice"))
//	doc, ok := database.Get("users", "u1")
package maple
