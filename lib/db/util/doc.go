// Package util provides utility components for
// database implementations that satisfy the db.DocDB interface.
//
// The package contains:
//   - statistics: CollectionStats summarizing documents per collection and a
//     SizeHistogram estimating the size distribution of sampled documents
//
// The maple engine uses these to build the estimates returned by GetInfo.
package util
