package db

import (
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplMaple Implementation = "maple"
)

// Entry is a document together with its id
type Entry struct {
	ID       string         `json:"id"`
	Document document.Value `json:"document"`
}

type DatabaseInfo struct {
	SizeBytes       int            `json:"size_bytes"`
	DbType          Implementation `json:"db_type"`
	CollectionCount int            `json:"collection_count"`
	DocumentCount   int            `json:"document_count"`
	Metadata        interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// DocDB defines an interface for the in-memory state of a document database.
// It holds named collections, each mapping document ids to documents.
// Implementations are purely in-memory; durability is added by the stores on top.
// All documents passed in or handed out are copied, callers never alias the internal state.
type DocDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Upsert inserts or overwrites the document with the given id.
	// The collection is created if it does not exist yet.
	Upsert(collection, id string, doc document.Value)

	// Delete removes the document with the given id.
	// It returns whether the document existed. Deleting a missing document is a no-op.
	Delete(collection, id string) (deleted bool)

	// Clear removes all documents of a collection. An existing collection stays
	// present (and empty), a missing collection is not created.
	Clear(collection string)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the document for an exact (collection, id) pair.
	// The boolean return value indicates whether a document was found.
	Get(collection, id string) (doc document.Value, loaded bool)

	// List returns all documents of a collection ordered by id.
	// A missing collection yields an empty slice.
	List(collection string) (entries []Entry)

	// HasCollection reports whether the collection is present (it may be empty).
	HasCollection(collection string) (ok bool)

	// Collections returns the names of all present collections in sorted order.
	Collections() (names []string)

	// --------------------------------------------------------------------------
	// Persistence Operations
	// --------------------------------------------------------------------------

	// Export returns a deep copy of the full state.
	Export() (state snapshot.State)

	// Import replaces the full state with a deep copy of the given state.
	Import(state snapshot.State)

	// --------------------------------------------------------------------------
	// Metadata
	// --------------------------------------------------------------------------

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close releases all resources of the database.
	Close() (err error)
}
