package internal

import (
	"sync"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/google/btree"
)

// treeDegree is the B-tree degree used for the id index of a collection
const treeDegree = 16

// --------------------------------------------------------------------------
// Collection Type (documents of one collection with an ordered id index)
// --------------------------------------------------------------------------

// Collection stores the documents of a single collection.
// The documents live in a hash map for lookups, their ids additionally in a
// B-tree so that iteration happens in id order.
type Collection struct {
	mu   sync.RWMutex
	docs map[string]document.Value
	ids  *btree.BTreeG[string]
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		docs: make(map[string]document.Value),
		ids:  btree.NewOrderedG[string](treeDegree),
	}
}

// Put stores doc under id (doc is expected to be owned by the collection)
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Put(id string, doc document.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		c.ids.ReplaceOrInsert(id)
	}
	c.docs[id] = doc
}

// Get returns the stored document (not a copy)
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Get(id string) (document.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	return doc, ok
}

// Remove deletes id and returns whether it existed
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return false
	}
	delete(c.docs, id)
	c.ids.Delete(id)
	return true
}

// Clear removes all documents
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = make(map[string]document.Value)
	c.ids.Clear(false)
}

// Len returns the number of documents
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Ascend calls fn for every document in id order until fn returns false.
// The collection is read-locked during the iteration, fn must not modify it.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *Collection) Ascend(fn func(id string, doc document.Value) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.ids.Ascend(func(id string) bool {
		return fn(id, c.docs[id])
	})
}
