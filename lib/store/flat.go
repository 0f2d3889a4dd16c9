package store

import (
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/wal"
)

// --------------------------------------------------------------------------
// Flat key-value view
// --------------------------------------------------------------------------

// KeyValue is a single pair returned by FlatView.List
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FlatView exposes the default collection of a store as a plain string key-value map.
// Values written through the view are stored as string documents. This is the
// same mapping the write-ahead log applies to flat records.
type FlatView struct {
	s IStore
}

// NewFlatView creates a flat key-value view on top of s
func NewFlatView(s IStore) *FlatView {
	return &FlatView{s: s}
}

// Set stores value under key
func (v *FlatView) Set(key, value string) error {
	return v.s.Insert(wal.DefaultCollection, key, document.String(value))
}

// Get returns the value stored under key.
// Documents that are not strings (written through the collection interface) are
// returned in their JSON encoding.
func (v *FlatView) Get(key string) (string, bool) {
	doc, ok := v.s.Get(wal.DefaultCollection, key)
	if !ok {
		return "", false
	}
	return flatValue(doc), true
}

// Delete removes key, a missing key is reported as RetCKeyNotFound
func (v *FlatView) Delete(key string) error {
	return v.s.Delete(wal.DefaultCollection, key)
}

// List returns all pairs ordered by key
func (v *FlatView) List() []KeyValue {
	entries := v.s.List(wal.DefaultCollection)
	pairs := make([]KeyValue, len(entries))
	for i, e := range entries {
		pairs[i] = KeyValue{Key: e.ID, Value: flatValue(e.Document)}
	}
	return pairs
}

// Clear removes all pairs
func (v *FlatView) Clear() error {
	return v.s.Clear(wal.DefaultCollection)
}

func flatValue(doc document.Value) string {
	if s, ok := doc.AsString(); ok {
		return s
	}
	return doc.String()
}
