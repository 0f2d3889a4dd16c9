package lstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/store"
)

type storeImpl struct {
	db     db.DocDB
	closed atomic.Bool
}

// NewLocalStore creates a new local store instance.
// The store keeps everything in the database created by factory and never touches the disk.
func NewLocalStore(factory store.DBFactory) store.IStore {
	return &storeImpl{
		db: factory(),
	}
}

// errClosed is returned by every write after Close
func errClosed() error {
	return store.NewError(store.RetCInvalidOperation, "store is closed")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(collection, id string, doc document.Value) error {
	if s.closed.Load() {
		return errClosed()
	}
	s.db.Upsert(collection, id, doc)
	return nil
}

func (s *storeImpl) Get(collection, id string) (document.Value, bool) {
	if s.closed.Load() {
		return document.Null(), false
	}
	return s.db.Get(collection, id)
}

func (s *storeImpl) Delete(collection, id string) error {
	if s.closed.Load() {
		return errClosed()
	}
	if !s.db.Delete(collection, id) {
		return store.KeyNotFound(collection, id)
	}
	return nil
}

func (s *storeImpl) List(collection string) []store.Entry {
	if s.closed.Load() {
		return []store.Entry{}
	}
	return s.db.List(collection)
}

func (s *storeImpl) Clear(collection string) error {
	if s.closed.Load() {
		return errClosed()
	}
	s.db.Clear(collection)
	return nil
}

func (s *storeImpl) Collections() []string {
	if s.closed.Load() {
		return []string{}
	}
	return s.db.Collections()
}

func (s *storeImpl) GetDBInfo() db.DatabaseInfo {
	return s.db.GetInfo()
}

func (s *storeImpl) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
