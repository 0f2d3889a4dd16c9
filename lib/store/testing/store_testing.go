package testing

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/store"
)

// StoreFactory creates a new, empty store. Stores that need files should place
// them in t.TempDir().
type StoreFactory func(t *testing.T) store.IStore

// RunStoreTests runs the conformance suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("InsertGetDelete", func(t *testing.T) {
			testInsertGetDelete(t, factory(t))
		})

		t.Run("DeleteMissing", func(t *testing.T) {
			testDeleteMissing(t, factory(t))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory(t))
		})

		t.Run("ListAndCollections", func(t *testing.T) {
			testListAndCollections(t, factory(t))
		})

		t.Run("FlatView", func(t *testing.T) {
			testFlatView(t, factory(t))
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory(t))
		})

		t.Run("Closed", func(t *testing.T) {
			testClosed(t, factory(t))
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustParse(t *testing.T, s string) document.Value {
	t.Helper()
	v, err := document.ParseString(s)
	if err != nil {
		t.Fatalf("failed to parse document %q: %v", s, err)
	}
	return v
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertGetDelete(t *testing.T, s store.IStore) {
	defer s.Close()

	mustNoErr(t, s.Insert("users", "u1", mustParse(t, `{"name":"Alice","age":30}`)))
	mustNoErr(t, s.Insert("users", "u1", mustParse(t, `{"name":"Alice","age":31}`)))

	got, ok := s.Get("users", "u1")
	if !ok {
		t.Fatalf("expected users/u1 to exist")
	}
	if !got.Equal(mustParse(t, `{"name":"Alice","age":31}`)) {
		t.Errorf("expected the overwritten document, got %s", got)
	}

	entries := s.List("users")
	if len(entries) != 1 || entries[0].ID != "u1" {
		t.Errorf("expected exactly one entry u1, got %v", entries)
	}

	mustNoErr(t, s.Delete("users", "u1"))
	if _, ok := s.Get("users", "u1"); ok {
		t.Errorf("expected users/u1 to be gone after Delete")
	}

	err := s.Delete("users", "u1")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("expected KeyNotFound on second Delete, got %v", err)
	}
}

func testDeleteMissing(t *testing.T, s store.IStore) {
	defer s.Close()

	err := s.Delete("nothing", "x")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("expected KeyNotFound for a missing collection, got %v", err)
	}
	if store.CodeOf(err) != store.RetCKeyNotFound {
		t.Errorf("expected code KeyNotFound, got %s", store.CodeOf(err))
	}

	mustNoErr(t, s.Insert("c", "a", document.Null()))
	if err := s.Delete("c", "b"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("expected KeyNotFound for a missing id, got %v", err)
	}
	if len(s.Collections()) != 1 {
		t.Errorf("Delete must not create collections, got %v", s.Collections())
	}
}

func testClear(t *testing.T, s store.IStore) {
	defer s.Close()

	mustNoErr(t, s.Insert("logs", "l1", document.String("a")))
	mustNoErr(t, s.Insert("logs", "l2", document.String("b")))
	mustNoErr(t, s.Insert("users", "u1", document.String("c")))

	mustNoErr(t, s.Clear("logs"))
	if entries := s.List("logs"); len(entries) != 0 {
		t.Errorf("expected no entries after Clear, got %v", entries)
	}
	if _, ok := s.Get("users", "u1"); !ok {
		t.Errorf("Clear must not touch other collections")
	}

	// clearing a missing collection succeeds and does not create it
	mustNoErr(t, s.Clear("absent"))
	names := s.Collections()
	if len(names) != 2 || names[0] != "logs" || names[1] != "users" {
		t.Errorf("expected collections [logs users], got %v", names)
	}
}

func testListAndCollections(t *testing.T, s store.IStore) {
	defer s.Close()

	if entries := s.List("missing"); len(entries) != 0 {
		t.Errorf("expected an empty list for a missing collection, got %v", entries)
	}

	for _, id := range []string{"b", "c", "a"} {
		mustNoErr(t, s.Insert("letters", id, document.String(id)))
	}
	mustNoErr(t, s.Insert("", "", document.Bool(true)))

	entries := s.List("letters")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, id := range []string{"a", "b", "c"} {
		if entries[i].ID != id || !entries[i].Document.Equal(document.String(id)) {
			t.Errorf("entry %d: expected %s, got %s=%s", i, id, entries[i].ID, entries[i].Document)
		}
	}

	if got, ok := s.Get("", ""); !ok || !got.Equal(document.Bool(true)) {
		t.Errorf("expected document under empty collection and id")
	}

	names := s.Collections()
	if len(names) != 2 || names[0] != "" || names[1] != "letters" {
		t.Errorf("expected collections [\"\" letters], got %q", names)
	}
}

func testFlatView(t *testing.T, s store.IStore) {
	defer s.Close()

	kv := store.NewFlatView(s)
	mustNoErr(t, kv.Set("k1", "v1"))
	mustNoErr(t, kv.Set("k2", "v2"))
	mustNoErr(t, kv.Set("k1", "v3"))

	if v, ok := kv.Get("k1"); !ok || v != "v3" {
		t.Errorf("expected k1=v3, got %q (found %t)", v, ok)
	}

	// the view is the default collection
	if doc, ok := s.Get("default", "k2"); !ok || !doc.Equal(document.String("v2")) {
		t.Errorf("expected k2 to be stored as string document in the default collection")
	}

	pairs := kv.List()
	if len(pairs) != 2 || pairs[0] != (store.KeyValue{Key: "k1", Value: "v3"}) {
		t.Errorf("unexpected pairs %v", pairs)
	}

	mustNoErr(t, kv.Delete("k1"))
	if err := kv.Delete("k1"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("expected KeyNotFound, got %v", err)
	}

	mustNoErr(t, kv.Clear())
	if len(kv.List()) != 0 {
		t.Errorf("expected no pairs after Clear")
	}
}

func testInfo(t *testing.T, s store.IStore) {
	defer s.Close()

	for i := 0; i < 10; i++ {
		mustNoErr(t, s.Insert("c", fmt.Sprintf("id-%d", i), document.Number(float64(i))))
	}

	info := s.GetDBInfo()
	if info.CollectionCount != 1 || info.DocumentCount != 10 {
		t.Errorf("expected 1 collection with 10 documents, got %+v", info)
	}
}

func testClosed(t *testing.T, s store.IStore) {
	mustNoErr(t, s.Insert("c", "id", document.Null()))
	mustNoErr(t, s.Close())

	// closing twice is fine
	mustNoErr(t, s.Close())

	if err := s.Insert("c", "id2", document.Null()); !errors.Is(err, store.ErrInvalidOperation) {
		t.Errorf("expected InvalidOperation for Insert after Close, got %v", err)
	}
	if err := s.Clear("c"); !errors.Is(err, store.ErrInvalidOperation) {
		t.Errorf("expected InvalidOperation for Clear after Close, got %v", err)
	}
	if _, ok := s.Get("c", "id"); ok {
		t.Errorf("expected Get after Close to find nothing")
	}
}

func testConcurrent(t *testing.T, s store.IStore) {
	defer s.Close()

	numWorkers := 4
	perWorker := 25

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("%d-%02d", worker, i)
				if err := s.Insert("c", id, document.Number(float64(i))); err != nil {
					t.Errorf("insert %s: %v", id, err)
				}
				s.Get("c", id)
			}
		}(w)
	}
	wg.Wait()

	if entries := s.List("c"); len(entries) != numWorkers*perWorker {
		t.Errorf("expected %d entries, got %d", numWorkers*perWorker, len(entries))
	}
}
