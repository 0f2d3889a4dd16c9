package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
)

// DBFactory is a function that creates a new instance of a DocDB implementation
type DBFactory func() db.DocDB

// RunDocDBTests runs a comprehensive test suite for a DocDB implementation.
func RunDocDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Upsert&Get", func(t *testing.T) {
			testUpsertGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("ListOrder", func(t *testing.T) {
			testListOrder(t, factory())
		})

		t.Run("Collections", func(t *testing.T) {
			testCollections(t, factory())
		})

		t.Run("Isolation", func(t *testing.T) {
			testIsolation(t, factory())
		})

		t.Run("ExportImport", func(t *testing.T) {
			testExportImport(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mustParse parses a document or fails the test
func mustParse(t testing.TB, s string) document.Value {
	t.Helper()
	v, err := document.ParseString(s)
	if err != nil {
		t.Fatalf("failed to parse document %q: %v", s, err)
	}
	return v
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testUpsertGet(t *testing.T, database db.DocDB) {
	defer database.Close()

	alice := mustParse(t, `{"name":"Alice","age":30}`)
	older := mustParse(t, `{"name":"Alice","age":31}`)

	database.Upsert("users", "u1", alice)

	result, exists := database.Get("users", "u1")
	if !exists {
		t.Fatalf("Expected document u1 to exist after Upsert")
	}
	if !result.Equal(alice) {
		t.Errorf("Expected document %s, got %s", alice, result)
	}

	database.Upsert("users", "u1", older)

	result, exists = database.Get("users", "u1")
	if !exists {
		t.Fatalf("Expected document u1 to exist after second Upsert")
	}
	if !result.Equal(older) {
		t.Errorf("Expected document %s, got %s", older, result)
	}

	if _, exists := database.Get("users", "nonexistent"); exists {
		t.Errorf("Expected nonexistent id to return exists=false")
	}
	if _, exists := database.Get("nonexistent", "u1"); exists {
		t.Errorf("Expected nonexistent collection to return exists=false")
	}
}

func testDelete(t *testing.T, database db.DocDB) {
	defer database.Close()

	database.Upsert("users", "u1", document.String("a"))
	database.Upsert("users", "u2", document.String("b"))

	if !database.Delete("users", "u1") {
		t.Errorf("Expected Delete of existing document to return true")
	}
	if _, exists := database.Get("users", "u1"); exists {
		t.Errorf("Expected document u1 to be gone after Delete")
	}
	if _, exists := database.Get("users", "u2"); !exists {
		t.Errorf("Expected document u2 to be unaffected by Delete")
	}

	if database.Delete("users", "u1") {
		t.Errorf("Expected second Delete to return false")
	}
	if database.Delete("missing", "u1") {
		t.Errorf("Expected Delete in missing collection to return false")
	}
	if database.HasCollection("missing") {
		t.Errorf("Delete must not create a collection")
	}

	// the collection stays even when its last document is deleted
	database.Delete("users", "u2")
	if !database.HasCollection("users") {
		t.Errorf("Expected collection to remain after deleting all documents")
	}
}

func testClear(t *testing.T, database db.DocDB) {
	defer database.Close()

	for i := 0; i < 10; i++ {
		database.Upsert("logs", fmt.Sprintf("l%d", i), document.Number(float64(i)))
	}
	database.Upsert("users", "u1", document.String("Alice"))

	database.Clear("logs")

	if entries := database.List("logs"); len(entries) != 0 {
		t.Errorf("Expected empty collection after Clear, got %d entries", len(entries))
	}
	if !database.HasCollection("logs") {
		t.Errorf("Expected cleared collection to remain present")
	}
	if _, exists := database.Get("users", "u1"); !exists {
		t.Errorf("Clear must not affect other collections")
	}

	database.Clear("never-created")
	if database.HasCollection("never-created") {
		t.Errorf("Clear must not create a collection")
	}

	// a cleared collection can be written again
	database.Upsert("logs", "l1", document.Bool(true))
	if entries := database.List("logs"); len(entries) != 1 {
		t.Errorf("Expected 1 entry after writing into cleared collection, got %d", len(entries))
	}
}

func testListOrder(t *testing.T, database db.DocDB) {
	defer database.Close()

	ids := []string{"delta", "alpha", "charlie", "bravo", "", "Zulu", "alpha2"}
	for i, id := range ids {
		database.Upsert("c", id, document.Number(float64(i)))
	}

	entries := database.List("c")
	expected := []string{"", "Zulu", "alpha", "alpha2", "bravo", "charlie", "delta"}
	if len(entries) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(entries))
	}
	for i, entry := range entries {
		if entry.ID != expected[i] {
			t.Errorf("Entry %d: expected id %q, got %q", i, expected[i], entry.ID)
		}
	}

	if entries := database.List("missing"); entries == nil || len(entries) != 0 {
		t.Errorf("Expected empty non-nil slice for missing collection, got %v", entries)
	}
}

func testCollections(t *testing.T, database db.DocDB) {
	defer database.Close()

	if names := database.Collections(); len(names) != 0 {
		t.Errorf("Expected no collections in a new database, got %v", names)
	}

	database.Upsert("users", "u1", document.Null())
	database.Upsert("logs", "l1", document.Null())
	database.Upsert("users", "u2", document.Null())

	names := database.Collections()
	if len(names) != 2 || names[0] != "logs" || names[1] != "users" {
		t.Errorf("Expected collections [logs users], got %v", names)
	}
}

func testIsolation(t *testing.T, database db.DocDB) {
	defer database.Close()

	original := mustParse(t, `{"tags":["a","b"],"meta":{"n":1}}`)
	input := original.Clone()
	database.Upsert("c", "id", input)

	got, _ := database.Get("c", "id")
	if !got.Equal(original) {
		t.Fatalf("Expected %s, got %s", original, got)
	}
	// writes into other collections leave the document untouched
	database.Upsert("other", "id", document.Object(map[string]document.Value{"changed": document.Bool(true)}))

	again, _ := database.Get("c", "id")
	if !again.Equal(original) {
		t.Errorf("Stored document changed unexpectedly: %s", again)
	}

	// exported state is a copy
	state := database.Export()
	state["c"]["id"] = document.String("replaced")
	delete(state, "other")

	again, _ = database.Get("c", "id")
	if !again.Equal(original) {
		t.Errorf("Modifying an export changed the database: %s", again)
	}
	if !database.HasCollection("other") {
		t.Errorf("Modifying an export removed a collection from the database")
	}
}

func testExportImport(t *testing.T, factory DBFactory) {
	source := factory()
	defer source.Close()

	source.Upsert("users", "u1", mustParse(t, `{"name":"Alice"}`))
	source.Upsert("users", "u2", mustParse(t, `{"name":"Bob"}`))
	source.Upsert("empty", "x", document.Null())
	source.Clear("empty")

	state := source.Export()
	expected := snapshot.State{
		"users": {
			"u1": mustParse(t, `{"name":"Alice"}`),
			"u2": mustParse(t, `{"name":"Bob"}`),
		},
		"empty": {},
	}
	if !state.Equal(expected) {
		t.Fatalf("Unexpected export: %v", state)
	}

	target := factory()
	defer target.Close()

	target.Upsert("stale", "s1", document.Bool(true))
	target.Import(state)

	if target.HasCollection("stale") {
		t.Errorf("Import must replace the previous state")
	}
	if !target.HasCollection("empty") {
		t.Errorf("Import must keep empty collections")
	}
	if !target.Export().Equal(expected) {
		t.Errorf("Imported state differs from exported state")
	}

	// the imported state is a copy
	state["users"]["u1"] = document.String("replaced")
	got, _ := target.Get("users", "u1")
	if !got.Equal(mustParse(t, `{"name":"Alice"}`)) {
		t.Errorf("Modifying the imported state changed the database: %s", got)
	}
}

func testEdgeCases(t *testing.T, database db.DocDB) {
	defer database.Close()

	// empty names
	database.Upsert("", "", document.String("empty"))
	if got, ok := database.Get("", ""); !ok || !got.Equal(document.String("empty")) {
		t.Errorf("Expected document stored under empty collection and id")
	}

	// names with whitespace, quotes and unicode
	odd := []string{"with space", "tab\tin", `"quoted"`, "日本", "new\nline"}
	for _, name := range odd {
		database.Upsert(name, name, document.String(name))
	}
	for _, name := range odd {
		got, ok := database.Get(name, name)
		if !ok || !got.Equal(document.String(name)) {
			t.Errorf("Expected document for name %q", name)
		}
	}

	// every document kind
	kinds := []document.Value{
		document.Null(),
		document.Bool(false),
		document.Number(-0.5),
		document.String(""),
		document.Array(),
		document.Object(nil),
	}
	for i, v := range kinds {
		id := fmt.Sprintf("k%d", i)
		database.Upsert("kinds", id, v)
		got, ok := database.Get("kinds", id)
		if !ok || !got.Equal(v) {
			t.Errorf("Expected %s for id %s, got %s", v, id, got)
		}
	}

	// large document
	large := make([]document.Value, 10_000)
	for i := range large {
		large[i] = document.Number(float64(i))
	}
	database.Upsert("large", "l", document.Array(large...))
	if got, ok := database.Get("large", "l"); !ok || got.Len() != len(large) {
		t.Errorf("Expected large document with %d elements", len(large))
	}
}

func testInfo(t *testing.T, database db.DocDB) {
	defer database.Close()

	info := database.GetInfo()
	if info.CollectionCount != 0 || info.DocumentCount != 0 {
		t.Errorf("Expected empty info for a new database, got %+v", info)
	}

	for i := 0; i < 50; i++ {
		database.Upsert("a", fmt.Sprintf("id-%d", i), mustParse(t, `{"payload":"some text"}`))
	}
	database.Upsert("b", "id", document.Null())

	info = database.GetInfo()
	if info.CollectionCount != 2 {
		t.Errorf("Expected 2 collections, got %d", info.CollectionCount)
	}
	if info.DocumentCount != 51 {
		t.Errorf("Expected 51 documents, got %d", info.DocumentCount)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("Expected a positive size estimate, got %d", info.SizeBytes)
	}
	if info.DbType == "" {
		t.Errorf("Expected the implementation type to be set")
	}
}

func testConcurrentUsage(t *testing.T, database db.DocDB) {
	defer database.Close()

	numWorkers := 8
	opsPerWorker := 1_000

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()

			collection := fmt.Sprintf("worker-%d", workerID%4)
			for i := 0; i < opsPerWorker; i++ {
				id := fmt.Sprintf("%d-%d", workerID, i%100)
				switch i % 10 {
				case 0, 1, 2, 3, 4, 5:
					database.Upsert(collection, id, document.Number(float64(i)))
				case 6, 7:
					database.Get(collection, id)
				case 8:
					database.List(collection)
				case 9:
					database.Delete(collection, id)
				}
			}
		}(w)
	}

	wg.Wait()

	// every listed document must be retrievable with the same content
	for _, name := range database.Collections() {
		for _, entry := range database.List(name) {
			got, ok := database.Get(name, entry.ID)
			if !ok {
				t.Errorf("Listed document %s/%s can not be retrieved", name, entry.ID)
				continue
			}
			if !got.Equal(entry.Document) {
				t.Errorf("Document %s/%s differs between List and Get", name, entry.ID)
			}
		}
	}
}
