package testing

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ValentinKolb/dDoc/lib/document"
)

// RunDocDBBenchmarks runs all benchmarks for a document database implementation
func RunDocDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {

		b.Run("Upsert", func(b *testing.B) {
			benchmarkUpsert(b, factory)
		})

		b.Run("UpsertExisting", func(b *testing.B) {
			benchmarkUpsertExisting(b, factory)
		})

		b.Run("UpsertLargeDocument", func(b *testing.B) {
			benchmarkUpsertLarge(b, factory)
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory)
		})

		b.Run("List", func(b *testing.B) {
			benchmarkList(b, factory)
		})

		b.Run("ExportImport", func(b *testing.B) {
			benchmarkExportImport(b, factory)
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark helpers
// --------------------------------------------------------------------------

// sampleDocument returns a small object document
func sampleDocument(i int) document.Value {
	return document.Object(map[string]document.Value{
		"name":   document.String(fmt.Sprintf("user-%d", i)),
		"age":    document.Number(float64(i % 100)),
		"active": document.Bool(i%2 == 0),
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Upsert of new documents
func benchmarkUpsert(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	doc := sampleDocument(1)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Upsert("bench", fmt.Sprintf("id-%p-%d", pb, counter), doc)
			counter++
		}
	})
}

// Benchmark for Upsert overwriting a fixed set of documents
func benchmarkUpsertExisting(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	numDocs := 1000
	for i := 0; i < numDocs; i++ {
		database.Upsert("bench", fmt.Sprintf("id-%d", i), sampleDocument(i))
	}
	doc := sampleDocument(42)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Upsert("bench", fmt.Sprintf("id-%d", counter%numDocs), doc)
			counter++
		}
	})
}

// Benchmark for Upsert of a document with many fields
func benchmarkUpsertLarge(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	fields := make(map[string]document.Value, 1000)
	for i := 0; i < 1000; i++ {
		fields[fmt.Sprintf("field-%d", i)] = sampleDocument(i)
	}
	doc := document.Object(fields)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Upsert("bench", fmt.Sprintf("id-%d", i%100), doc)
	}
}

// Benchmark for Get of existing documents
func benchmarkGet(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	numDocs := 10_000
	for i := 0; i < numDocs; i++ {
		database.Upsert("bench", fmt.Sprintf("id-%d", i), sampleDocument(i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Get("bench", fmt.Sprintf("id-%d", counter%numDocs))
			counter++
		}
	})
}

// Benchmark for listing a collection of medium size
func benchmarkList(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	for i := 0; i < 1000; i++ {
		database.Upsert("bench", fmt.Sprintf("id-%d", i), sampleDocument(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.List("bench")
	}
}

// Benchmark for transferring the whole state between two databases
func benchmarkExportImport(b *testing.B, factory DBFactory) {
	source := factory()
	target := factory()
	b.Cleanup(func() {
		source.Close()
		target.Close()
	})

	for c := 0; c < 10; c++ {
		for i := 0; i < 1000; i++ {
			source.Upsert(fmt.Sprintf("c-%d", c), fmt.Sprintf("id-%d", i), sampleDocument(i))
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		target.Import(source.Export())
	}
}

// Benchmark for a read heavy mix of operations
func benchmarkMixedUsage(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	numDocs := 10_000
	for i := 0; i < numDocs; i++ {
		database.Upsert("bench", fmt.Sprintf("id-%d", i), sampleDocument(i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			id := fmt.Sprintf("id-%d", counter%numDocs)

			// Random operation: 70% Get, 25% Upsert, 5% Delete
			switch r := rnd.Float32(); {
			case r < .7:
				database.Get("bench", id)
			case r < .95:
				database.Upsert("bench", id, sampleDocument(counter))
			default:
				database.Delete("bench", id)
			}
			counter++
		}
	})
}
