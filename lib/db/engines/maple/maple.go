package maple

import (
	"sort"
	"sync/atomic"

	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/dDoc/lib/db/util"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultSampleSize = 100 // documents sampled per collection by GetInfo
	entryOverhead     = 48  // estimated bytes per document besides its encoding (map slot, tree item, id header)
)

// --------------------------------------------------------------------------
// Core Maple database structure
// --------------------------------------------------------------------------

// mapleImpl keeps every collection in a concurrent map
type mapleImpl struct {
	collections *xsync.MapOf[string, *internal.Collection]
	sampleSize  int
	closed      atomic.Bool
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	SampleSize int // Documents per collection sampled for the size estimate (0 = use default: 100)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		SampleSize: defaultSampleSize,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new MapleDB instance with the specified options (optional)
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewMapleDB(opts *DBOptions) db.DocDB {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}

	return &mapleImpl{
		collections: xsync.NewMapOf[string, *internal.Collection](),
		sampleSize:  opts.SampleSize,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docs see db.DocDB interface)
// --------------------------------------------------------------------------

func (maple *mapleImpl) Upsert(collection, id string, doc document.Value) {
	coll, _ := maple.collections.LoadOrCompute(collection, internal.NewCollection)
	coll.Put(id, doc.Clone())
}

func (maple *mapleImpl) Delete(collection, id string) bool {
	coll, ok := maple.collections.Load(collection)
	if !ok {
		return false
	}
	return coll.Remove(id)
}

func (maple *mapleImpl) Clear(collection string) {
	if coll, ok := maple.collections.Load(collection); ok {
		coll.Clear()
	}
}

func (maple *mapleImpl) Get(collection, id string) (document.Value, bool) {
	coll, ok := maple.collections.Load(collection)
	if !ok {
		return document.Null(), false
	}
	doc, ok := coll.Get(id)
	if !ok {
		return document.Null(), false
	}
	return doc.Clone(), true
}

func (maple *mapleImpl) List(collection string) []db.Entry {
	coll, ok := maple.collections.Load(collection)
	if !ok {
		return []db.Entry{}
	}

	entries := make([]db.Entry, 0, coll.Len())
	coll.Ascend(func(id string, doc document.Value) bool {
		entries = append(entries, db.Entry{ID: id, Document: doc.Clone()})
		return true
	})
	return entries
}

func (maple *mapleImpl) HasCollection(collection string) bool {
	_, ok := maple.collections.Load(collection)
	return ok
}

func (maple *mapleImpl) Collections() []string {
	names := make([]string, 0, maple.collections.Size())
	maple.collections.Range(func(name string, _ *internal.Collection) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Export copies every collection. Writers running concurrently may or may not
// be part of the result, the stores serialize writes and exports.
func (maple *mapleImpl) Export() snapshot.State {
	state := make(snapshot.State, maple.collections.Size())
	maple.collections.Range(func(name string, coll *internal.Collection) bool {
		docs := make(map[string]document.Value, coll.Len())
		coll.Ascend(func(id string, doc document.Value) bool {
			docs[id] = doc.Clone()
			return true
		})
		state[name] = docs
		return true
	})
	return state
}

func (maple *mapleImpl) Import(state snapshot.State) {
	maple.collections.Clear()
	for name, docs := range state {
		coll := internal.NewCollection()
		for id, doc := range docs {
			coll.Put(id, doc.Clone())
		}
		maple.collections.Store(name, coll)
	}
}

// GetInfo returns statistics about the database. The size is estimated from a
// sample of documents of each collection.
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	histogram := util.NewSizeHistogram()
	collectionSizes := make([]float64, 0, maple.collections.Size())
	collectionCount := 0
	documentCount := 0
	idBytes := 0

	maple.collections.Range(func(name string, coll *internal.Collection) bool {
		size := coll.Len()
		collectionCount++
		documentCount += size
		collectionSizes = append(collectionSizes, float64(size))

		// only sample a few documents per collection
		sampled := 0
		coll.Ascend(func(id string, doc document.Value) bool {
			histogram.AddSample(doc.Size())
			idBytes += len(id)
			sampled++
			return sampled < maple.sampleSize
		})
		return true
	})

	// extrapolate the sampled sizes to all documents
	sizeBytes := 0
	if samples := int(histogram.GetCount()); samples > 0 {
		avgIDSize := idBytes / samples
		sizeBytes = documentCount * (histogram.AverageSize() + avgIDSize + entryOverhead)
	}

	return db.DatabaseInfo{
		SizeBytes:       sizeBytes,
		DbType:          db.ImplMaple,
		CollectionCount: collectionCount,
		DocumentCount:   documentCount,
		Metadata: map[string]any{
			"sampled_documents":       histogram.GetCount(),
			"median_document_size":    histogram.MedianEstimate(),
			"p90_document_size":       histogram.GetPercentileEstimate(90),
			"collection_stats":        util.NewCollectionStats(collectionSizes),
			"entry_overhead_estimate": entryOverhead,
		},
	}
}

func (maple *mapleImpl) Close() error {
	if maple.closed.Swap(true) {
		return nil
	}
	maple.collections.Clear()
	return nil
}
