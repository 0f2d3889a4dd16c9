package recovery

import (
	"errors"
	"os"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/wal"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("recovery")

// Config names the files a database is recovered from
type Config struct {
	SnapshotPath string
	Codec        snapshot.Codec
	Log          *wal.Log // the open write-ahead log of the database
}

// Result is the outcome of a successful recovery
type Result struct {
	State       snapshot.State // the recovered state
	NewDatabase bool           // no snapshot existed
	Applied     int            // wal records folded into the state
	Skipped     int            // wal lines that could not be parsed
}

// Recover rebuilds the state of a database from its snapshot and write-ahead log.
//
// The snapshot is loaded (a missing file means a new, empty database), every
// record of the log is folded onto it in order and, if at least one record
// was folded, the result is persisted as the new snapshot. Only then is the log
// truncated, so a crash at any point of the recovery loses nothing: the next
// recovery simply folds the same records again.
//
// Errors are *store.Error values: RetCCorruptSnapshot if the snapshot exists
// but can not be decoded, RetCIoFailure for any failing file operation.
func Recover(cfg Config) (Result, error) {
	result := Result{}

	// 1. load snapshot
	state, err := snapshot.Load(cfg.SnapshotPath, cfg.Codec)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		plog.Infof("no snapshot found at %s, starting new database", cfg.SnapshotPath)
		state = make(snapshot.State)
		result.NewDatabase = true
	case errors.Is(err, snapshot.ErrCorrupt):
		return Result{}, store.WrapError(store.RetCCorruptSnapshot, "can not decode snapshot "+cfg.SnapshotPath, err)
	default:
		return Result{}, store.WrapError(store.RetCIoFailure, "can not read snapshot "+cfg.SnapshotPath, err)
	}

	// 2. replay wal
	records, stats, err := cfg.Log.Replay()
	if err != nil {
		return Result{}, store.WrapError(store.RetCIoFailure, "can not replay wal "+cfg.Log.Path(), err)
	}
	if stats.Skipped > 0 {
		plog.Warningf("skipped %d of %d wal lines", stats.Skipped, stats.Lines)
	}

	// 3. fold records onto the state
	state = Fold(state, records)
	result.Applied = len(records)
	result.Skipped = stats.Skipped

	// 4. persist folded state before the wal is discarded
	if result.Applied > 0 {
		if err := snapshot.Save(cfg.SnapshotPath, state, cfg.Codec); err != nil {
			return Result{}, store.WrapError(store.RetCIoFailure, "can not persist recovered state", err)
		}
		plog.Infof("folded %d wal records into snapshot %s", result.Applied, cfg.SnapshotPath)
	}

	// 5. truncate wal
	if stats.Lines > 0 {
		if err := cfg.Log.Truncate(); err != nil {
			return Result{}, store.WrapError(store.RetCIoFailure, "can not truncate wal", err)
		}
	}

	result.State = state
	return result, nil
}

// Fold applies records in order onto state and returns it. state is modified
// in place (a nil state is allocated). Inserts create missing collections,
// deletes and clears of missing collections or ids are no-ops.
func Fold(state snapshot.State, records []wal.Record) snapshot.State {
	if state == nil {
		state = make(snapshot.State)
	}
	for _, rec := range records {
		Apply(state, rec)
	}
	return state
}

// Apply applies a single record onto state
func Apply(state snapshot.State, rec wal.Record) {
	switch rec.Op {
	case wal.OpInsert:
		docs, ok := state[rec.Collection]
		if !ok {
			docs = make(map[string]document.Value)
			state[rec.Collection] = docs
		}
		docs[rec.ID] = rec.Document.Clone()
	case wal.OpDelete:
		if docs, ok := state[rec.Collection]; ok {
			delete(docs, rec.ID)
		}
	case wal.OpClear:
		if _, ok := state[rec.Collection]; ok {
			state[rec.Collection] = make(map[string]document.Value)
		}
	default:
		plog.Warningf("ignoring record with unknown operation %d", rec.Op)
	}
}
