package fstore

import (
	"sync"
	"time"

	"github.com/ValentinKolb/dDoc/lib/common"
	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/db/engines/maple"
	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/recovery"
	"github.com/ValentinKolb/dDoc/lib/snapshot"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/wal"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("store")

// storeImpl is the durable implementation of store.IStore.
// mu serializes every public call: a mutation consists of three steps (wal,
// memory, snapshot) that must not interleave with other calls.
type storeImpl struct {
	mu       sync.Mutex
	cfg      common.StoreConfig
	db       db.DocDB
	log      *wal.Log
	codec    snapshot.Codec
	pending  int // mutations not yet covered by a snapshot
	closed   bool
	walPath  string
	snapPath string
}

// Open opens the store described by cfg and recovers its state from the
// snapshot and the write-ahead log. After Open returns successfully the log is
// empty and the snapshot contains the full state.
func Open(cfg common.StoreConfig) (store.IStore, error) {
	return OpenWithFactory(cfg, func() db.DocDB {
		return maple.NewMapleDB(nil)
	})
}

// OpenWithFactory is Open with a custom in-memory database
func OpenWithFactory(cfg common.StoreConfig, factory store.DBFactory) (store.IStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, store.WrapError(store.RetCInvalidOperation, "invalid store configuration", err)
	}

	codec, err := snapshot.NewCodec(cfg.SnapshotFormat)
	if err != nil {
		return nil, store.WrapError(store.RetCInvalidOperation, "invalid snapshot format", err)
	}

	walPath := cfg.ResolvedWALPath()
	log, err := wal.Open(walPath, &wal.Options{SyncWrites: cfg.SyncWrites})
	if err != nil {
		return nil, store.WrapError(store.RetCIoFailure, "can not open wal "+walPath, err)
	}

	start := time.Now()
	result, err := recovery.Recover(recovery.Config{
		SnapshotPath: cfg.Path,
		Codec:        codec,
		Log:          log,
	})
	if err != nil {
		log.Close()
		return nil, err
	}
	recoveredRecords.Add(result.Applied)
	skippedWALLines.Add(result.Skipped)

	database := factory()
	database.Import(result.State)

	plog.Infof("opened %s in %v (%d collections, %d wal records applied, %d lines skipped)",
		cfg.Path, time.Since(start).Round(time.Microsecond), len(result.State), result.Applied, result.Skipped)

	return &storeImpl{
		cfg:      cfg,
		db:       database,
		log:      log,
		codec:    codec,
		walPath:  walPath,
		snapPath: cfg.Path,
	}, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// errClosed is returned by every write after Close
func errClosed() error {
	return store.NewError(store.RetCInvalidOperation, "store is closed")
}

// appendRecord writes rec to the wal. It must be called before the memory is
// changed, a failing append aborts the mutation.
//
// Thread-safety: caller must hold s.mu
func (s *storeImpl) appendRecord(rec wal.Record) error {
	if err := s.log.Append(rec); err != nil {
		walAppendErrors.Inc()
		plog.Errorf("wal append failed (%s): %v", rec.Op, err)
		return store.WrapError(store.RetCIoFailure, "can not write wal record", err)
	}
	walAppends.Inc()
	return nil
}

// mutated counts a mutation and persists the snapshot once the configured
// interval is reached. A failing save leaves memory untouched, the record
// is still in the wal and is folded by the next recovery.
//
// Thread-safety: caller must hold s.mu
func (s *storeImpl) mutated() error {
	s.pending++
	if s.pending < s.cfg.SnapshotInterval {
		return nil
	}
	return s.saveSnapshot()
}

// saveSnapshot persists the full state
//
// Thread-safety: caller must hold s.mu
func (s *storeImpl) saveSnapshot() error {
	start := time.Now()
	if err := snapshot.Save(s.snapPath, s.db.Export(), s.codec); err != nil {
		snapshotErrors.Inc()
		plog.Errorf("snapshot save failed, state stays recoverable from the wal: %v", err)
		return store.WrapError(store.RetCIoFailure, "can not write snapshot", err)
	}
	snapshotDuration.UpdateDuration(start)
	snapshotWrites.Inc()
	s.pending = 0
	return nil
}

// checkpoint persists the snapshot and truncates the wal
//
// Thread-safety: caller must hold s.mu
func (s *storeImpl) checkpoint() error {
	if err := s.saveSnapshot(); err != nil {
		return err
	}
	if err := s.log.Truncate(); err != nil {
		return store.WrapError(store.RetCIoFailure, "can not truncate wal", err)
	}
	plog.Debugf("checkpoint written to %s", s.snapPath)
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(collection, id string, doc document.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}
	if err := s.appendRecord(wal.Insert(collection, id, doc)); err != nil {
		return err
	}
	s.db.Upsert(collection, id, doc)
	return s.mutated()
}

func (s *storeImpl) Get(collection, id string) (document.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return document.Null(), false
	}
	return s.db.Get(collection, id)
}

func (s *storeImpl) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}
	// missing documents are rejected before anything is logged
	if _, ok := s.db.Get(collection, id); !ok {
		return store.KeyNotFound(collection, id)
	}
	if err := s.appendRecord(wal.Delete(collection, id)); err != nil {
		return err
	}
	s.db.Delete(collection, id)
	return s.mutated()
}

func (s *storeImpl) List(collection string) []store.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return []store.Entry{}
	}
	return s.db.List(collection)
}

func (s *storeImpl) Clear(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}
	if err := s.appendRecord(wal.Clear(collection)); err != nil {
		return err
	}
	s.db.Clear(collection)
	return s.mutated()
}

func (s *storeImpl) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return []string{}
	}
	return s.db.Collections()
}

func (s *storeImpl) GetDBInfo() db.DatabaseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := s.db.GetInfo()
	meta := map[string]any{
		"snapshot_path":     s.snapPath,
		"wal_path":          s.walPath,
		"snapshot_format":   s.cfg.SnapshotFormat,
		"snapshot_interval": s.cfg.SnapshotInterval,
		"pending_mutations": s.pending,
		"engine":            info.Metadata,
	}
	if !s.closed {
		if size, err := s.log.Size(); err == nil {
			meta["wal_size_bytes"] = size
		}
	}
	info.Metadata = meta
	return info
}

// Checkpoint persists the snapshot and discards the wal
func (s *storeImpl) Checkpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}
	return s.checkpoint()
}

// Close writes a final checkpoint and closes the wal.
// The store is closed even if the checkpoint fails, the wal then still holds
// every record that is missing from the snapshot.
func (s *storeImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var checkpointErr error
	if s.pending > 0 {
		checkpointErr = s.checkpoint()
	} else if err := s.log.Truncate(); err != nil {
		checkpointErr = store.WrapError(store.RetCIoFailure, "can not truncate wal", err)
	}

	closeErr := s.log.Close()
	s.db.Close()

	if checkpointErr != nil {
		return checkpointErr
	}
	if closeErr != nil {
		return store.WrapError(store.RetCIoFailure, "can not close wal", closeErr)
	}
	plog.Debugf("closed %s", s.snapPath)
	return nil
}
