package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("snapshot")

const (
	tmpSuffix = ".tmp"
	walExt    = ".wal"
)

// WALPath derives the write-ahead log path from the snapshot path.
// The log lives next to the snapshot and shares its base name (my_db.json -> my_db.wal).
func WALPath(snapshotPath string) string {
	ext := filepath.Ext(snapshotPath)
	return strings.TrimSuffix(snapshotPath, ext) + walExt
}

// Save atomically replaces the snapshot at path with the encoding of state
func Save(path string, state State, codec Codec) error {
	data, err := codec.Encode(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	// write to a temp file first
	tmpPath := path + tmpSuffix
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}

	// atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename snapshot: %w", err)
	}

	// the rename is only durable once the directory entry is synced
	if err := syncDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("sync snapshot directory: %w", err)
	}

	plog.Debugf("saved snapshot %s (%d collections, %d bytes)", path, len(state), len(data))
	return nil
}

// Load reads and decodes the snapshot at path.
// A missing file yields an error wrapping os.ErrNotExist.
func Load(path string, codec Codec) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	state, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	plog.Debugf("loaded snapshot %s (%d collections)", path, len(state))
	return state, nil
}

// syncDir flushes the directory entries of dir to disk
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}
