package common

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/dDoc/lib/snapshot"
)

// --------------------------------------------------------------------------
// Store configuration struct
// --------------------------------------------------------------------------

const (
	DefaultPath             = "ddoc.json"
	DefaultSnapshotInterval = 1
	DefaultLogLevel         = "info"
)

// StoreConfig holds all configuration parameters of a file-backed store.
type StoreConfig struct {
	// Path of the snapshot file
	Path string
	// WALPath of the write-ahead log (empty = derived from Path)
	WALPath string

	// Snapshot settings
	SnapshotFormat   snapshot.Format
	SnapshotInterval int // persist the snapshot every n mutations

	// SyncWrites fsyncs every WAL append
	SyncWrites bool

	// Logging configuration
	LogLevel string
}

// DefaultStoreConfig returns the default configuration for the given snapshot path
func DefaultStoreConfig(path string) StoreConfig {
	if path == "" {
		path = DefaultPath
	}
	return StoreConfig{
		Path:             path,
		SnapshotFormat:   snapshot.FormatJSONPretty,
		SnapshotInterval: DefaultSnapshotInterval,
		SyncWrites:       true,
		LogLevel:         DefaultLogLevel,
	}
}

// ResolvedWALPath returns the WAL path, deriving it from the snapshot path if unset
func (c *StoreConfig) ResolvedWALPath() string {
	if c.WALPath != "" {
		return c.WALPath
	}
	return snapshot.WALPath(c.Path)
}

// Validate checks the configuration for invalid values
func (c *StoreConfig) Validate() error {
	var errs []error

	if c.Path == "" {
		errs = append(errs, errors.New("snapshot path must not be empty"))
	}
	if filepath.Clean(c.Path) == filepath.Clean(c.ResolvedWALPath()) {
		errs = append(errs, fmt.Errorf("snapshot and wal must not share the same path (%s)", c.Path))
	}
	if _, err := snapshot.NewCodec(c.SnapshotFormat); err != nil {
		errs = append(errs, err)
	}
	if c.SnapshotInterval < 1 {
		errs = append(errs, fmt.Errorf("snapshot interval must be at least 1, got %d", c.SnapshotInterval))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// String returns a formatted string representation of the configuration
func (c *StoreConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Snapshot", c.Path)
	addField("Write-Ahead Log", c.ResolvedWALPath())
	addField("Sync Writes", fmt.Sprintf("%t", c.SyncWrites))

	addSection("Snapshot")
	addField("Format", string(c.SnapshotFormat))
	addField("Interval", fmt.Sprintf("every %d mutation(s)", c.SnapshotInterval))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
