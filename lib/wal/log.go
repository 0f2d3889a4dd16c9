package wal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("wal")

// Options configures a Log
type Options struct {
	// SyncWrites forces an fsync after every append
	SyncWrites bool
}

// DefaultOptions returns the default log options
func DefaultOptions() *Options {
	return &Options{
		SyncWrites: true,
	}
}

// ReplayStats describes the outcome of a replay
type ReplayStats struct {
	Lines   int // non-empty lines read
	Records int // lines parsed into records
	Skipped int // lines that did not match the grammar
}

// Log manages the append-only write-ahead log
type Log struct {
	mu   sync.Mutex
	path string
	opts Options
	file *os.File
}

// Open opens (or creates) the log at path for appending
func Open(path string, opts *Options) (*Log, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create wal directory: %w", err)
		}
	}

	// O_APPEND: always write to the end, never truncate prior content
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open wal: %w", err)
	}

	return &Log{
		path: path,
		opts: *opts,
		file: f,
	}, nil
}

// Path returns the location of the log file
func (l *Log) Path() string {
	return l.path
}

// Append writes the record as a single line to the end of the log.
// The record is durable once Append returns without error (if SyncWrites is set).
func (l *Log) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("append to closed wal")
	}

	// write the whole line with one call so a crash tears at most the last line
	line := r.Format() + "\n"
	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("append wal record: %w", err)
	}

	if l.opts.SyncWrites {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("sync wal: %w", err)
		}
	}
	return nil
}

// Replay reads all records of the log in order
func (l *Log) Replay() ([]Record, ReplayStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ReplayFile(l.path)
}

// Truncate resets the log to zero length
func (l *Log) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("truncate closed wal")
	}
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate wal: %w", err)
	}
	if l.opts.SyncWrites {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("sync wal: %w", err)
		}
	}
	return nil
}

// Size returns the current size of the log in bytes
func (l *Log) Size() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return 0, fmt.Errorf("stat closed wal")
	}
	info, err := l.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close closes the log file. Closing twice is a no-op.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// --------------------------------------------------------------------------
// Replay
// --------------------------------------------------------------------------

// ReplayFile reads all records of the log at path without opening it for writing.
// A missing file is an empty log.
func ReplayFile(path string) ([]Record, ReplayStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ReplayStats{}, nil
		}
		return nil, ReplayStats{}, fmt.Errorf("open wal for replay: %w", err)
	}
	defer f.Close()

	return ReplayReader(f)
}

// ReplayReader parses records from r, skipping lines that do not match the grammar.
// Append terminates every record with a newline, so a final line without one
// was torn by a crash and is skipped even if what is left of it parses.
func ReplayReader(r io.Reader) ([]Record, ReplayStats, error) {
	var (
		records []Record
		stats   ReplayStats
	)

	br := bufio.NewReaderSize(r, 64*1024)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("read wal: %w", err)
		}
		terminated := strings.HasSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\n")

		if strings.TrimSpace(line) != "" {
			stats.Lines++
			if !terminated {
				stats.Skipped++
				plog.Warningf("skipping torn wal line %d (%d bytes)", lineNo, len(line))
			} else if rec, parseErr := ParseRecord(line); parseErr != nil {
				stats.Skipped++
				plog.Warningf("skipping wal line %d: %v", lineNo, parseErr)
			} else {
				records = append(records, rec)
				stats.Records++
			}
		}

		if err != nil { // io.EOF
			break
		}
	}
	return records, stats, nil
}
