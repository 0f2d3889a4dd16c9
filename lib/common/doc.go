// Package common contains the configuration and logging setup shared by the
// stores and the command line interface.
//
// Logging:
//
// All packages log through dragonboats logger package
// (github.com/lni/dragonboat/v4/logger) and hold a package level logger:
//
//	var plog = logger.GetLogger("wal")
//
// InitLoggers replaces dragonboats default factory with one that writes lines in
// the form "<date> <time> LEVEL | name | message" to stderr and sets the level of
// every logger listed in LoggerNames.
//
// Configuration:
//
// StoreConfig describes where a store keeps its snapshot and write-ahead log and
// how often snapshots are written. DefaultStoreConfig returns sensible defaults,
// Validate reports all invalid fields at once and String renders the
// configuration for the "info" command.
package common
