// Package cmd implements the command-line interface of dDoc. Every command
// opens the configured store, runs one operation and closes the store.
//
// The package is organized into several subpackages:
//
//   - docs: Document commands (insert, get, delete, list, clear, checkpoint)
//   - info: Configuration, statistics and metrics of the database
//   - perf: A latency benchmark for the store operations
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ddoc --help for a list of all commands.
package cmd
