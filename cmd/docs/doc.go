// Package docs implements the document commands of the CLI
// (insert, get, delete, list, clear, checkpoint). Every command opens the
// store, performs exactly one store operation and closes the store again.
package docs
