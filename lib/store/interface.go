package store

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/document"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.DocDB

// Entry is a document together with its id
type Entry = db.Entry

// IStore is the generic interface for interacting with a document store.
// All write operations return only a *Error (nil on success).
// Read operations only touch memory and never fail.
type IStore interface {
	// Insert creates or overwrites the document stored under id.
	// The collection is created if it does not exist yet.
	Insert(collection, id string, doc document.Value) (err error)
	// Get returns the document stored under id. The boolean return value indicates whether a document was found.
	Get(collection, id string) (doc document.Value, loaded bool)
	// Delete removes the document stored under id.
	// A missing collection or id is reported as RetCKeyNotFound.
	Delete(collection, id string) (err error)
	// List returns all documents of a collection ordered by id (empty for a missing collection).
	List(collection string) (entries []Entry)
	// Clear removes all documents of a collection. The collection stays present
	// if it existed, clearing a missing collection succeeds without creating it.
	Clear(collection string) (err error)
	// Collections returns the names of all collections in sorted order.
	Collections() (names []string)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo)
	// Close flushes pending state and releases all resources.
	// Every later call fails with RetCInvalidOperation (reads return nothing).
	Close() (err error)
}

// Checkpointer is implemented by stores that can compact their persistent state
type Checkpointer interface {
	// Checkpoint persists the full state and discards the write-ahead log.
	Checkpoint() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("StoreError (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same code.
// This allows checks like errors.Is(err, store.ErrKeyNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new Error with the given code and message wrapping err.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// CodeOf returns the code of the first *Error in the chain of err.
// nil maps to RetCSuccess, any other error to RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCInternalError
}

// Sentinel errors for use with errors.Is
var (
	ErrInternal          = NewError(RetCInternalError, "internal error")
	ErrInvalidOperation  = NewError(RetCInvalidOperation, "invalid operation")
	ErrKeyNotFound       = NewError(RetCKeyNotFound, "key not found")
	ErrIoFailure         = NewError(RetCIoFailure, "i/o failure")
	ErrMalformedDocument = NewError(RetCMalformedDocument, "malformed document")
	ErrCorruptSnapshot   = NewError(RetCCorruptSnapshot, "corrupt snapshot")
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess           RetCode = iota // 0: Command executed successfully.
	RetCInternalError                    // 1: Command failed due to an internal error.
	RetCInvalidOperation                 // 2: Invalid operation (e.g. store already closed, invalid configuration).
	RetCKeyNotFound                      // 3: Collection or document does not exist.
	RetCIoFailure                        // 4: Reading or writing a file failed.
	RetCMalformedDocument                // 5: Text could not be parsed into a document.
	RetCCorruptSnapshot                  // 6: Snapshot file exists but is not a valid encoding.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCKeyNotFound:
		return "KeyNotFound"
	case RetCIoFailure:
		return "IoFailure"
	case RetCMalformedDocument:
		return "MalformedDocument"
	case RetCCorruptSnapshot:
		return "CorruptSnapshot"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseDocument parses the JSON text of a document.
// Syntax errors are reported as RetCMalformedDocument.
func ParseDocument(text string) (document.Value, error) {
	doc, err := document.ParseString(text)
	if err != nil {
		return document.Null(), WrapError(RetCMalformedDocument, "invalid document", err)
	}
	return doc, nil
}

// KeyNotFound creates the error returned for a missing collection or document
func KeyNotFound(collection, id string) *Error {
	return NewError(RetCKeyNotFound, fmt.Sprintf("document %q not found in collection %q", id, collection))
}
