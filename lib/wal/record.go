package wal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ValentinKolb/dDoc/lib/document"
)

// DefaultCollection receives the records of the flat key-value log format
const DefaultCollection = "default"

// --------------------------------------------------------------------------
// Record Types
// --------------------------------------------------------------------------

// Op is the operation of a log record
type Op uint8

const (
	OpInsert Op = iota + 1
	OpDelete
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Record is a single mutation stored in the log
type Record struct {
	Op         Op
	Collection string
	ID         string         // unused for OpClear
	Document   document.Value // only set for OpInsert
}

// Insert creates an insert record
func Insert(collection, id string, doc document.Value) Record {
	return Record{Op: OpInsert, Collection: collection, ID: id, Document: doc}
}

// Delete creates a delete record
func Delete(collection, id string) Record {
	return Record{Op: OpDelete, Collection: collection, ID: id}
}

// Clear creates a clear record
func Clear(collection string) Record {
	return Record{Op: OpClear, Collection: collection}
}

func (r Record) String() string {
	return r.Format()
}

// Format returns the log line of the record (without the trailing newline)
func (r Record) Format() string {
	var sb strings.Builder
	sb.WriteString(r.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(formatToken(r.Collection))

	switch r.Op {
	case OpInsert:
		sb.WriteByte(' ')
		sb.WriteString(formatToken(r.ID))
		sb.WriteByte(' ')
		sb.Write(r.Document.Bytes())
	case OpDelete:
		sb.WriteByte(' ')
		sb.WriteString(formatToken(r.ID))
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// Parsing
// --------------------------------------------------------------------------

// ParseRecord parses a single complete log line, including the flat key-value shapes.
//
// Collection and id of the current grammar are always quoted. A bare first
// argument therefore marks a flat record: "insert greeting hello 42" sets
// default/greeting to the string "hello 42".
func ParseRecord(line string) (Record, error) {
	line = strings.TrimRight(line, "\r")

	verb, rest, _, ok := nextToken(line)
	if !ok {
		return Record{}, fmt.Errorf("empty record")
	}

	switch verb {
	case "insert":
		return parseInsert(rest)
	case "delete":
		return parseDelete(rest)
	case "clear":
		collection, rest, _, ok := nextToken(rest)
		if !ok || strings.TrimSpace(rest) != "" {
			return Record{}, fmt.Errorf("clear expects exactly one argument")
		}
		return Clear(collection), nil
	default:
		return Record{}, fmt.Errorf("unknown operation %q", verb)
	}
}

// parseInsert handles "insert "<collection>" "<id>" <document>" and the flat "insert <key> <value>"
func parseInsert(args string) (Record, error) {
	first, afterFirst, quoted, ok := nextToken(args)
	if !ok {
		return Record{}, fmt.Errorf("insert expects arguments")
	}

	if !quoted {
		// flat form: the value is everything after the key
		value := strings.TrimLeftFunc(afterFirst, unicode.IsSpace)
		if value == "" {
			return Record{}, fmt.Errorf("insert without value")
		}
		return Insert(DefaultCollection, first, document.String(value)), nil
	}

	id, afterID, quoted, ok := nextToken(afterFirst)
	if !ok || !quoted {
		return Record{}, fmt.Errorf("insert expects a quoted id")
	}
	doc, err := document.ParseString(strings.TrimSpace(afterID))
	if err != nil {
		return Record{}, fmt.Errorf("insert with invalid document: %w", err)
	}
	return Insert(first, id, doc), nil
}

// parseDelete handles "delete "<collection>" "<id>"" and the flat "delete <key>"
func parseDelete(args string) (Record, error) {
	first, rest, quoted, ok := nextToken(args)
	if !ok {
		return Record{}, fmt.Errorf("delete expects arguments")
	}

	if !quoted {
		if strings.TrimSpace(rest) != "" {
			return Record{}, fmt.Errorf("flat delete expects exactly one key")
		}
		return Delete(DefaultCollection, first), nil
	}

	id, rest, quoted, ok := nextToken(rest)
	if !ok || !quoted {
		return Record{}, fmt.Errorf("delete expects a quoted id")
	}
	if strings.TrimSpace(rest) != "" {
		return Record{}, fmt.Errorf("delete expects exactly two arguments")
	}
	return Delete(first, id), nil
}

// --------------------------------------------------------------------------
// Tokens
// --------------------------------------------------------------------------

// formatToken quotes every name, so a record of the current grammar never
// reads as a flat one
func formatToken(s string) string {
	return strconv.Quote(s)
}

// nextToken returns the next bare or quoted token and the remaining input
func nextToken(s string) (token, rest string, quoted, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", "", false, false
	}

	if s[0] == '"' {
		prefix, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", "", false, false
		}
		token, err = strconv.Unquote(prefix)
		if err != nil {
			return "", "", false, false
		}
		return token, s[len(prefix):], true, true
	}

	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, "", false, true
	}
	return s[:end], s[end:], false, true
}
