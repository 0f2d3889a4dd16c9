// Package wal implements the write-ahead log of a dDoc database.
//
// The log is a plain text file with one record per line. It is only ever
// appended to (O_APPEND) and reset to zero length by Truncate once its
// records have been folded into a snapshot.
//
// Record Grammar:
//
//	insert "<collection>" "<id>" <document>
//	delete "<collection>" "<id>"
//	clear "<collection>"
//
// <collection> and <id> are always written as Go quoted strings, so any name
// survives the round trip. <document> is the canonical single-line JSON
// encoding of the document.
//
// For logs written by the older flat key-value format, two more shapes are
// accepted on replay and mapped onto DefaultCollection:
//
//	insert <key> <value>   (value stored as a string document)
//	delete <key>
//
// The first argument decides between the two: quoted means the current
// grammar, bare means a flat record. A flat value may contain spaces and may
// look like JSON ("insert greeting hello 42" stores the string "hello 42").
// A flat key starting with a double quote can not be replayed.
//
// Replay Policy:
//
//	Replay reads the log top to bottom. A line that does not match the
//	grammar is skipped and counted in ReplayStats, it is never an error.
//	Append terminates every record with a newline, so a final line without
//	one is a record torn by a crash during Append. It is always skipped,
//	even when the remaining prefix happens to parse (an insert of the number
//	1234 torn after "12" would otherwise store a different document).
//
// Idempotence:
//
//	Every record has overwrite or remove semantics, so applying the same
//	record twice leaves the same state as applying it once. A crash between
//	folding the log and truncating it is therefore harmless.
//
// Concurrency:
//
//	A Log is safe for concurrent use, but the storage engine already
//	serializes all calls.
package wal
