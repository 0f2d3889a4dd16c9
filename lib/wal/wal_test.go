package wal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) document.Value {
	t.Helper()
	v, err := document.ParseString(s)
	require.NoError(t, err)
	return v
}

func requireRecordEqual(t *testing.T, want, got Record) {
	t.Helper()
	assert.Equal(t, want.Op, got.Op)
	assert.Equal(t, want.Collection, got.Collection)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Document.Equal(got.Document), "document: want %s, got %s", want.Document, got.Document)
}

func TestRecordFormat(t *testing.T) {
	doc := mustParse(t, `{"name":"Alice","age":30}`)

	assert.Equal(t, `insert "users" "u1" {"age":30,"name":"Alice"}`, Insert("users", "u1", doc).Format())
	assert.Equal(t, `delete "users" "u1"`, Delete("users", "u1").Format())
	assert.Equal(t, `clear "users"`, Clear("users").Format())
	assert.Equal(t, `insert "my users" "" null`, Insert("my users", "", document.Null()).Format())
	assert.Equal(t, `delete "\"quoted" "id"`, Delete(`"quoted`, "id").Format())
}

func TestRecordRoundTrip(t *testing.T) {
	records := []Record{
		Insert("users", "u1", mustParse(t, `{"name":"Alice","age":30}`)),
		Insert("users", "u2", mustParse(t, `"line\nbreak"`)),
		Insert("with space", "id\twith\ttabs", mustParse(t, `[1,2,{"a":null}]`)),
		Insert("", "", document.Null()),
		Delete("users", "u1"),
		Delete("", ""),
		Clear("users"),
		Clear("über collection"),
	}

	for _, rec := range records {
		line := rec.Format()
		assert.False(t, strings.Contains(line, "\n"), "record %v spans multiple lines", rec)

		parsed, err := ParseRecord(line)
		require.NoError(t, err, "line %q", line)
		requireRecordEqual(t, rec, parsed)
	}
}

func TestParseFlatRecords(t *testing.T) {
	rec, err := ParseRecord("insert k1 v1")
	require.NoError(t, err)
	requireRecordEqual(t, Insert(DefaultCollection, "k1", document.String("v1")), rec)

	rec, err = ParseRecord("insert k2 hello world")
	require.NoError(t, err)
	requireRecordEqual(t, Insert(DefaultCollection, "k2", document.String("hello world")), rec)

	rec, err = ParseRecord("delete k1")
	require.NoError(t, err)
	requireRecordEqual(t, Delete(DefaultCollection, "k1"), rec)

	// a flat value whose last word is valid json stays a string value
	rec, err = ParseRecord("insert greeting hello 42")
	require.NoError(t, err)
	requireRecordEqual(t, Insert(DefaultCollection, "greeting", document.String("hello 42")), rec)

	rec, err = ParseRecord(`insert k3 {"looks":"like json"}`)
	require.NoError(t, err)
	requireRecordEqual(t, Insert(DefaultCollection, "k3", document.String(`{"looks":"like json"}`)), rec)
}

func TestParseLegacyShapesOfCurrentGrammar(t *testing.T) {
	// bare names are read as flat records, never as collection records
	rec, err := ParseRecord(`insert users u1 {"a":1}`)
	require.NoError(t, err)
	requireRecordEqual(t, Insert(DefaultCollection, "users", document.String(`u1 {"a":1}`)), rec)

	// clear has no flat shape, bare and quoted names are both accepted
	rec, err = ParseRecord("clear logs")
	require.NoError(t, err)
	requireRecordEqual(t, Clear("logs"), rec)
}

func TestParseInvalidRecords(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"update users u1 {}",
		"insert",
		"insert onlykey",
		"delete",
		"delete a b",
		"delete a b c",
		`delete "a"`,
		`delete "a" b`,
		`insert "a" b 1`,
		`insert "a" "b"`,
		`insert "a" "b" {not json`,
		"clear",
		"clear a b",
		`insert "unterminated u1 {}`,
	}

	for _, line := range lines {
		_, err := ParseRecord(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestAppendReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.wal")
	log, err := Open(path, nil)
	require.NoError(t, err)
	defer log.Close()

	records := []Record{
		Insert("users", "u1", mustParse(t, `{"name":"Alice"}`)),
		Insert("users", "u2", mustParse(t, `{"name":"Bob"}`)),
		Delete("users", "u1"),
		Clear("logs"),
	}
	for _, rec := range records {
		require.NoError(t, log.Append(rec))
	}

	replayed, stats, err := log.Replay()
	require.NoError(t, err)
	assert.Equal(t, ReplayStats{Lines: 4, Records: 4}, stats)
	require.Len(t, replayed, len(records))
	for i := range records {
		requireRecordEqual(t, records[i], replayed[i])
	}

	size, err := log.Size()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestAppendKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.wal")
	require.NoError(t, os.WriteFile(path, []byte("insert k1 v1\n"), 0o644))

	log, err := Open(path, &Options{SyncWrites: false})
	require.NoError(t, err)
	require.NoError(t, log.Append(Delete(DefaultCollection, "k1")))
	require.NoError(t, log.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "insert k1 v1\ndelete \"default\" \"k1\"\n", string(content))
}

func TestReplaySkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.wal")
	content := strings.Join([]string{
		`insert "users" "u1" {"a":1}`,
		`this is not a record`,
		``,
		`delete "users" "u1"`,
		`insert "users" "u2" {"torn": tr`, // torn write at the end of the file
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, stats, err := ReplayFile(path)
	require.NoError(t, err)

	assert.Equal(t, ReplayStats{Lines: 4, Records: 2, Skipped: 2}, stats)
	require.Len(t, records, 2)
	assert.Equal(t, OpInsert, records[0].Op)
	assert.Equal(t, OpDelete, records[1].Op)
}

func TestReplayUnterminatedLastLine(t *testing.T) {
	tests := []struct {
		name string
		tail string
	}{
		{"torn number", `insert "c" "id" 12`},
		{"torn flat delete", "delete users u"},
		{"torn flat insert", "insert users u1"},
		{"complete record", `clear "use"`},
		{"torn quote", `delete "users" "u`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "db.wal")
			content := `insert "c" "id" 1` + "\n" + tt.tail
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			records, stats, err := ReplayFile(path)
			require.NoError(t, err)
			assert.Equal(t, ReplayStats{Lines: 2, Records: 1, Skipped: 1}, stats)
			require.Len(t, records, 1)
			requireRecordEqual(t, Insert("c", "id", document.Number(1)), records[0])
		})
	}
}

func TestReplayFlatLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.wal")
	require.NoError(t, os.WriteFile(path, []byte("insert k1 v1\ndelete k1\ninsert k1 v2\n"), 0o644))

	records, stats, err := ReplayFile(path)
	require.NoError(t, err)
	assert.Equal(t, ReplayStats{Lines: 3, Records: 3}, stats)
	requireRecordEqual(t, Insert(DefaultCollection, "k1", document.String("v1")), records[0])
	requireRecordEqual(t, Delete(DefaultCollection, "k1"), records[1])
	requireRecordEqual(t, Insert(DefaultCollection, "k1", document.String("v2")), records[2])
}

func TestReplayMissingFile(t *testing.T) {
	records, stats, err := ReplayFile(filepath.Join(t.TempDir(), "missing.wal"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, ReplayStats{}, stats)
}

func TestTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.wal")
	log, err := Open(path, nil)
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Append(Clear("a")))
	require.NoError(t, log.Truncate())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())

	// appending after truncate starts from the beginning again
	require.NoError(t, log.Append(Clear("b")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clear \"b\"\n", string(content))
}

func TestClosedLog(t *testing.T) {
	log, err := Open(filepath.Join(t.TempDir(), "db.wal"), nil)
	require.NoError(t, err)
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())

	assert.Error(t, log.Append(Clear("a")))
	assert.Error(t, log.Truncate())
}
