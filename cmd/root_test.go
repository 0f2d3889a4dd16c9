package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestDocumentCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.json")
	db := "--db=" + dbPath

	out, err := execute(t, "insert", "users", "u1", `{"name":"Alice","age":30}`, db)
	require.NoError(t, err)
	assert.Equal(t, "inserted successfully\n", out)

	out, err = execute(t, "get", "users", "u1", db)
	require.NoError(t, err)
	assert.Equal(t, "{\"age\":30,\"name\":\"Alice\"}\n", out)

	out, err = execute(t, "list", "users", db)
	require.NoError(t, err)
	assert.Equal(t, "u1\t{\"age\":30,\"name\":\"Alice\"}\n", out)

	out, err = execute(t, "list", db)
	require.NoError(t, err)
	assert.Equal(t, "users\n", out)

	_, err = execute(t, "delete", "users", "u1", db)
	require.NoError(t, err)

	_, err = execute(t, "delete", "users", "u1", db)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	_, err = execute(t, "get", "users", "u1", db)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	// every command leaves an empty wal behind
	wal, err := os.ReadFile(filepath.Join(filepath.Dir(dbPath), "cli.wal"))
	require.NoError(t, err)
	assert.Empty(t, wal)
}

func TestCommandsInOneProcess(t *testing.T) {
	dir := t.TempDir()
	first := "--db=" + filepath.Join(dir, "first.json")
	second := "--db=" + filepath.Join(dir, "second.json")
	defer execute(t, "version", "--log-level=info")

	// each command opens and closes its own store, alternating between two databases
	for i, level := range []string{"error", "warn", "info"} {
		_, err := execute(t, "insert", "runs", fmt.Sprintf("r%d", i), "true", first, "--log-level="+level)
		require.NoError(t, err, "insert into first store, run %d", i)
		_, err = execute(t, "insert", "runs", fmt.Sprintf("r%d", i), "false", second, "--log-level="+level)
		require.NoError(t, err, "insert into second store, run %d", i)
	}

	out, err := execute(t, "list", "runs", first)
	require.NoError(t, err)
	assert.Equal(t, "r0\ttrue\nr1\ttrue\nr2\ttrue\n", out)

	out, err = execute(t, "get", "runs", "r2", second)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestInsertMalformedDocument(t *testing.T) {
	db := "--db=" + filepath.Join(t.TempDir(), "cli.json")

	_, err := execute(t, "insert", "users", "u1", `{"name":`, db)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrMalformedDocument)
}

func TestClearAndCheckpoint(t *testing.T) {
	db := "--db=" + filepath.Join(t.TempDir(), "cli.json")

	_, err := execute(t, "insert", "logs", "l1", `"line"`, db)
	require.NoError(t, err)

	out, err := execute(t, "clear", "logs", db)
	require.NoError(t, err)
	assert.Equal(t, "cleared successfully\n", out)

	out, err = execute(t, "list", "logs", db)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "checkpoint", db)
	require.NoError(t, err)
	assert.Equal(t, "checkpoint written\n", out)
}

func TestInfoCommand(t *testing.T) {
	db := "--db=" + filepath.Join(t.TempDir(), "cli.json")

	_, err := execute(t, "insert", "users", "u1", `{}`, db)
	require.NoError(t, err)

	out, err := execute(t, "info", db)
	require.NoError(t, err)
	assert.Contains(t, out, "cli.wal")
	assert.Contains(t, out, `"document_count": 1`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dDoc v"+Version+"\n", out)
}
