package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	wrapped := WrapString(text)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, strings.TrimSpace(text), strings.ReplaceAll(wrapped, "\n", " "))
	assert.Equal(t, "", WrapString("   "))
}

func TestFormatError(t *testing.T) {
	_, parseErr := document.ParseString("{")

	tests := []struct {
		err    error
		prefix string
		code   int
	}{
		{store.KeyNotFound("users", "u1"), "not found:", 2},
		{store.WrapError(store.RetCIoFailure, "can not write wal record", fmt.Errorf("disk full")), "i/o failure:", 4},
		{store.WrapError(store.RetCMalformedDocument, "invalid document", parseErr), "invalid document:", 3},
		{store.NewError(store.RetCCorruptSnapshot, "can not decode snapshot"), "corrupt snapshot:", 4},
		{fmt.Errorf("wrapped: %w", store.KeyNotFound("c", "x")), "not found:", 2},
		{fmt.Errorf("plain"), "error:", 1},
	}

	for _, tc := range tests {
		msg := FormatError(tc.err)
		assert.True(t, strings.HasPrefix(msg, tc.prefix), "expected %q to start with %q", msg, tc.prefix)
		assert.Equal(t, tc.code, ExitCode(tc.err), msg)
	}
	assert.Equal(t, 0, ExitCode(nil))
}

func TestParseDocumentArg(t *testing.T) {
	doc, err := ParseDocumentArg(`{"name":"Alice"}`)
	assert.NoError(t, err)
	assert.Equal(t, document.KindObject, doc.Kind())

	_, err = ParseDocumentArg(`{"name":`)
	assert.ErrorIs(t, err, store.ErrMalformedDocument)
}

func TestWithStoreRepeatedly(t *testing.T) {
	defer viper.Reset()
	viper.Set("db", filepath.Join(t.TempDir(), "util.json"))
	viper.Set("snapshot-format", "json")
	viper.Set("snapshot-interval", 1)
	viper.Set("sync", false)

	// every call installs the loggers again and opens a fresh store
	for i, level := range []string{"info", "error", "debug"} {
		viper.Set("log-level", level)
		err := WithStore(func(s store.IStore) error {
			assert.Len(t, s.List("runs"), i)
			return s.Insert("runs", fmt.Sprintf("r%d", i), document.Number(float64(i)))
		})
		require.NoError(t, err, "run %d", i)
	}

	viper.Set("log-level", "loud")
	assert.Error(t, WithStore(func(store.IStore) error { return nil }))
}
