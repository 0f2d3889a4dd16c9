package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dDoc/lib/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() Codec{
	"JSON":       NewJSONCodec,
	"PrettyJSON": NewPrettyJSONCodec,
}

func testState(t *testing.T) State {
	t.Helper()
	alice, err := document.ParseString(`{"name":"Alice","age":30,"tags":["admin"]}`)
	require.NoError(t, err)

	return State{
		"users": {
			"u1": alice,
			"u2": document.String("plain string document"),
		},
		"empty": {},
		"": {
			"": document.Null(),
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			codec := factory()
			state := testState(t)

			data, err := codec.Encode(state)
			require.NoError(t, err)

			decoded, err := codec.Decode(data)
			require.NoError(t, err)
			assert.True(t, state.Equal(decoded), "decode(encode(state)) must equal state")

			// encoding is deterministic
			again, err := codec.Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			for _, input := range []string{"", "   ", "\n\t\n"} {
				state, err := factory().Decode([]byte(input))
				require.NoError(t, err)
				assert.Empty(t, state)
			}
		})
	}
}

func TestCodecCorruptInput(t *testing.T) {
	inputs := []string{
		"{",
		"null",
		"[]",
		`{"users": "not a collection"}`,
		`{"users": {"u1": {"name": }}}`,
		`{"users": {"u1": 1}} trailing`,
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			for _, input := range inputs {
				_, err := factory().Decode([]byte(input))
				require.Error(t, err, "input %q", input)
				assert.True(t, errors.Is(err, ErrCorrupt), "input %q: expected ErrCorrupt, got %v", input, err)
			}
		})
	}
}

func TestNewCodec(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatJSONPretty, ""} {
		codec, err := NewCodec(format)
		require.NoError(t, err)
		assert.NotNil(t, codec)
	}

	_, err := NewCodec("xml")
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "db.json")
	codec := NewPrettyJSONCodec()
	state := testState(t)

	require.NoError(t, Save(path, state, codec))

	// no temp file is left behind
	_, err := os.Stat(path + tmpSuffix)
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path, codec)
	require.NoError(t, err)
	assert.True(t, state.Equal(loaded))

	// saving again replaces the old content
	state["users"]["u3"] = document.Bool(true)
	require.NoError(t, Save(path, state, codec))
	loaded, err = Load(path, codec)
	require.NoError(t, err)
	assert.True(t, state.Equal(loaded))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), NewJSONCodec())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, ErrCorrupt))
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": {`), 0o644))

	_, err := Load(path, NewJSONCodec())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestSaveFailureKeepsOldSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	codec := NewJSONCodec()
	state := testState(t)
	require.NoError(t, Save(path, state, codec))

	// a directory in place of the temp file makes the write fail
	require.NoError(t, os.Mkdir(path+tmpSuffix, 0o755))
	err := Save(path, State{"other": {}}, codec)
	require.Error(t, err)

	loaded, err := Load(path, codec)
	require.NoError(t, err)
	assert.True(t, state.Equal(loaded))
}

func TestSyncDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, syncDir(dir))

	err := syncDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWALPath(t *testing.T) {
	assert.Equal(t, "my_db.wal", WALPath("my_db.json"))
	assert.Equal(t, filepath.Join("data", "store.wal"), WALPath(filepath.Join("data", "store.json")))
	assert.Equal(t, "noext.wal", WALPath("noext"))
}
