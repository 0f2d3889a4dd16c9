package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dDoc/lib/document"
)

// ErrCorrupt is wrapped by every error caused by a snapshot that is not a valid encoding
var ErrCorrupt = errors.New("corrupt snapshot")

// State is the full content of a database: collection name -> document id -> document
type State map[string]map[string]document.Value

// Equal reports whether two states contain the same collections and documents
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for name, docs := range s {
		otherDocs, ok := other[name]
		if !ok || len(docs) != len(otherDocs) {
			return false
		}
		for id, doc := range docs {
			otherDoc, ok := otherDocs[id]
			if !ok || !doc.Equal(otherDoc) {
				return false
			}
		}
	}
	return true
}

// Codec encodes and decodes a full State
type Codec interface {
	// Encode returns the deterministic encoding of the state
	Encode(state State) ([]byte, error)
	// Decode parses an encoding produced by Encode.
	// Empty or whitespace-only input decodes to an empty state.
	Decode(b []byte) (State, error)
}

// Format names a codec implementation
type Format string

const (
	FormatJSON       Format = "json"
	FormatJSONPretty Format = "json-pretty"
)

// NewCodec creates the codec for the given format
func NewCodec(format Format) (Codec, error) {
	switch format {
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatJSONPretty, "":
		return NewPrettyJSONCodec(), nil
	default:
		return nil, fmt.Errorf("invalid snapshot format %q (expected %s or %s)", format, FormatJSON, FormatJSONPretty)
	}
}

// NewJSONCodec creates a codec producing compact json
func NewJSONCodec() Codec {
	return &jsonCodecImpl{}
}

// NewPrettyJSONCodec creates a codec producing indented json
func NewPrettyJSONCodec() Codec {
	return &jsonCodecImpl{indent: "  "}
}

// jsonCodecImpl implements the Codec interface using json encoding.
// encoding/json writes map keys in sorted order which makes the output deterministic.
type jsonCodecImpl struct {
	indent string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see snapshot.Codec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl) Encode(state State) ([]byte, error) {
	if state == nil {
		state = State{}
	}
	if j.indent == "" {
		return json.Marshal(state)
	}
	return json.MarshalIndent(state, "", j.indent)
}

func (j *jsonCodecImpl) Decode(b []byte) (State, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return State{}, nil
	}

	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// "null" is valid json but not a valid encoding
	if state == nil {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrCorrupt)
	}
	for name, docs := range state {
		if docs == nil {
			state[name] = make(map[string]document.Value)
		}
	}
	return state, nil
}
