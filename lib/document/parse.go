package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// SyntaxError is returned when a textual representation is not a valid document
type SyntaxError struct {
	Offset int64  // byte offset at which the error was detected
	Msg    string // best-effort description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed document at offset %d: %s", e.Offset, e.Msg)
}

// ParseString parses a document from its JSON representation
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// Parse parses exactly one JSON value from b.
// Leading and trailing whitespace is allowed, any other trailing data is an error.
func Parse(b []byte) (Value, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Value{}, &SyntaxError{Offset: 0, Msg: "empty input"}
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, wrapSyntaxError(dec, err)
	}

	// there must not be anything left but whitespace
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, &SyntaxError{Offset: dec.InputOffset(), Msg: "unexpected data after document"}
	}
	return v, nil
}

// parseValue reads the next value from the token stream
func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseToken(dec, tok)
}

// parseToken converts tok (and for delimiters the tokens following it) into a Value
func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", t)
		}
		return Number(n), nil
	case json.Delim:
		switch t {
		case '[':
			arr := make([]Value, 0)
			for dec.More() {
				e, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, e)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return Value{}, err
			}
			return Value{kind: KindArray, arr: arr}, nil
		case '{':
			obj := make(map[string]Value)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				e, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj[key] = e
			}
			if _, err := dec.Token(); err != nil { // '}'
				return Value{}, err
			}
			return Value{kind: KindObject, obj: obj}, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// wrapSyntaxError converts decoder errors into a *SyntaxError
func wrapSyntaxError(dec *json.Decoder, err error) error {
	var jsonErr *json.SyntaxError
	switch {
	case errors.As(err, &jsonErr):
		return &SyntaxError{Offset: jsonErr.Offset, Msg: jsonErr.Error()}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &SyntaxError{Offset: dec.InputOffset(), Msg: "unexpected end of input"}
	default:
		return &SyntaxError{Offset: dec.InputOffset(), Msg: err.Error()}
	}
}
