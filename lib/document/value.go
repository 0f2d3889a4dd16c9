package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// --------------------------------------------------------------------------
// Kind
// --------------------------------------------------------------------------

// Kind is the tag of a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is a schema-less document value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// Bool returns a boolean value
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
// NaN and infinities have no JSON representation and are stored as null.
func Number(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Null()
	}
	return Value{kind: KindNumber, n: n}
}

// String returns a string value
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array returns an array holding copies of the given values
func Array(values ...Value) Value {
	arr := make([]Value, len(values))
	for i, v := range values {
		arr[i] = v.Clone()
	}
	return Value{kind: KindArray, arr: arr}
}

// Object returns an object holding copies of the given fields
func Object(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v.Clone()
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind returns the tag of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean and whether the value is a bool
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number and whether the value is a number
func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// AsString returns the string and whether the value is a string
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Len returns the number of elements of an array or fields of an object, 0 otherwise
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i-th element of an array
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i].Clone(), true
}

// Field returns the value stored under key in an object
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.obj[key]
	if !ok {
		return Value{}, false
	}
	return f.Clone(), true
}

// Keys returns the sorted field names of an object (nil for other kinds)
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the value
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		obj := make(map[string]Value, len(v.obj))
		for k, e := range v.obj {
			obj[k] = e.Clone()
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return v
	}
}

// Equal reports whether two values are structurally equal.
// Numbers compare by value, arrays by order and objects by their field sets.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, e := range v.obj {
			o, ok := other.obj[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// Bytes returns the canonical compact JSON encoding of the value
func (v Value) Bytes() []byte {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes()
}

// String returns the canonical compact JSON encoding of the value
func (v Value) String() string {
	return string(v.Bytes())
}

// Size returns the length of the canonical encoding in bytes
func (v Value) Size() int {
	return len(v.Bytes())
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(b []byte) error {
	parsed, err := Parse(b)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// encode writes the canonical encoding to buf
func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(formatNumber(v.n))
	case KindString:
		encodeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.encode(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			v.obj[k].encode(buf)
		}
		buf.WriteByte('}')
	default:
		panic(fmt.Sprintf("unknown document kind %d", v.kind))
	}
}

// formatNumber formats integral values without exponent or fraction
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// encodeString writes a JSON string literal. json.Marshal never fails for
// strings and escapes control characters, so the output stays on one line.
func encodeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
