package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"null", KindNull},
		{"true", KindBool},
		{"false", KindBool},
		{"42", KindNumber},
		{"-3.5e2", KindNumber},
		{`"hello"`, KindString},
		{"[1, 2, 3]", KindArray},
		{`{"a": 1}`, KindObject},
		{"  \n {} \t", KindObject},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			v, err := ParseString(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, v.Kind())
		})
	}
}

func TestParseNested(t *testing.T) {
	v, err := ParseString(`{"name":"Alice","age":30,"tags":["a",null,true],"meta":{"x":1.5}}`)
	require.NoError(t, err)

	name, ok := v.Field("name")
	require.True(t, ok)
	s, _ := name.AsString()
	assert.Equal(t, "Alice", s)

	age, _ := v.Field("age")
	n, ok := age.AsNumber()
	require.True(t, ok)
	assert.Equal(t, float64(30), n)

	tags, _ := v.Field("tags")
	assert.Equal(t, 3, tags.Len())
	second, ok := tags.Index(1)
	require.True(t, ok)
	assert.True(t, second.IsNull())

	meta, _ := v.Field("meta")
	assert.Equal(t, []string{"x"}, meta.Keys())

	_, ok = v.Field("missing")
	assert.False(t, ok)
}

func TestParseMalformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		`{"a":}`,
		`{"a" 1}`,
		"[1,2",
		"tru",
		"1 2",
		`{"a":1} x`,
		"'single'",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseString(input)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected *SyntaxError, got %T", err)
			assert.GreaterOrEqual(t, syntaxErr.Offset, int64(0))
			assert.Contains(t, syntaxErr.Error(), "malformed document")
		})
	}
}

func TestCanonicalEncoding(t *testing.T) {
	v, err := ParseString(`{ "b": [1, 2.5, "x\ny"], "a": {"d": false, "c": null} }`)
	require.NoError(t, err)

	encoded := v.String()
	assert.Equal(t, `{"a":{"c":null,"d":false},"b":[1,2.5,"x\ny"]}`, encoded)
	assert.False(t, strings.Contains(encoded, "\n"), "canonical encoding must be a single line")

	// encoding twice yields the same bytes
	assert.Equal(t, encoded, v.Clone().String())
}

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "30", Number(30).String())
	assert.Equal(t, "-1", Number(-1).String())
	assert.Equal(t, "0.1", Number(0.1).String())
	assert.Equal(t, "1e+21", Number(1e21).String())
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`null`,
		`{"name":"Alice","age":31}`,
		`[[],{},[{"deep":[1,2,{"deeper":"yes"}]}]]`,
		`"unicode: äöü 日本"`,
		`{"":"empty key"}`,
	}

	for _, input := range inputs {
		v, err := ParseString(input)
		require.NoError(t, err)

		back, err := Parse(v.Bytes())
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "round trip of %s changed the value", input)
	}
}

func TestEqual(t *testing.T) {
	a := Object(map[string]Value{"name": String("Alice"), "age": Number(30)})
	b, err := ParseString(`{"age":30.0,"name":"Alice"}`)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Object(map[string]Value{"name": String("Alice"), "age": Number(31)})))
	assert.False(t, a.Equal(Object(map[string]Value{"name": String("Alice")})))
	assert.False(t, Array(Number(1), Number(2)).Equal(Array(Number(2), Number(1))))
	assert.False(t, Null().Equal(Bool(false)))
	assert.True(t, Null().Equal(Value{}))
}

func TestCloneIsDeep(t *testing.T) {
	inner := Object(map[string]Value{"x": Number(1)})
	outer := Object(map[string]Value{"inner": inner})

	clone := outer.Clone()
	clone.obj["inner"].obj["x"] = Number(2)

	got, _ := outer.Field("inner")
	x, _ := got.Field("x")
	n, _ := x.AsNumber()
	assert.Equal(t, float64(1), n, "modifying a clone must not change the original")
}

func TestJSONInterop(t *testing.T) {
	type wrapper struct {
		Doc Value `json:"doc"`
	}

	in := wrapper{Doc: Array(String("a"), Number(1))}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"doc":["a",1]}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.Doc.Equal(out.Doc))

	err = json.Unmarshal([]byte(`{"doc":{"a":}}`), &out)
	assert.Error(t, err)
}

func TestNonFiniteNumbers(t *testing.T) {
	zero := 0.0
	assert.True(t, Number(zero/zero).IsNull())
	assert.True(t, Number(1/zero).IsNull())
}
