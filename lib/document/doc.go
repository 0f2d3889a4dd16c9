// Package document implements the schema-less value that dDoc stores under
// a (collection, id) pair.
//
// A Value is a closed tagged variant over the JSON data model:
//
//   - Null
//   - Bool
//   - Number (float64)
//   - String
//   - Array (ordered sequence of Values)
//   - Object (string-keyed mapping of Values)
//
// Values are parsed from and serialized to JSON text. The serialized form is
// canonical: object keys are sorted and the output never contains a newline,
// which lets the write-ahead log store a whole document on a single line.
//
// Values are immutable by convention. Everything that hands a Value across a
// package boundary (the db engines, the stores) returns a deep copy made with
// Clone, so callers can never alias the in-memory state of a database.
//
// Usage Example:
//
//	v, err := document.ParseString(`{"name":"Alice","age":30}`)
//	if err != nil {
//		var syntaxErr *document.SyntaxError
//		errors.As(err, &syntaxErr) // syntaxErr.Offset names the failing byte
//	}
//
//	name, _ := v.Field("name")
//	fmt.Println(name) // "Alice"
package document
