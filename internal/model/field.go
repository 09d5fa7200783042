package model

import "encoding/json"

// Field is an optional value that remembers whether it appeared in the JSON
// input at all.
//
// WHY NOT JUST A POINTER?
// Partial updates need THREE states per field, and a plain pointer only
// gives us two:
//
//	{"name": "x"}      → field present, value "x"     → overwrite
//	{"name": null}     → field present, value null    → overwrite with null
//	{}                 → field absent                 → leave unchanged
//
// With *string, both "absent" and "explicit null" decode to nil, so we
// can't tell "don't touch this column" apart from "clear this column".
// Field[T] records presence explicitly: encoding/json only calls
// UnmarshalJSON for keys that exist in the input, so Set flips to true
// exactly when the caller supplied the field.
//
// For nullable columns, instantiate with a pointer type — Field[*string]
// decodes {"avatar_url": null} as Set=true, Value=nil.
type Field[T any] struct {
	Value T
	Set   bool
}

// UnmarshalJSON marks the field as supplied and decodes the value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	return json.Unmarshal(data, &f.Value)
}
