package model

import "encoding/json"

// Opt is a patch field that distinguishes "absent from the request" from
// "present as null". Absent leaves the stored value unchanged, present null
// clears it, present value overwrites.
type Opt[T any] struct {
	Set   bool
	Value *T
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// OptOf is a convenience constructor for tests and internal callers.
func OptOf[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: &v}
}

// OptNull marks a field as present-but-null, i.e. an explicit clear.
func OptNull[T any]() Opt[T] {
	return Opt[T]{Set: true}
}
