package capsule

import (
	"bytes"
	"encoding/json"
)

// Optional is a value that may be absent, present, or explicitly null.
//
// Payload structs tag Optional fields with `omitzero`, so an absent field never
// reaches the wire while present zero values such as 0 or false do.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional that marshals as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// IsZero reports whether the value is absent.
func (o Optional[T]) IsZero() bool { return !o.Set }

// Present reports whether a non-null value is held.
func (o Optional[T]) Present() bool { return o.Set && !o.Null }

// Get returns the value and whether it is present and non-null.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Present() }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON marks the value as set, even for a JSON null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ref is a relationship reference, always sent as {"id": n}.
type Ref struct {
	ID int64 `json:"id"`
}

// RefOf wraps an optional identifier into an optional relation. Absent stays
// absent and null stays null.
func RefOf(id Optional[int64]) Optional[Ref] {
	switch {
	case !id.Set:
		return Optional[Ref]{}
	case id.Null:
		return Null[Ref]()
	default:
		return Some(Ref{ID: id.Value})
	}
}
