package models

import (
	"encoding/json"
)

// Nullable is a PATCH field that tells three request shapes apart:
//
//	absent        Set=false Valid=false
//	"field": null Set=true  Valid=false
//	"field": v    Set=true  Valid=true  Value=v
//
// A plain pointer cannot, since encoding/json leaves it nil in both of the
// first two cases.
type Nullable[T any] struct {
	Value T
	Valid bool // false for null
	Set   bool // the field appeared in the body
}

// NullableString clears a note when sent as null
type NullableString = Nullable[string]

// NullableInt resets a rating to unrated (0) when sent as null
type NullableInt = Nullable[int]

// UnmarshalJSON is only called when the field is present
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true

	var zero T
	if string(data) == "null" {
		n.Value, n.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		n.Value = zero
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// ToPtr returns nil for null, otherwise a pointer to a copy of Value
func (n Nullable[T]) ToPtr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// OrZero returns Value, or T's zero value for null
func (n Nullable[T]) OrZero() T {
	if !n.Valid {
		var zero T
		return zero
	}
	return n.Value
}
