// Package optional provides a field wrapper that distinguishes an absent value
// from a present zero value. It is used for partial-update payloads where
// "not sent" means "leave unchanged" and "" or 0 is still an explicit request.
package optional

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNull is returned when a JSON payload sets an optional field to null.
// Clearing a field is not a supported update, so null is rejected instead of
// being silently treated as absent.
var ErrNull = errors.New("optional: explicit null is not allowed")

// Value holds a T that may or may not have been provided.
// The zero Value is absent.
type Value[T any] struct {
	value   T
	present bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Present reports whether the value was provided.
func (v Value[T]) Present() bool {
	return v.present
}

// Get returns the held value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.present
}

// OrElse returns the held value when present, otherwise fallback.
func (v Value[T]) OrElse(fallback T) T {
	if v.present {
		return v.value
	}
	return fallback
}

// UnmarshalJSON marks the value present. encoding/json only calls it when the
// key exists in the object, so a missing key leaves the Value absent.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNull
	}
	var inner T
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	v.value = inner
	v.present = true
	return nil
}

// MarshalJSON encodes the held value, or null when absent.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
