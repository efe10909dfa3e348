package manifest

import (
	"fmt"
	"reflect"
)

// ValueDecoder converts the raw text of a value into V. It must accept every
// string; a decoder that only understands some shapes returns the others in
// a fallback form.
type ValueDecoder[V any] func(key, raw string) V

// ValueEncoder renders a value as the text written after "key: ". It returns
// an error for values it cannot represent.
type ValueEncoder[V any] func(key string, value V) (string, error)

// TextDecoder is the default decoder: the raw string, unmodified.
func TextDecoder(_, raw string) any {
	return raw
}

// TextEncoder is the default encoder. It accepts strings and fails with
// ErrNotText for anything else.
func TextEncoder(_ string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", ErrNotText
	}
	return s, nil
}

// StringDecoder decodes into a Manifest[string].
func StringDecoder(_, raw string) string {
	return raw
}

// StringEncoder encodes a Manifest[string]. It never fails.
func StringEncoder(_ string, value string) (string, error) {
	return value, nil
}

// BoolDecoder decodes the literals "true" and "false" as booleans and every
// other value as its raw string.
func BoolDecoder(_, raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return raw
	}
}

// BoolEncoder renders booleans as "true" or "false" and strings as-is.
func BoolEncoder(_ string, value any) (string, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: cannot encode %T", ErrNotText, value)
	}
}

// holdsString reports whether a plain string can be stored in a V.
func holdsString[V any]() bool {
	return reflect.TypeFor[string]().AssignableTo(reflect.TypeFor[V]())
}

func passThroughDecoder[V any]() (ValueDecoder[V], error) {
	if !holdsString[V]() {
		return nil, fmt.Errorf("%w %s", ErrNoCodec, reflect.TypeFor[V]())
	}
	return func(_, raw string) V {
		return any(raw).(V)
	}, nil
}

func passThroughEncoder[V any]() (ValueEncoder[V], error) {
	if !holdsString[V]() {
		return nil, fmt.Errorf("%w %s", ErrNoCodec, reflect.TypeFor[V]())
	}
	return func(key string, value V) (string, error) {
		return TextEncoder(key, any(value))
	}, nil
}
