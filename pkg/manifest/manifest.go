package manifest

import (
	"bufio"
	"io"
	"iter"
	"slices"
)

// Format constants. They are part of the format, not per-call settings.
const (
	// ContinuationPrefix starts every continuation line.
	ContinuationPrefix = " "

	// LineEnding terminates every line the encoder writes.
	LineEnding = "\r\n"

	// LineLength is the maximum number of characters on one physical line.
	LineLength = 70
)

// Manifest is an ordered list of sections. The first section is the main
// section.
type Manifest[V any] []*Section[V]

// Main returns the main section, or nil for an empty manifest.
func (m Manifest[V]) Main() *Section[V] {
	if len(m) == 0 {
		return nil
	}
	return m[0]
}

// Section maps keys to values, remembering the order keys were added in.
// The zero value is an empty section ready to use.
type Section[V any] struct {
	values map[string]V
	keys   []string
}

// NewSection creates an empty section.
func NewSection[V any]() *Section[V] {
	return &Section[V]{
		values: make(map[string]V),
		keys:   make([]string, 0),
	}
}

// Len returns the number of keys in the section.
func (s *Section[V]) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *Section[V]) Keys() []string {
	return slices.Clone(s.keys)
}

// Get returns the value stored under key.
func (s *Section[V]) Get(key string) (V, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Section[V]) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set stores value under key. A new key goes to the end; an existing key
// keeps its position.
func (s *Section[V]) Set(key string, value V) {
	if s.values == nil {
		s.values = make(map[string]V)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Add stores value under a key that must not be present yet.
func (s *Section[V]) Add(key string, value V) error {
	if s.Has(key) {
		return &DuplicateKeyError{Key: key}
	}
	s.Set(key, value)
	return nil
}

// Delete removes key and reports whether it was present.
func (s *Section[V]) Delete(key string) bool {
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
	return true
}

// All iterates over the key/value pairs in insertion order.
func (s *Section[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, key := range s.keys {
			if !yield(key, s.values[key]) {
				return
			}
		}
	}
}

// Decoder reads a manifest from a stream of lines.
//
// A Decoder is not safe for concurrent use.
type Decoder[V any] struct {
	r           *bufio.Reader
	decodeValue ValueDecoder[V]
	maxLength   int
	line        int // Last line read, for error reporting
}

// NewDecoder creates a decoder reading from r and converting every raw value
// with decodeValue. A nil decodeValue passes raw strings through when V can
// hold a string.
//
// Example:
//
//	dec := manifest.NewDecoder(f, manifest.BoolDecoder, manifest.MaxLogicalLineLength(64*1024))
func NewDecoder[V any](r io.Reader, decodeValue ValueDecoder[V], opts ...Option) *Decoder[V] {
	cfg := &config{
		maxLength: defaultMaxLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Decoder[V]{
		r:           br,
		decodeValue: decodeValue,
		maxLength:   cfg.maxLength,
	}
}

// Encoder writes manifests to an io.Writer.
//
// Each key/value pair is written with a single Write call. Wrap w in a
// bufio.Writer if fewer, larger writes are wanted.
type Encoder[V any] struct {
	w           io.Writer
	encodeValue ValueEncoder[V]
	buf         []byte
}

// NewEncoder creates an encoder writing to w and rendering every value with
// encodeValue. A nil encodeValue accepts only string values.
func NewEncoder[V any](w io.Writer, encodeValue ValueEncoder[V]) *Encoder[V] {
	return &Encoder[V]{w: w, encodeValue: encodeValue}
}
