package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrMalformed matches every structural decoding error.
	ErrMalformed = errors.New("manifest: malformed input")

	// ErrTooLarge indicates a logical line exceeds the configured maximum.
	ErrTooLarge = errors.New("manifest: logical line exceeds maximum length")

	// ErrNotText is returned by TextEncoder for values that are not strings.
	ErrNotText = errors.New("manifest: value is not text")

	// ErrNoCodec indicates a nil value codec for a value type that cannot
	// hold a plain string.
	ErrNoCodec = errors.New("manifest: no value codec for value type")

	// ErrInvalidKey indicates a key the format cannot represent.
	ErrInvalidKey = errors.New("manifest: invalid key")

	// ErrLineBreak indicates an encoded value containing CR or LF.
	ErrLineBreak = errors.New("manifest: value contains a line break")
)

// FormatError reports a line that is neither blank, a continuation, nor a
// "key: value" pair.
type FormatError struct {
	Line   int    // 1-based line number
	Text   string // Offending line without its terminator
	Reason string // Human-readable explanation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("manifest: line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrMalformed
}

// ContinuationError reports a continuation line with no pair to continue.
type ContinuationError struct {
	Line int
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("manifest: line %d: continuation line not continuing anything", e.Line)
}

func (e *ContinuationError) Unwrap() error {
	return ErrMalformed
}

// DuplicateKeyError reports a key appearing twice in one section.
// Line is the line the second occurrence starts on, or 0 when unknown.
type DuplicateKeyError struct {
	Key  string
	Line int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("manifest: line %d: duplicate key %q", e.Line, e.Key)
	}
	return fmt.Sprintf("manifest: duplicate key %q", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrMalformed
}

// EncodingError reports a key/value pair the encoder could not render.
type EncodingError struct {
	Key   string
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("manifest: cannot encode key %q (value of type %T): %v", e.Key, e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
