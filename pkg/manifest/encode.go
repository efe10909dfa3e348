package manifest

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Encode writes m to w, rendering values with encodeValue.
func Encode[V any](w io.Writer, m Manifest[V], encodeValue ValueEncoder[V]) error {
	return NewEncoder(w, encodeValue).Encode(m)
}

// EncodeToString encodes m with TextEncoder and returns the text.
func EncodeToString(m Manifest[any]) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, m, TextEncoder); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Encode writes every section of m in order, separated by blank lines.
// Nil and empty sections are skipped.
//
// Example:
//
//	enc.Encode(m) // writes "a: b\r\n\r\nc: d\r\n" for [{a: b}, {c: d}]
func (e *Encoder[V]) Encode(m Manifest[V]) error {
	encodeValue := e.encodeValue
	if encodeValue == nil {
		var err error
		if encodeValue, err = passThroughEncoder[V](); err != nil {
			return err
		}
	}

	written := 0
	for _, sect := range m {
		// Empty sections have no representation
		if sect == nil || sect.Len() == 0 {
			continue
		}
		if written > 0 {
			if _, err := e.w.Write([]byte(LineEnding)); err != nil {
				return err
			}
		}
		written++

		for key, value := range sect.All() {
			if err := validKey(key); err != nil {
				return &EncodingError{Key: key, Value: value, Err: err}
			}
			text, err := encodeValue(key, value)
			if err != nil {
				return &EncodingError{Key: key, Value: value, Err: err}
			}
			if strings.ContainsAny(text, "\r\n") {
				return &EncodingError{Key: key, Value: value, Err: ErrLineBreak}
			}

			e.buf = appendWrapped(e.buf[:0], key+": "+text)
			if _, err := e.w.Write(e.buf); err != nil {
				return err
			}
		}
	}

	return nil
}

// appendWrapped appends line to dst folded into physical lines: the first
// carries LineLength characters, each continuation line one fewer after its
// prefix.
func appendWrapped(dst []byte, line string) []byte {
	cut := runeOffset(line, LineLength)
	dst = append(dst, line[:cut]...)
	dst = append(dst, LineEnding...)
	line = line[cut:]

	for line != "" {
		cut = runeOffset(line, LineLength-len(ContinuationPrefix))
		dst = append(dst, ContinuationPrefix...)
		dst = append(dst, line[:cut]...)
		dst = append(dst, LineEnding...)
		line = line[cut:]
	}
	return dst
}

// runeOffset returns the byte offset just past the first n runes of s.
func runeOffset(s string, n int) int {
	offset := 0
	for i := 0; i < n && offset < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}

// validKey rejects keys that would decode differently: empty keys, keys
// holding the separator or a line break, and keys that read as continuations.
func validKey(key string) error {
	switch {
	case key == "":
		return ErrInvalidKey
	case strings.HasPrefix(key, ContinuationPrefix):
		return ErrInvalidKey
	case strings.ContainsAny(key, ":\r\n"):
		return ErrInvalidKey
	}
	return nil
}
