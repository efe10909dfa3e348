package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Decode reads a whole manifest from r, converting values with decodeValue.
func Decode[V any](r io.Reader, decodeValue ValueDecoder[V], opts ...Option) (Manifest[V], error) {
	return NewDecoder(r, decodeValue, opts...).Decode()
}

// DecodeString decodes s with TextDecoder.
func DecodeString(s string) (Manifest[any], error) {
	return Decode(strings.NewReader(s), TextDecoder)
}

// pending is a pair whose value may still grow through continuation lines.
type pending struct {
	key  string
	line int
	buf  strings.Builder
}

// Decode reads lines until the end of the stream and returns the manifest.
//
// An empty stream yields an empty manifest.
func (d *Decoder[V]) Decode() (Manifest[V], error) {
	decodeValue := d.decodeValue
	if decodeValue == nil {
		var err error
		if decodeValue, err = passThroughDecoder[V](); err != nil {
			return nil, err
		}
	}

	sections := Manifest[V]{}
	sect := NewSection[V]()
	var pair *pending

	// finish moves the pending pair into the current section.
	finish := func() error {
		if pair == nil {
			return nil
		}
		p := pair
		pair = nil
		if sect.Has(p.key) {
			return &DuplicateKeyError{Key: p.key, Line: p.line}
		}
		sect.Set(p.key, decodeValue(p.key, p.buf.String()))
		return nil
	}

	for {
		line, err := d.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(line, ContinuationPrefix) {
			if pair == nil {
				return nil, &ContinuationError{Line: d.line}
			}
			// The logical line is "key: value"
			if len(pair.key)+2+pair.buf.Len()+len(line)-len(ContinuationPrefix) > d.maxLength {
				return nil, fmt.Errorf("manifest: line %d: %w", d.line, ErrTooLarge)
			}
			pair.buf.WriteString(line[len(ContinuationPrefix):])
			continue
		}

		if err := finish(); err != nil {
			return nil, err
		}

		if line == "" {
			// Blank line: closes a section with content, otherwise ignored
			if sect.Len() > 0 {
				sections = append(sections, sect)
				sect = NewSection[V]()
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, &FormatError{
				Line:   d.line,
				Text:   line,
				Reason: "missing ':' separator",
			}
		}
		if key == "" {
			return nil, &FormatError{
				Line:   d.line,
				Text:   line,
				Reason: "empty key",
			}
		}

		pair = &pending{key: key, line: d.line}
		pair.buf.WriteString(strings.TrimLeftFunc(value, unicode.IsSpace))
	}

	if err := finish(); err != nil {
		return nil, err
	}
	if sect.Len() > 0 {
		sections = append(sections, sect)
	}

	return sections, nil
}

// readLine returns the next physical line without its terminator.
// Returns io.EOF when the stream is exhausted.
func (d *Decoder[V]) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := d.r.ReadSlice('\n')
		if len(buf)+len(chunk) > d.maxLength+len(LineEnding) {
			return "", fmt.Errorf("manifest: line %d: %w", d.line+1, ErrTooLarge)
		}
		buf = append(buf, chunk...)

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == io.EOF {
			if len(buf) == 0 {
				return "", io.EOF
			}
			break
		}
		if err != nil {
			return "", fmt.Errorf("manifest: reading line %d: %w", d.line+1, err)
		}
		break
	}

	d.line++
	return strings.TrimRight(string(buf), "\r\n"), nil
}
