package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// WriteJSON writes m as a JSON array of objects in section and key order.
func WriteJSON(w io.Writer, m manifest.Manifest[any], indent bool) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for _, sect := range m {
		if sect == nil {
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		buf.WriteByte('{')
		first := true
		for key, value := range sect.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false

			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			v, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("format: key %q: %w", key, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	out := buf.Bytes()
	if indent {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, out, "", "  "); err != nil {
			return err
		}
		out = pretty.Bytes()
	}
	out = append(out, '\n')

	_, err := w.Write(out)
	return err
}

// ReadJSON parses a JSON array of objects, keeping key order.
// Empty input yields an empty manifest.
func ReadJSON(r io.Reader) (manifest.Manifest[any], error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	m := manifest.Manifest[any]{}

	tok, err := dec.Token()
	if err == io.EOF {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("format: reading JSON: %w", err)
	}
	if tok != json.Delim('[') {
		return nil, fmt.Errorf("format: JSON manifest must be an array of objects")
	}

	for dec.More() {
		sect, err := readJSONSection(dec)
		if err != nil {
			return nil, fmt.Errorf("format: section %d: %w", len(m), err)
		}
		m = append(m, sect)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("format: reading JSON: %w", err)
	}
	return m, nil
}

func readJSONSection(dec *json.Decoder) (*manifest.Section[any], error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	sect := manifest.NewSection[any]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		value, err := jsonValue(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if err := sect.Add(key, value); err != nil {
			return nil, err
		}
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if sect.Len() == 0 {
		return nil, fmt.Errorf("%w: empty section", ErrUnsupportedValue)
	}
	return sect, nil
}

func jsonValue(raw any) (any, error) {
	switch v := raw.(type) {
	case string, bool:
		return v, nil
	case json.Number:
		return v.String(), nil
	case nil:
		return nil, fmt.Errorf("%w: null", ErrUnsupportedValue)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}
