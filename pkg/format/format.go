// Package format converts manifests to and from JSON and YAML, and renders
// them through mustache templates.
//
// Both JSON and YAML use a list of objects, one per section, keeping key
// order:
//
//	[{"Manifest-Version": "1.0", "Sealed": true}, {"Name": "a/B.class"}]
//
// Values are strings or booleans. Numbers read from JSON or YAML keep their
// literal text; nulls, nested structures and empty sections are rejected.
// Nil sections are skipped on output.
package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// Format names a serialization of a manifest.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	Manifest Format = "mf"
)

// ErrUnsupportedValue indicates a value with no manifest representation.
var ErrUnsupportedValue = errors.New("format: unsupported value")

// Parse maps a user-supplied name to a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "mf", "manifest":
		return Manifest, nil
	}
	return "", fmt.Errorf("format: unknown format %q", name)
}

// Write serializes m to w in format f. JSON output is indented.
func Write(w io.Writer, f Format, m manifest.Manifest[any], encodeValue manifest.ValueEncoder[any]) error {
	switch f {
	case JSON:
		return WriteJSON(w, m, true)
	case YAML:
		return WriteYAML(w, m)
	case Manifest:
		return manifest.Encode(w, m, encodeValue)
	}
	return fmt.Errorf("format: unknown format %q", f)
}

// Read parses a manifest in format f from r.
func Read(r io.Reader, f Format, decodeValue manifest.ValueDecoder[any]) (manifest.Manifest[any], error) {
	switch f {
	case JSON:
		return ReadJSON(r)
	case YAML:
		return ReadYAML(r)
	case Manifest:
		return manifest.Decode(r, decodeValue)
	}
	return nil, fmt.Errorf("format: unknown format %q", f)
}
