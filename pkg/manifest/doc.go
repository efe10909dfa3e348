// Package manifest implements encoding and decoding of Java archive manifests.
//
// A manifest (META-INF/MANIFEST.MF) is a sequence of sections separated by a
// single blank line. Each section holds "key: value" pairs, one per logical
// line. Logical lines longer than LineLength characters are folded onto
// continuation lines, each starting with a single space:
//
//	Manifest-Version: 1.0
//	Class-Path: lib/commons-lang3.jar lib/commons-io.jar lib/guava.jar lib
//	 /slf4j-api.jar
//
//	Name: com/example/Main.class
//	SHA-256-Digest: 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e730433
//	 62938b9824
//
// # Basic Usage
//
// Decoding with the default value codec (values stay strings):
//
//	m, err := manifest.DecodeString("Manifest-Version: 1.0\r\n")
//	version, _ := m.Main().Get("Manifest-Version")
//
// Decoding into a typed manifest:
//
//	m, err := manifest.Decode(r, manifest.StringDecoder)
//	// m is a manifest.Manifest[string]
//
// Encoding:
//
//	err := manifest.Encode(w, m, manifest.StringEncoder)
//
// # Value Codecs
//
// Values pass through a ValueDecoder on the way in and a ValueEncoder on the
// way out. A decoder must accept every raw string. An encoder may refuse a
// value it cannot represent; the refusal surfaces as an *EncodingError.
// BoolDecoder and BoolEncoder map the literals "true" and "false" to Go
// booleans and leave every other value as a string.
//
// # Format
//
// Input lines may end in CRLF or a bare LF. Output always uses CRLF, wraps at
// LineLength characters (Unicode code points, never splitting a rune) and
// writes one blank line between sections. Blank lines before the first
// section, after the last one, or repeated between sections never produce
// empty sections.
//
// Structural errors (*FormatError, *ContinuationError, *DuplicateKeyError)
// all match ErrMalformed with errors.Is.
package manifest
