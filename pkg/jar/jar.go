// Package jar locates and decodes the manifest inside a Java archive.
package jar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ManifestPath is where a jar keeps its manifest.
const ManifestPath = "META-INF/MANIFEST.MF"

// ErrEntryNotFound indicates the archive has no manifest entry.
var ErrEntryNotFound = errors.New("jar: entry not found")

// EntryNotFoundError names the entry that was missing.
type EntryNotFoundError struct {
	Name string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("jar: archive has no %s entry", e.Name)
}

func (e *EntryNotFoundError) Unwrap() error {
	return ErrEntryNotFound
}

type readCloser struct {
	io.Reader
	io.Closer
}

// OpenManifest opens the manifest entry of zr as UTF-8 text. Reads fail on
// invalid UTF-8; a leading byte order mark is dropped.
//
// The exact name is preferred; otherwise the first entry matching
// ManifestPath case-insensitively is used.
func OpenManifest(zr *zip.Reader) (io.ReadCloser, error) {
	var found *zip.File
	for _, file := range zr.File {
		if file.Name == ManifestPath {
			found = file
			break
		}
		if found == nil && strings.EqualFold(file.Name, ManifestPath) {
			found = file
		}
	}
	if found == nil {
		return nil, &EntryNotFoundError{Name: ManifestPath}
	}

	rc, err := found.Open()
	if err != nil {
		return nil, fmt.Errorf("jar: opening %s: %w", found.Name, err)
	}

	text := transform.NewReader(rc, transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()))
	return readCloser{Reader: text, Closer: rc}, nil
}

// DecodeArchive decodes the manifest of an opened archive.
func DecodeArchive[V any](zr *zip.Reader, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	rc, err := OpenManifest(zr)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return manifest.Decode(rc, decodeValue, opts...)
}

// Decode reads the archive held in r and decodes its manifest.
func Decode[V any](r io.ReaderAt, size int64, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("jar: reading archive: %w", err)
	}
	return DecodeArchive(zr, decodeValue, opts...)
}

// DecodeBytes decodes the manifest of an in-memory archive.
func DecodeBytes[V any](data []byte, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	return Decode(bytes.NewReader(data), int64(len(data)), decodeValue, opts...)
}

// DecodeFile opens the archive at path and decodes its manifest.
func DecodeFile[V any](path string, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("jar: opening %s: %w", path, err)
	}
	defer zr.Close()

	return DecodeArchive(&zr.Reader, decodeValue, opts...)
}

// IsArchivePath reports whether name ends in a zip-based Java archive
// extension.
func IsArchivePath(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jar", ".war", ".ear", ".zip":
		return true
	}
	return false
}
