package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/epithet-ssh/jarmf/pkg/jar"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// openInput opens path for reading; "" and "-" mean standard input.
func openInput(path string, stdio *IO) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdio.In), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// loadManifest decodes a manifest from a file, an archive, an s3:// or
// https:// URL, or standard input. asJar forces archive handling.
func loadManifest(ctx context.Context, logger *slog.Logger, g *Globals, stdio *IO, path string, asJar bool) (manifest.Manifest[any], error) {
	switch {
	case jar.IsS3URL(path):
		client, err := jar.NewS3Client(ctx, g.Region)
		if err != nil {
			return nil, fmt.Errorf("unable to create s3 client: %w", err)
		}
		src := jar.NewS3Source(jar.S3SourceConfig{Client: client, Logger: logger})
		return jar.DecodeS3(ctx, src, path, g.decoder(), g.options()...)

	case jar.IsHTTPURL(path):
		src, err := jar.NewHTTPSource(jar.HTTPSourceConfig{
			Insecure:   g.Insecure,
			CACertFile: g.TLSCACert,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return jar.DecodeHTTP(ctx, src, path, g.decoder(), g.options()...)

	case path != "" && path != "-" && (asJar || jar.IsArchivePath(path)):
		logger.Debug("reading archive", "path", path)
		return jar.DecodeFile(path, g.decoder(), g.options()...)
	}

	in, err := openInput(path, stdio)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	if asJar {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		return jar.DecodeBytes(data, g.decoder(), g.options()...)
	}

	logger.Debug("reading manifest", "path", path)
	return manifest.Decode(in, g.decoder(), g.options()...)
}
