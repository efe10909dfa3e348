package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/epithet-ssh/jarmf/pkg/jar"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// FmtCLI decodes a manifest and re-encodes it canonically: CRLF line
// endings, 70-character lines and a single blank line between sections.
type FmtCLI struct {
	Path  string `arg:"" optional:"" help:"Manifest file (default stdin)" default:"-"`
	Write bool   `help:"Write the result back to the file instead of stdout" short:"w"`
}

func (c *FmtCLI) Run(logger *slog.Logger, g *Globals, stdio *IO) error {
	if c.Write {
		switch {
		case c.Path == "" || c.Path == "-":
			return errors.New("--write needs a file path")
		case jar.IsS3URL(c.Path), jar.IsHTTPURL(c.Path):
			return fmt.Errorf("--write cannot rewrite remote input %s", c.Path)
		case jar.IsArchivePath(c.Path):
			return fmt.Errorf("--write cannot rewrite archive %s; only plain manifest files", c.Path)
		}
	}

	m, err := loadManifest(context.Background(), logger, g, stdio, c.Path, false)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := manifest.Encode(&out, m, g.encoder()); err != nil {
		return err
	}

	if !c.Write {
		_, err := stdio.Out.Write(out.Bytes())
		return err
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return err
	}
	logger.Info("rewriting manifest", "path", c.Path, "sections", len(m))
	return os.WriteFile(c.Path, out.Bytes(), info.Mode().Perm())
}
