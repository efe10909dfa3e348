package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/epithet-ssh/jarmf/pkg/format"
)

// RenderCLI expands a mustache template against a manifest.
type RenderCLI struct {
	Template string `arg:"" help:"Mustache template file" type:"existingfile"`
	Path     string `arg:"" optional:"" help:"Manifest, archive or s3:// URL (default stdin)" default:"-"`
	Jar      bool   `help:"Treat input as a zip archive regardless of extension"`
}

func (c *RenderCLI) Run(logger *slog.Logger, g *Globals, stdio *IO) error {
	tmpl, err := os.ReadFile(c.Template)
	if err != nil {
		return err
	}

	m, err := loadManifest(context.Background(), logger, g, stdio, c.Path, c.Jar)
	if err != nil {
		return err
	}

	out, err := format.Render(string(tmpl), m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdio.Out, out)
	return err
}
