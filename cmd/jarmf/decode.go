package main

import (
	"context"
	"log/slog"

	"github.com/epithet-ssh/jarmf/pkg/format"
)

// DecodeCLI prints a manifest as JSON, YAML or manifest text.
type DecodeCLI struct {
	Path   string `arg:"" optional:"" help:"Manifest, archive or s3:// URL (default stdin)" default:"-"`
	Jar    bool   `help:"Treat input as a zip archive regardless of extension"`
	Output string `help:"Output format" short:"o" enum:"json,yaml,mf" default:"json"`
}

func (c *DecodeCLI) Run(logger *slog.Logger, g *Globals, stdio *IO) error {
	m, err := loadManifest(context.Background(), logger, g, stdio, c.Path, c.Jar)
	if err != nil {
		return err
	}
	logger.Info("decoded manifest", "path", c.Path, "sections", len(m))

	f, err := format.Parse(c.Output)
	if err != nil {
		return err
	}
	return format.Write(stdio.Out, f, m, g.encoder())
}
