package main

import (
	"context"
	"fmt"
	"log/slog"
)

// GetCLI prints a single attribute.
type GetCLI struct {
	Key     string `arg:"" help:"Attribute name"`
	Path    string `arg:"" optional:"" help:"Manifest, archive or s3:// URL (default stdin)" default:"-"`
	Section int    `help:"Section index; 0 is the main section" short:"s" default:"0"`
	Jar     bool   `help:"Treat input as a zip archive regardless of extension"`
}

func (c *GetCLI) Run(logger *slog.Logger, g *Globals, stdio *IO) error {
	m, err := loadManifest(context.Background(), logger, g, stdio, c.Path, c.Jar)
	if err != nil {
		return err
	}

	if c.Section < 0 || c.Section >= len(m) {
		return fmt.Errorf("section %d out of range (manifest has %d)", c.Section, len(m))
	}

	value, ok := m[c.Section].Get(c.Key)
	if !ok {
		return fmt.Errorf("key %q not found in section %d", c.Key, c.Section)
	}

	_, err = fmt.Fprintln(stdio.Out, value)
	return err
}
