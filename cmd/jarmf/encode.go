package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/epithet-ssh/jarmf/pkg/format"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// EncodeCLI reads JSON or YAML and writes manifest text.
type EncodeCLI struct {
	Path  string `arg:"" optional:"" help:"JSON or YAML file (default stdin)" default:"-"`
	Input string `help:"Input format; guessed from the file extension when empty" short:"i"`
}

func (c *EncodeCLI) inputFormat() (format.Format, error) {
	if c.Input != "" {
		f, err := format.Parse(c.Input)
		if err != nil {
			return "", err
		}
		if f == format.Manifest {
			return "", fmt.Errorf("input must be json or yaml, got %q", c.Input)
		}
		return f, nil
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".yaml", ".yml":
		return format.YAML, nil
	}
	return format.JSON, nil
}

func (c *EncodeCLI) Run(logger *slog.Logger, g *Globals, stdio *IO) error {
	f, err := c.inputFormat()
	if err != nil {
		return err
	}

	in, err := openInput(c.Path, stdio)
	if err != nil {
		return err
	}
	defer in.Close()

	logger.Debug("reading input", "path", c.Path, "format", f)

	m, err := format.Read(in, f, g.decoder())
	if err != nil {
		return err
	}
	return manifest.Encode(stdio.Out, m, g.encoder())
}
