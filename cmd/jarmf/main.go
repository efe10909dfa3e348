package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/epithet-ssh/jarmf/pkg/config"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
	"github.com/lmittmann/tint"
)

const defaultConfigPath = "~/.config/jarmf/config.yaml"

// Globals are flags shared by every command.
type Globals struct {
	Verbose       int             `help:"Log verbosity (-v info, -vv debug)" short:"v" type:"counter"`
	Config        kong.ConfigFlag `help:"Path to config file (YAML, JSON or CUE)" placeholder:"PATH"`
	Codec         string          `help:"Value codec: text keeps strings, bool maps true/false to booleans" enum:"text,bool" default:"text"`
	MaxLineLength int             `help:"Maximum logical line length when decoding" default:"1048576"`
	Region        string          `help:"AWS region for s3:// inputs" env:"AWS_REGION"`
	Insecure      bool            `help:"Allow http:// inputs and skip TLS verification"`
	TLSCACert     string          `help:"PEM file of CA certificates trusted for https:// inputs" name:"tls-ca-cert" placeholder:"PATH"`
}

// CLI is the jarmf command tree.
type CLI struct {
	Globals

	Decode DecodeCLI `cmd:"" help:"Decode a manifest, jar or s3:// object and print it"`
	Encode EncodeCLI `cmd:"" help:"Encode JSON or YAML as manifest text"`
	Get    GetCLI    `cmd:"" help:"Print one attribute value"`
	Render RenderCLI `cmd:"" help:"Render a manifest through a mustache template"`
	Fmt    FmtCLI    `cmd:"" help:"Rewrite a manifest in canonical form"`
	Serve  ServeCLI  `cmd:"" help:"Serve the manifest HTTP API"`
}

// IO carries the standard streams into commands.
type IO struct {
	In  io.Reader
	Out io.Writer
}

func (g *Globals) decoder() manifest.ValueDecoder[any] {
	if g.Codec == "bool" {
		return manifest.BoolDecoder
	}
	return manifest.TextDecoder
}

func (g *Globals) encoder() manifest.ValueEncoder[any] {
	if g.Codec == "bool" {
		return manifest.BoolEncoder
	}
	return manifest.TextEncoder
}

func (g *Globals) options() []manifest.Option {
	if g.MaxLineLength > 0 {
		return []manifest.Option{manifest.MaxLogicalLineLength(g.MaxLineLength)}
	}
	return nil
}

func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

func run(args []string, stdio *IO, stderr io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("jarmf"),
		kong.Description("Read, write and inspect JAR manifests."),
		kong.UsageOnError(),
		kong.Configuration(config.KongLoader, defaultConfigPath),
		kong.Writers(stdio.Out, stderr),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	logger.Debug("command", "name", ctx.Command())

	return ctx.Run(logger, &cli.Globals, stdio)
}

func main() {
	if err := run(os.Args[1:], &IO{In: os.Stdin, Out: os.Stdout}, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
