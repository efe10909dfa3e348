// Package config loads jarmf configuration files. YAML, JSON and CUE are all
// evaluated through CUE, so any of the three may be used, and CUE packages
// may import one another.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
)

// LoadValueFromReader parses YAML (or JSON, which YAML accepts) from r.
func LoadValueFromReader(r io.Reader) (cue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return cue.Value{}, fmt.Errorf("config: reading: %w", err)
	}
	return buildData(cuecontext.New(), "", data, false)
}

// LoadValue evaluates the config at path. Directories and .cue files are
// loaded as CUE instances; anything else is treated as a data file, JSON by
// .json extension and YAML otherwise.
func LoadValue(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("config: %w", err)
	}

	ctx := cuecontext.New()
	if info.IsDir() || strings.EqualFold(filepath.Ext(path), ".cue") {
		return buildInstance(ctx, path, info.IsDir())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("config: %w", err)
	}
	return buildData(ctx, path, data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// LoadFromFile evaluates the config at path and decodes it into T. Field
// names follow T's json tags.
//
//	cfg, err := LoadFromFile[mfserver.Config]("server.yaml")
func LoadFromFile[T any](path string) (*T, error) {
	val, err := LoadValue(path)
	if err != nil {
		return nil, err
	}

	var out T
	if err := val.Decode(&out); err != nil {
		return nil, fmt.Errorf("config: failed to decode config %s: %w", path, err)
	}
	return &out, nil
}

func buildData(ctx *cue.Context, name string, data []byte, isJSON bool) (cue.Value, error) {
	var val cue.Value
	if isJSON {
		val = ctx.CompileBytes(data, cue.Filename(name))
	} else {
		file, err := yaml.Extract(name, data)
		if err != nil {
			return cue.Value{}, fmt.Errorf("config: parsing %s: %w", displayName(name), err)
		}
		val = ctx.BuildFile(file)
	}

	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config: evaluating %s: %w", displayName(name), err)
	}
	return val, nil
}

func buildInstance(ctx *cue.Context, path string, isDir bool) (cue.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("config: %w", err)
	}

	dir, arg := filepath.Dir(abs), abs
	if isDir {
		dir, arg = abs, "."
	}

	instances := load.Instances([]string{arg}, &load.Config{Dir: dir, DataFiles: true})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("config: no CUE instances in %s", path)
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, fmt.Errorf("config: loading %s: %w", path, err)
	}

	val := ctx.BuildInstance(instances[0])
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config: evaluating %s: %w", path, err)
	}
	return val, nil
}

func displayName(name string) string {
	if name == "" {
		return "config"
	}
	return name
}
