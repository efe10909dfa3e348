package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
)

// KongLoader is a kong.ConfigurationLoader reading YAML, JSON or CUE data.
//
// A flag is looked up first under its command's name, then at the top level,
// with dashes in the flag name replaced by underscores:
//
//	codec: bool
//	serve:
//	  listen: 127.0.0.1:9090
//	  max_body_size: 1048576
func KongLoader(r io.Reader) (kong.Resolver, error) {
	val, err := LoadValueFromReader(r)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if err := val.Decode(&values); err != nil {
		return nil, fmt.Errorf("config: failed to decode config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		name := strings.ReplaceAll(flag.Name, "-", "_")

		if parent != nil && parent.Command != nil {
			if scoped, ok := values[parent.Command.Name].(map[string]any); ok {
				if raw, ok := scoped[name]; ok {
					return raw, nil
				}
			}
		}

		if raw, ok := values[name]; ok {
			return raw, nil
		}
		return nil, nil
	}
	return f, nil
}
