package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes m as a YAML sequence of mappings in section and key order.
func WriteYAML(w io.Writer, m manifest.Manifest[any]) error {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, sect := range m {
		if sect == nil {
			continue
		}
		node := &yaml.Node{Kind: yaml.MappingNode}
		for key, value := range sect.All() {
			v, err := yamlScalar(value)
			if err != nil {
				return fmt.Errorf("format: key %q: %w", key, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
		}
		root.Content = append(root.Content, node)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func yamlScalar(value any) (*yaml.Node, error) {
	switch v := value.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case bool:
		s := "false"
		if v {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}

// ReadYAML parses a YAML sequence of mappings, keeping key order.
// Empty input yields an empty manifest.
func ReadYAML(r io.Reader) (manifest.Manifest[any], error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return manifest.Manifest[any]{}, nil
		}
		return nil, fmt.Errorf("format: reading YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("format: YAML manifest must be a sequence of mappings")
	}

	m := make(manifest.Manifest[any], 0, len(root.Content))
	for i, node := range root.Content {
		sect, err := readYAMLSection(node)
		if err != nil {
			return nil, fmt.Errorf("format: section %d: %w", i, err)
		}
		m = append(m, sect)
	}
	return m, nil
}

func readYAMLSection(node *yaml.Node) (*manifest.Section[any], error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping", node.Line)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("%w: line %d: empty section", ErrUnsupportedValue, node.Line)
	}

	sect := manifest.NewSection[any]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: key must be a scalar", k.Line)
		}

		value, err := yamlValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.Value, err)
		}
		if err := sect.Add(k.Value, value); err != nil {
			return nil, err
		}
	}
	return sect, nil
}

func yamlValue(node *yaml.Node) (any, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: line %d: nested value", ErrUnsupportedValue, node.Line)
	}
	switch node.ShortTag() {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!null":
		return nil, fmt.Errorf("%w: line %d: null", ErrUnsupportedValue, node.Line)
	}
	// Strings, numbers and timestamps keep their literal text.
	return node.Value, nil
}
