package format

import (
	"fmt"

	"github.com/cbroglie/mustache"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// Render expands a mustache template against m. Output is not HTML escaped.
//
// The template context is:
//
//	main      attributes of the main section, by name
//	sections  each section after the main one, with attrs (by name) and
//	          entries (a list of key/value pairs in order)
//	count     number of sections after the main one
//
// For example {{main.Implementation-Version}} or
// {{#sections}}{{attrs.Name}}{{/sections}}.
func Render(tmpl string, m manifest.Manifest[any]) (string, error) {
	t, err := mustache.ParseStringRaw(tmpl, true)
	if err != nil {
		return "", fmt.Errorf("format: parsing template: %w", err)
	}

	out, err := t.Render(renderContext(m))
	if err != nil {
		return "", fmt.Errorf("format: rendering template: %w", err)
	}
	return out, nil
}

func renderContext(m manifest.Manifest[any]) map[string]any {
	main := map[string]any{}
	if sect := m.Main(); sect != nil {
		main = attrs(sect)
	}

	sections := []map[string]any{}
	if len(m) > 1 {
		for _, sect := range m[1:] {
			if sect == nil {
				continue
			}
			entries := make([]map[string]any, 0, sect.Len())
			for key, value := range sect.All() {
				entries = append(entries, map[string]any{"key": key, "value": value})
			}
			sections = append(sections, map[string]any{
				"attrs":   attrs(sect),
				"entries": entries,
			})
		}
	}

	return map[string]any{
		"main":     main,
		"sections": sections,
		"count":    len(sections),
	}
}

func attrs(sect *manifest.Section[any]) map[string]any {
	out := make(map[string]any, sect.Len())
	for key, value := range sect.All() {
		out[key] = value
	}
	return out
}
