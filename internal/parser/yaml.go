package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"gopkg.in/yaml.v3"
)

type yamlParser struct{}

func (yamlParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// Parse reads a YAML sequence of flat mappings, one mapping per row.
func (yamlParser) Parse(_ string, content []byte, _ Options) (*data.Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(content)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return data.NewTable(), nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return data.NewTable(), nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse yaml: line %d: expected a sequence of mappings", root.Line)
	}
	var b rowBuilder
	for _, item := range root.Content {
		if item.Kind == yaml.AliasNode && item.Alias != nil {
			item = item.Alias
		}
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse yaml: line %d: expected a mapping", item.Line)
		}
		row := make(map[string]data.Value, len(item.Content)/2)
		keys := make([]string, 0, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			key := item.Content[i].Value
			v, err := data.FromYAML(item.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("parse yaml: key %q: %w", key, err)
			}
			if _, dup := row[key]; !dup {
				keys = append(keys, key)
			}
			row[key] = v
		}
		b.add(row, keys)
	}
	return b.table()
}
