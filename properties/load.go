package properties

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mprops "github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Load reads the Java properties format (comments, "=", ":" or whitespace
// separators, line continuations, escapes) through magiconair/properties.
// Keys keep file order; a repeated key keeps its first position and the last
// value. ${...} references are left unexpanded.
func Load(r io.Reader) (*Properties, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	l := &mprops.Loader{Encoding: mprops.UTF8, DisableExpansion: true}
	src, err := l.LoadBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	p := New()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		p.Set(k, v)
	}
	return p, nil
}

// LoadYAML reads a YAML mapping. Nested mappings are flattened with "."
// (store: {id: a} => store.id=a), sequences become comma-joined lists and
// null values are skipped.
func LoadYAML(r io.Reader) (*Properties, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("properties: yaml: %w", err)
	}
	p := New()
	if err := flatten(p, "", &doc); err != nil {
		return nil, err
	}
	return p, nil
}

func flatten(p *Properties, prefix string, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := flatten(p, prefix, c); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := flatten(p, key, n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		tokens := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("properties: yaml: %s: list items must be scalars (line %d)", prefix, c.Line)
			}
			tokens = append(tokens, c.Value)
		}
		p.SetList(prefix, tokens...)
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("properties: yaml: top level must be a mapping (line %d)", n.Line)
		}
		if n.Tag == "!!null" {
			return nil
		}
		p.Set(prefix, n.Value)
	case yaml.AliasNode:
		return flatten(p, prefix, n.Alias)
	}
	return nil
}

// LoadFile picks the YAML reader for .yaml/.yml files and the properties
// reader otherwise.
func LoadFile(path string) (*Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return Load(f)
	}
}

// LoadFiles merges the files in order: later files override earlier ones.
func LoadFiles(paths ...string) (*Properties, error) {
	p := New()
	for _, path := range paths {
		next, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		p.Merge(next)
	}
	return p, nil
}
