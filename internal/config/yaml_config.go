package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetYAMLKey sets a dotted key such as "octane.proxy.https.port" in the YAML
// file at path. Missing parent mappings are created and existing comments
// are preserved. The file is created when it does not exist.
func SetYAMLKey(path, key, value string) error {
	data, err := os.ReadFile(path) // #nosec G304 - config file path from caller
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config.yaml: %w", err)
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config.yaml: %w", err)
		}
	}

	// Empty or comment-only files have no document mapping yet.
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config.yaml: top level is not a mapping")
	}

	if err := setPath(root.Content[0], strings.Split(key, "."), value); err != nil {
		return fmt.Errorf("config.yaml: %s: %w", key, err)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config.yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}
	return nil
}

func setPath(mapping *yaml.Node, parts []string, value string) error {
	name := parts[0]
	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != name {
			continue
		}
		child := mapping.Content[i+1]
		if len(parts) == 1 {
			mapping.Content[i+1] = scalar(value)
			return nil
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a mapping", name)
		}
		return setPath(child, parts[1:], value)
	}

	if len(parts) == 1 {
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, scalar(value))
		return nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, child)
	return setPath(child, parts[1:], value)
}

// scalar tags values as strings so ids like "1001" stay strings; the
// encoder quotes them where needed.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
