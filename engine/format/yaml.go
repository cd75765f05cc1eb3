package format

import (
	"github.com/goccy/go-yaml"
)

type yamlAdapter struct{}

func (yamlAdapter) Parse(data []byte) (map[string]any, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, newMalformedError(err, YAML)
	}
	return tree, nil
}

func (yamlAdapter) Render(tree map[string]any) ([]byte, error) {
	return yaml.Marshal(tree)
}

// UpdateYAML re-renders a tree on top of an existing document, carrying over
// the original's comments for keys that still exist. YAML is the format users
// hand-edit, so a programmatic rewrite should not wipe their annotations.
func UpdateYAML(original []byte, tree map[string]any) ([]byte, error) {
	comments := yaml.CommentMap{}
	var previous map[string]any
	if err := yaml.UnmarshalWithOptions(original, &previous, yaml.CommentToMap(comments)); err != nil {
		return nil, newMalformedError(err, YAML)
	}
	return yaml.MarshalWithOptions(tree, yaml.WithComment(comments))
}
