package segment

import (
	"gopkg.in/yaml.v3"
)

// Record returns a nested map/slice form of the tree suitable for JSON
// encoding: a leaf becomes {type: raw}, a composite {type: [children...]}.
// With codeOnly set, whitespace and comments are left out.
func (s *Segment) Record(codeOnly bool) map[string]any {
	if s.leaf {
		return map[string]any{s.Type(): s.raw}
	}
	children := make([]any, 0, len(s.children))
	for _, c := range s.children {
		if codeOnly && !c.code {
			continue
		}
		children = append(children, c.Record(codeOnly))
	}
	return map[string]any{s.Type(): children}
}

// YAMLNode renders the tree as an ordered YAML document node. Unlike Record
// it keeps the child order stable in the output.
func (s *Segment) YAMLNode(codeOnly bool) *yaml.Node {
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: s.Type()}
	var val *yaml.Node
	if s.leaf {
		val = &yaml.Node{Kind: yaml.ScalarNode, Value: s.raw, Style: yaml.SingleQuotedStyle}
	} else {
		val = &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range s.children {
			if codeOnly && !c.code {
				continue
			}
			val.Content = append(val.Content, c.YAMLNode(codeOnly))
		}
	}
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{key, val}}
}

// MarshalYAML implements yaml.Marshaler using the code-only tree.
func (s *Segment) MarshalYAML() (any, error) {
	return s.YAMLNode(true), nil
}
