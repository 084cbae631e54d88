package contract

import (
	"gopkg.in/yaml.v3"
)

// Node kinds as reported to users. They follow JSON Schema type names.
const (
	KindObject  = "object"
	KindArray   = "array"
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
	KindNull    = "null"
)

// Resolve unwraps document and alias nodes.
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// FindNode returns the value stored under key in a mapping node, or nil.
// With duplicate keys the first occurrence wins.
func FindNode(root *yaml.Node, key string) *yaml.Node {
	root = Resolve(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return Resolve(root.Content[i+1])
		}
	}
	return nil
}

// FindPath walks nested mappings.
func FindPath(root *yaml.Node, keys ...string) *yaml.Node {
	n := root
	for _, k := range keys {
		n = FindNode(n, k)
		if n == nil {
			return nil
		}
	}
	return Resolve(n)
}

// KeyValue is one entry of a mapping node.
type KeyValue struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// Pairs returns the entries of a mapping node in document order, skipping
// repeated keys.
func Pairs(n *yaml.Node) []KeyValue {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	seen := make(map[string]bool, len(n.Content)/2)
	out := make([]KeyValue, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if seen[k.Value] {
			continue
		}
		seen[k.Value] = true
		out = append(out, KeyValue{Key: k, Value: Resolve(n.Content[i+1])})
	}
	return out
}

// Items returns the elements of a sequence node.
func Items(n *yaml.Node) []*yaml.Node {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		out[i] = Resolve(c)
	}
	return out
}

// Kind classifies a node using JSON Schema type names.
func Kind(n *yaml.Node) string {
	n = Resolve(n)
	if n == nil {
		return KindNull
	}
	switch n.Kind {
	case yaml.MappingNode:
		return KindObject
	case yaml.SequenceNode:
		return KindArray
	}
	switch n.ShortTag() {
	case "!!int":
		return KindInteger
	case "!!float":
		return KindNumber
	case "!!bool":
		return KindBoolean
	case "!!null":
		return KindNull
	default:
		return KindString
	}
}

// IsNumeric reports whether n is an integer or a number.
func IsNumeric(n *yaml.Node) bool {
	k := Kind(n)
	return k == KindInteger || k == KindNumber
}

// Scalar returns the text of a scalar node. Non-scalars and nulls report false.
func Scalar(n *yaml.Node) (string, bool) {
	n = Resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return "", false
	}
	return n.Value, true
}

// String returns the scalar text of n, or "".
func String(n *yaml.Node) string {
	s, _ := Scalar(n)
	return s
}

// Line returns the 1-based source line of n, or 0.
func Line(n *yaml.Node) int {
	if n == nil {
		return 0
	}
	return n.Line
}
