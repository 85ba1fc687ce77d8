// Package yml provides yaml.v3 node helpers shared by the config and
// workload file decoders.
package yml

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	Node  yaml.Node
	Nodes []*yaml.Node
)

// Parse unmarshals data and returns the root content node with environment
// expressions expanded, or nil for an empty document
func Parse(data []byte) (*Node, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	if len(document.Content) == 0 {
		return nil, nil
	}
	root := (*Node)(document.Content[0])
	root.ExpandEnv()
	return root, nil
}

// LookupValueNode returns the value paired with key in mapping content, matching keys case-insensitively
func (n Nodes) LookupValueNode(key string) *yaml.Node {
	for i := 0; i+1 < len(n); i += 2 {
		if strings.EqualFold(n[i].Value, key) {
			return n[i+1]
		}
	}
	return nil
}

// Lookup returns the value node for name in a mapping node
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	return (*Node)(Nodes(n.Content).LookupValueNode(name))
}

// Items iterates sequence elements
func (n *Node) Items(callback func(index int, node *Node) error) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("expected sequence, got %v", n.Tag)
	}
	for i, value := range n.Content {
		if err := callback(i, (*Node)(value)); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping key/value pairs
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// ExpandEnv replaces ${env.KEY} in every scalar.  An expanded plain scalar
// loses its tag so that it resolves again, e.g. to an int.
func (n *Node) ExpandEnv() {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode {
		if expanded := expandEnvExpr(n.Value); expanded != n.Value {
			n.Value = expanded
			if n.Style == 0 || n.Style == yaml.TaggedStyle {
				n.Tag = ""
			}
		}
		return
	}
	for _, child := range n.Content {
		(*Node)(child).ExpandEnv()
	}
}

// Decode decodes node into v
func (n *Node) Decode(v interface{}) error {
	return (*yaml.Node)(n).Decode(v)
}
