package source

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/memsched/internal/yml"
	"github.com/viant/memsched/model/workload"
	"gopkg.in/yaml.v3"
)

// Loader reads workload definitions from any afs supported location
type Loader struct {
	fs afs.Service
}

// NewLoader creates a loader; a nil fs defaults to afs.New()
func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Load downloads URL and decodes a JSON or YAML list of definitions, either
// top level or under a workloads key
func (l *Loader) Load(ctx context.Context, URL string) ([]*workload.Definition, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load workloads %v: %w", URL, err)
	}
	definitions, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", URL, err)
	}
	return definitions, nil
}

// Load reads definitions from URL with the default file system
func Load(ctx context.Context, URL string) ([]*workload.Definition, error) {
	return NewLoader(nil).Load(ctx, URL)
}

// Decode decodes JSON or YAML workload definitions.  ${env.KEY} expressions
// are expanded before decoding.
func Decode(data []byte) ([]*workload.Definition, error) {
	root, err := yml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDefinition, err)
	}
	if root == nil {
		return nil, nil
	}
	if root.Kind == yaml.MappingNode {
		if root = root.Lookup("workloads"); root == nil {
			return nil, fmt.Errorf("%w: missing workloads", ErrMalformedDefinition)
		}
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a list of workloads", ErrMalformedDefinition)
	}
	var definitions []*workload.Definition
	err = root.Items(func(index int, node *yml.Node) error {
		if err := checkFields(node); err != nil {
			return fmt.Errorf("%w: workload[%d]: %v", ErrMalformedDefinition, index, err)
		}
		definition := &workload.Definition{}
		if err := node.Decode(definition); err != nil {
			return fmt.Errorf("%w: workload[%d]: %v", ErrMalformedDefinition, index, err)
		}
		if err := definition.Validate(); err != nil {
			return fmt.Errorf("%w: workload[%d]: %v", ErrMalformedDefinition, index, err)
		}
		definitions = append(definitions, definition)
		return nil
	})
	return definitions, err
}

// checkFields requires memory and duration on a definition entry and rejects
// keys that would otherwise be silently ignored
func checkFields(node *yml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping")
	}
	seen := map[string]bool{}
	err := node.Pairs(func(key string, _ *yml.Node) error {
		switch key {
		case keyIdentifier, keyName, keyMemory, keyDuration:
			seen[key] = true
			return nil
		}
		return fmt.Errorf("unknown key %q", key)
	})
	if err != nil {
		return err
	}
	for _, key := range []string{keyMemory, keyDuration} {
		if !seen[key] {
			return fmt.Errorf("missing %v", key)
		}
	}
	return nil
}
