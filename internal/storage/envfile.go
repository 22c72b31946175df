package storage

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vedsharma/resterx/internal/model"
)

type environmentDoc struct {
	Name      string    `yaml:"name"`
	Variables yaml.Node `yaml:"variables"`
}

// ParseEnvironmentYAML reads one environment or a list of environments.
// Variables may be given as a list of key/value pairs or as a mapping, in
// which case document order is kept.
//
//	name: staging
//	variables:
//	  base: https://staging.example.com
//	  token: abc123
func ParseEnvironmentYAML(data []byte) ([]model.Environment, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &model.FormatError{Reason: "not valid YAML", Err: err}
	}
	if len(root.Content) == 0 {
		return nil, &model.FormatError{Reason: "empty document"}
	}

	doc := root.Content[0]
	var nodes []*yaml.Node
	switch doc.Kind {
	case yaml.SequenceNode:
		nodes = doc.Content
	case yaml.MappingNode:
		nodes = []*yaml.Node{doc}
	default:
		return nil, &model.FormatError{Reason: "expected an environment or a list of environments"}
	}

	envs := make([]model.Environment, 0, len(nodes))
	for i, node := range nodes {
		var d environmentDoc
		if err := node.Decode(&d); err != nil {
			return nil, &model.FormatError{Reason: fmt.Sprintf("environment %d", i+1), Err: err}
		}
		if d.Name == "" {
			return nil, &model.FormatError{Reason: fmt.Sprintf("environment %d has no name", i+1)}
		}
		variables, err := decodeVariables(&d.Variables)
		if err != nil {
			return nil, &model.FormatError{Reason: fmt.Sprintf("environment %q", d.Name), Err: err}
		}
		envs = append(envs, model.Environment{Name: d.Name, Variables: variables})
	}
	return envs, nil
}

func decodeVariables(n *yaml.Node) ([]model.KeyValue, error) {
	switch n.Kind {
	case 0:
		return []model.KeyValue{}, nil
	case yaml.SequenceNode:
		vars := []model.KeyValue{}
		if err := n.Decode(&vars); err != nil {
			return nil, err
		}
		return vars, nil
	case yaml.MappingNode:
		vars := make([]model.KeyValue, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: value of %q must be a scalar", value.Line, key.Value)
			}
			vars = append(vars, model.KeyValue{Key: key.Value, Value: value.Value})
		}
		return vars, nil
	default:
		return nil, fmt.Errorf("line %d: variables must be a list or a mapping", n.Line)
	}
}
