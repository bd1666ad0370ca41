package schema

import (
	"fmt"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	keyInitial = "initial"
	keyStates  = "states"
)

// Parse decodes a YAML or JSON definition into a Config.
// All shape problems are reported at once as an *AggregateError.
func Parse(data []byte) (*domain.Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidConfig)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &AggregateError{Errors: []error{
			&ValidationError{Key: "", Reason: "document must be a mapping", Line: root.Line},
		}}
	}

	cfg := &domain.Config{States: make(map[string]domain.StateDefinition)}
	var errs []error

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case keyInitial:
			if value.Kind != yaml.ScalarNode {
				errs = append(errs, &ValidationError{Key: keyInitial, Reason: "must be a string", Line: value.Line})
				continue
			}
			cfg.Initial = value.Value
		case keyStates:
			errs = append(errs, parseStates(cfg, value)...)
		}
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return cfg, nil
}

func parseStates(cfg *domain.Config, node *yaml.Node) []error {
	if node.Kind != yaml.MappingNode {
		return []error{&ValidationError{Key: keyStates, Reason: "must be a mapping of state names", Line: node.Line}}
	}

	var errs []error
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value
		path := keyStates + "." + name

		if _, dup := cfg.States[name]; dup {
			errs = append(errs, &ValidationError{Key: path, Reason: "state declared twice", Line: key.Line})
			continue
		}

		def, err := decodeState(value)
		if err != nil {
			errs = append(errs, &ValidationError{Key: path, Reason: err.Error(), Line: value.Line})
			continue
		}
		cfg.States[name] = def
		cfg.Order = append(cfg.Order, name)
	}
	return errs
}

// decodeState turns a state body into a StateDefinition.
// A null body is a state without transitions.
func decodeState(node *yaml.Node) (domain.StateDefinition, error) {
	var def domain.StateDefinition
	if node.Tag == "!!null" {
		return def, nil
	}
	if node.Kind != yaml.MappingNode {
		return def, fmt.Errorf("must be a mapping")
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return def, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &def,
		TagName: "mapstructure",
	})
	if err != nil {
		return def, err
	}
	if err := decoder.Decode(raw); err != nil {
		return def, err
	}
	if len(def.Extra) == 0 {
		def.Extra = nil
	}
	return def, nil
}
