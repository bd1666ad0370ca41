package schema

import (
	"bytes"
	"sort"

	"github.com/aretw0/fsm/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Encode renders a Config as a YAML definition, keeping the declared state order.
// Events are written in lexical order; extra fields follow the transitions.
func Encode(cfg *domain.Config) ([]byte, error) {
	states := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range cfg.StateNames() {
		body, err := encodeState(cfg.States[name])
		if err != nil {
			return nil, err
		}
		states.Content = append(states.Content, scalar(name), body)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		scalar(keyInitial), scalar(cfg.Initial),
		scalar(keyStates), states,
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeState(def domain.StateDefinition) (*yaml.Node, error) {
	transitions := &yaml.Node{Kind: yaml.MappingNode}
	for _, event := range sortedKeys(def.Transitions) {
		transitions.Content = append(transitions.Content, scalar(event), scalar(def.Transitions[event]))
	}

	body := &yaml.Node{Kind: yaml.MappingNode}
	body.Content = append(body.Content, scalar("transitions"), transitions)

	extraKeys := make([]string, 0, len(def.Extra))
	for k := range def.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		var value yaml.Node
		if err := value.Encode(def.Extra[k]); err != nil {
			return nil, err
		}
		body.Content = append(body.Content, scalar(k), &value)
	}
	return body, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
