package schema

import (
	"encoding/json"
	"fmt"
)

// Graph is the wire-format description of a flow graph: the root name and an
// ordered list of node descriptors. It exists only to construct a flow.Graph
// through the registry and is not retained afterward.
type Graph struct {
	Root  string `json:"root"`
	Nodes []Node `json:"nodes"`
}

// Node describes one computation node: its unique name, registered operator
// type, optional constructor options and input paths.
type Node struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Init     map[string]any `json:"init,omitempty"`
	InputSrc InputList      `json:"inputSrc,omitempty"`
}

// InputList is the node's ordered input paths. On the wire it may be a
// single string or an array of strings; an empty string or omitted field
// both mean "zero inputs, implicitly root-triggered".
type InputList []string

// UnmarshalJSON accepts both the scalar and array encodings.
func (l *InputList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = InputList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("inputSrc must be a string or an array of strings")
	}
	*l = InputList(many)
	return nil
}

// UnmarshalJSON decodes a node descriptor, accepting the historical field
// names updateSource and onDataSource as aliases for inputSrc. Marshalling
// always emits the canonical inputSrc.
func (n *Node) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name         string         `json:"name"`
		Type         string         `json:"type"`
		Init         map[string]any `json:"init"`
		InputSrc     *InputList     `json:"inputSrc"`
		UpdateSource *InputList     `json:"updateSource"`
		OnDataSource *InputList     `json:"onDataSource"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Name = aux.Name
	n.Type = aux.Type
	n.Init = aux.Init
	switch {
	case aux.InputSrc != nil:
		n.InputSrc = *aux.InputSrc
	case aux.UpdateSource != nil:
		n.InputSrc = *aux.UpdateSource
	case aux.OnDataSource != nil:
		n.InputSrc = *aux.OnDataSource
	default:
		n.InputSrc = nil
	}
	return nil
}

// Parse decodes a JSON graph description.
func Parse(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse graph schema: %w", err)
	}
	return &g, nil
}
