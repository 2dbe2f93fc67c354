// Package hclgraph is the HCL authoring front end. It decodes a graph
// definition file into the same schema the JSON wire format produces, so
// validation and building are shared downstream.
package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/quantforge/tickflow/internal/ctxlog"
	"github.com/quantforge/tickflow/internal/schema"
)

// graphFile represents the top-level structure of a graph definition file.
type graphFile struct {
	Root  string       `hcl:"root"`
	Nodes []*nodeBlock `hcl:"node,block"`
}

// nodeBlock represents a `node` block: operator type and node name as
// labels, wiring and operator options in the body.
type nodeBlock struct {
	Type   string     `hcl:"op_type,label"`
	Name   string     `hcl:"node_name,label"`
	Inputs []string   `hcl:"inputs,optional"`
	Init   *initBlock `hcl:"init,block"`
}

// initBlock carries free-form operator options; each attribute becomes an
// init entry.
type initBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// LoadFile parses and decodes a single HCL graph file.
func LoadFile(ctx context.Context, filePath string) (*schema.Graph, error) {
	logger := ctxlog.FromContextOrDefault(ctx)
	logger.Debug("Decoding graph file.", "path", filePath)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}
	return decode(ctx, file.Body, filePath)
}

// Load decodes a graph definition from an in-memory buffer.
func Load(ctx context.Context, src []byte, filename string) (*schema.Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %s", filename, diags.Error())
	}
	return decode(ctx, file.Body, filename)
}

func decode(ctx context.Context, body hcl.Body, filename string) (*schema.Graph, error) {
	var gf graphFile
	diags := gohcl.DecodeBody(body, nil, &gf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %s", filename, diags.Error())
	}

	graph := &schema.Graph{Root: gf.Root}
	for _, nb := range gf.Nodes {
		init, err := initAttributes(nb.Init)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nb.Name, err)
		}
		graph.Nodes = append(graph.Nodes, schema.Node{
			Name:     nb.Name,
			Type:     nb.Type,
			Init:     init,
			InputSrc: schema.InputList(nb.Inputs),
		})
	}
	ctxlog.FromContextOrDefault(ctx).Debug("Successfully decoded graph file.",
		"path", filename, "nodes_found", len(graph.Nodes))
	return graph, nil
}

func initAttributes(block *initBlock) (map[string]any, error) {
	if block == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("init block: %s", diags.Error())
	}
	init := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("init attribute %q: %s", name, diags.Error())
		}
		converted, err := goValue(val)
		if err != nil {
			return nil, fmt.Errorf("init attribute %q: %w", name, err)
		}
		init[name] = converted
	}
	return init, nil
}

// goValue converts a cty.Value to a plain Go value.
func goValue(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := goValue(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := goValue(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type: %s", val.Type().FriendlyName())
}
