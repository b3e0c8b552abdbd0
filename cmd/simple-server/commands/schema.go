package commands

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type argumentInfo struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

type toolInfo struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Arguments   []argumentInfo `json:"arguments" yaml:"arguments"`
}

// inputSchema decodes the input schema of a tool as received by a client.
func inputSchema(tool *mcp.Tool) (*jsonschema.Schema, error) {
	if tool.InputSchema == nil {
		return &jsonschema.Schema{}, nil
	}

	buf, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, err
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(buf, &schema); err != nil {
		return nil, fmt.Errorf("decoding input schema of %s: %w", tool.Name, err)
	}
	return &schema, nil
}

// schemaTypes lists the JSON types a property accepts, without "null".
func schemaTypes(schema *jsonschema.Schema) []string {
	types := schema.Types
	if schema.Type != "" {
		types = []string{schema.Type}
	}

	var nonNull []string
	for _, t := range types {
		if t != "null" {
			nonNull = append(nonNull, t)
		}
	}
	return nonNull
}

func describeTool(tool *mcp.Tool) (toolInfo, error) {
	schema, err := inputSchema(tool)
	if err != nil {
		return toolInfo{}, err
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	arguments := []argumentInfo{}
	for _, name := range names {
		prop := schema.Properties[name]
		arguments = append(arguments, argumentInfo{
			Name:        name,
			Type:        strings.Join(schemaTypes(prop), "|"),
			Description: prop.Description,
			Required:    slices.Contains(schema.Required, name),
		})
	}

	return toolInfo{
		Name:        tool.Name,
		Description: tool.Description,
		Arguments:   arguments,
	}, nil
}

// parseArguments turns key=value pairs into tool arguments. Values of string
// properties are taken verbatim, others are decoded as JSON when possible.
func parseArguments(schema *jsonschema.Schema, pairs []string) (map[string]any, error) {
	args := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", pair)
		}

		if prop := schema.Properties[key]; prop != nil && slices.Contains(schemaTypes(prop), "string") {
			args[key] = value
			continue
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}
		args[key] = decoded
	}
	return args, nil
}
