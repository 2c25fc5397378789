// In file: internal/tools/types.go

// Package tools holds the capabilities the chat agent may call while answering
// a message. Definitions are provider-agnostic and are translated into the
// Ollama or Gemini wire format by the llm package.
package tools

// ToolTypeFunction is the only tool type the agent exposes.
const ToolTypeFunction = "function"

// Tool is the description of a callable capability sent *to* the model.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function names a tool and describes its arguments.
type Function struct {
	Name string `json:"name"`
	// Description is what the model reads when deciding whether to call the tool.
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is the subset of JSON Schema used for tool parameters.
// Supported node types are "object", "string", "number", "integer" and "boolean".
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a request *from* the model to run a tool.
type ToolCall struct {
	// ID matches the tool result back to this call. Providers that don't
	// issue ids get one synthesized by the llm package.
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the tool name and its JSON-encoded arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewFunctionTool builds a Tool of type "function".
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
