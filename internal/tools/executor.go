// In file: internal/tools/executor.go
package tools

import "context"

// ToolExecutor is implemented by every capability registered with the ToolManager.
type ToolExecutor interface {
	// Definition returns the schema advertised to the model.
	Definition() Tool

	// Execute runs the tool with the JSON arguments produced by the model and
	// returns the text that is fed back into the conversation.
	Execute(ctx context.Context, arguments string) (string, error)
}
