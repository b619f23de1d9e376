package operation

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/aisensy-mcp/pkg/mcpserver"
)

// Tool exposes op as a registry tool. The tool result carries the Result
// envelope; isError mirrors success == false.
func Tool(op Operation, runner *Runner) mcpserver.ToolHandler {
	return &tool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        op.Name,
			ToolDescription: op.Description,
			ToolSchema:      Schema(op),
			Category:        op.Category,
			Tags:            op.Tags,
		},
		op:     op,
		runner: runner,
	}
}

type tool struct {
	mcpserver.BaseTool
	op     Operation
	runner *Runner
}

func (t *tool) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	res := t.runner.Run(ctx, t.op, args)
	return mcpserver.JSONResult(res, !res.OK()), nil
}

// Register validates every operation and registers it on s.
func Register(s *mcpserver.Server, runner *Runner, ops []Operation) error {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
		if err := s.RegisterTool(Tool(op, runner)); err != nil {
			return fmt.Errorf("register %s: %w", op.Name, err)
		}
	}
	return nil
}

// Schema builds the JSON Schema of op's arguments.
func Schema(op Operation) map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range op.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Type == Array && p.Items != "" {
			prop["items"] = map[string]any{"type": string(p.Items)}
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
