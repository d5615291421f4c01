package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

// Tool is one research capability the model may invoke mid-conversation.
// Exec never returns an error: every failure is folded into the result JSON
// as a status=error envelope so the model can narrate it to the user.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Exec(ctx context.Context, arguments string) string
}

// JSON marshals a tool result. Result structs are flat and always
// marshalable; the fallback covers the impossible case anyway.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","error":%q}`, err.Error())
	}
	return string(b)
}

// Registry holds the research tools in registration order.
type Registry struct {
	order  []string
	byName map[string]Tool
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool)}
	for _, t := range ts {
		if _, ok := r.byName[t.Name()]; ok {
			continue
		}
		r.order = append(r.order, t.Name())
		r.byName[t.Name()] = t
	}
	return r
}

// Specs returns the tool catalogue advertised to the model.
func (r *Registry) Specs() []models.ToolSpec {
	out := make([]models.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		out = append(out, models.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return out
}

// Exec runs one requested tool call and wraps the outcome as a tool-result
// message. An unknown tool name is an error envelope, not a crash.
func (r *Registry) Exec(ctx context.Context, call models.ToolCall) models.Message {
	t, ok := r.byName[call.Name]
	if !ok {
		content := JSON(map[string]string{
			"status": "error",
			"error":  fmt.Sprintf("unknown tool: %s", call.Name),
		})
		return models.ToolResult(call.ID, call.Name, content)
	}
	return models.ToolResult(call.ID, call.Name, t.Exec(ctx, call.Arguments))
}
