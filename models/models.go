package models

import "encoding/json"

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAgent  Role = "agent"
	RoleTool   Role = "tool"
)

// FinalPlanName tags the single terminal agent message whose content is the
// finalized marketing media plan.
const FinalPlanName = "FinalPlanOutput"

// ToolCall is one tool invocation requested by the agent.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSpec describes a research capability advertised to the model.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Message is one unit of dialogue. Messages are append-only; insertion order
// is the conversation timeline. ToolCalls is only meaningful when Role is
// RoleAgent, ToolCallID only when Role is RoleTool.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message carries a pending tool-call request.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// IsFinalPlan reports whether the message is the terminal plan output.
func (m Message) IsFinalPlan() bool { return m.Role == RoleAgent && m.Name == FinalPlanName }

// Human builds a human-authored message.
func Human(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// System builds the instruction preamble message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// AgentReply builds a plain conversational agent message.
func AgentReply(content string) Message {
	return Message{Role: RoleAgent, Content: content}
}

// ToolResult builds a tool-result message for one executed tool call.
func ToolResult(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, Name: name, ToolCallID: callID}
}
