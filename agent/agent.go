package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kapilnchauhan77/marketing-consultant-agent/internal/telemetry"
	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/provider"
)

// finalizeKeywords are the approval phrases that flip a turn from
// conversation to plan finalization. Matching is exact or prefix on the
// trimmed, lowercased last human message; users tend to append trailing
// clauses ("yes, that works") and the match must survive that.
var finalizeKeywords = []string{
	"looks good", "finalize it", "yes", "correct", "approve", "looks correct", "that's right",
}

// Agent is the turn controller. Given the full message history it produces
// exactly one new agent message: a conversational reply, a tool-call request,
// or the finalized plan.
type Agent struct {
	llm    provider.Provider
	tools  []models.ToolSpec
	logger *log.Logger
}

func New(llm provider.Provider, tools []models.ToolSpec) *Agent {
	return &Agent{
		llm:    llm,
		tools:  tools,
		logger: log.New(log.Writer(), "[AGENT] ", log.LstdFlags),
	}
}

// Step runs one agent node invocation. A finalize failure is recovered
// locally (non-terminal explanatory message); a continue-path model failure
// is returned as an error because the controller has no generic recovery
// path for it.
func (a *Agent) Step(ctx context.Context, history []models.Message) (models.Message, error) {
	messages := ensureSystemPrompt(history)

	if shouldFinalize(messages) {
		a.logger.Printf("user message suggests finalization, attempting structured output")
		return a.finalize(ctx, messages), nil
	}

	telemetry.ModelCalls.WithLabelValues("continue").Inc()
	reply, err := a.llm.Chat(ctx, messages, a.tools)
	if err != nil {
		return models.Message{}, fmt.Errorf("model call: %w", err)
	}
	return reply, nil
}

// finalize asks for structured output and wraps it as the terminal message.
// Any failure produces a plain reply asking the user to reconfirm; the
// finalize trigger can then fire again on the next approval.
func (a *Agent) finalize(ctx context.Context, messages []models.Message) models.Message {
	telemetry.ModelCalls.WithLabelValues("finalize").Inc()

	plan, err := a.llm.GeneratePlan(ctx, messages)
	if err != nil {
		telemetry.FinalizeAttempts.WithLabelValues("invalid").Inc()
		a.logger.Printf("finalize failed: %v", err)
		return models.AgentReply(fmt.Sprintf("Error finalizing plan structure: %v. Please confirm again.", err))
	}

	encoded, err := plan.Encode()
	if err != nil {
		telemetry.FinalizeAttempts.WithLabelValues("error").Inc()
		a.logger.Printf("plan encoding failed: %v", err)
		return models.AgentReply(fmt.Sprintf("Unexpected error producing the final plan: %v. Please try confirming again.", err))
	}

	telemetry.FinalizeAttempts.WithLabelValues("ok").Inc()
	msg := models.AgentReply(encoded)
	msg.Name = models.FinalPlanName
	return msg
}

// ensureSystemPrompt guarantees the instruction preamble is the first
// message. Idempotent: a history that already starts with it is returned
// unchanged.
func ensureSystemPrompt(messages []models.Message) []models.Message {
	if len(messages) > 0 && messages[0].Role == models.RoleSystem && messages[0].Content == SystemPrompt {
		return messages
	}
	out := make([]models.Message, 0, len(messages)+1)
	out = append(out, models.System(SystemPrompt))
	out = append(out, messages...)
	return out
}

// shouldFinalize reports whether the user just approved the draft plan:
// more than two messages, the last one human, the one before it a plain
// agent reply with no pending tool calls, and the human text matching an
// approval keyword exactly or as a prefix.
func shouldFinalize(messages []models.Message) bool {
	if len(messages) <= 2 {
		return false
	}
	last := messages[len(messages)-1]
	if last.Role != models.RoleHuman {
		return false
	}
	prev := messages[len(messages)-2]
	if prev.Role != models.RoleAgent || prev.HasToolCalls() {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(last.Content))
	for _, keyword := range finalizeKeywords {
		if text == keyword || strings.HasPrefix(text, keyword) {
			return true
		}
	}
	return false
}
