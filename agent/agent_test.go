package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

// fakeProvider scripts the two model paths and records what it was asked.
type fakeProvider struct {
	chatReply models.Message
	chatErr   error
	plan      *models.MarketingMediaPlan
	planErr   error

	chatCalls     int
	planCalls     int
	seenMessages  []models.Message
	seenToolSpecs []models.ToolSpec
}

func (f *fakeProvider) Chat(_ context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error) {
	f.chatCalls++
	f.seenMessages = messages
	f.seenToolSpecs = tools
	return f.chatReply, f.chatErr
}

func (f *fakeProvider) GeneratePlan(_ context.Context, messages []models.Message) (*models.MarketingMediaPlan, error) {
	f.planCalls++
	f.seenMessages = messages
	return f.plan, f.planErr
}

func TestStepPrependsSystemPrompt(t *testing.T) {
	fake := &fakeProvider{chatReply: models.AgentReply("hello")}
	a := New(fake, nil)

	_, err := a.Step(context.Background(), []models.Message{models.Human("analyze example.com")})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(fake.seenMessages) != 2 {
		t.Fatalf("expected 2 messages sent to model, got %d", len(fake.seenMessages))
	}
	first := fake.seenMessages[0]
	if first.Role != models.RoleSystem || first.Content != SystemPrompt {
		t.Fatalf("first message is not the system prompt: role=%s", first.Role)
	}
}

func TestStepSystemPromptIdempotent(t *testing.T) {
	fake := &fakeProvider{chatReply: models.AgentReply("hello")}
	a := New(fake, nil)

	history := []models.Message{
		models.System(SystemPrompt),
		models.Human("analyze example.com"),
	}
	if _, err := a.Step(context.Background(), history); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(fake.seenMessages) != len(history) {
		t.Fatalf("prompt duplicated: sent %d messages, want %d", len(fake.seenMessages), len(history))
	}
	count := 0
	for _, m := range fake.seenMessages {
		if m.Role == models.RoleSystem {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one system message, got %d", count)
	}
}

// draftHistory is a conversation that ended with the agent presenting a
// draft plan; the next human message decides whether finalization fires.
func draftHistory(approval string) []models.Message {
	return []models.Message{
		models.Human("analyze example.com"),
		models.AgentReply("Here is the draft plan: ..."),
		models.Human(approval),
	}
}

func TestFinalizeTrigger(t *testing.T) {
	cases := []struct {
		name     string
		history  []models.Message
		finalize bool
	}{
		{"exact keyword", draftHistory("yes"), true},
		{"keyword with trailing clause", draftHistory("yes, that works"), true},
		{"looks good", draftHistory("Looks good"), true},
		{"finalize it", draftHistory("finalize it please"), true},
		{"rejection", draftHistory("nope"), false},
		{"keyword not at start", draftHistory("I think yes"), false},
		{"short history", []models.Message{models.Human("yes")}, false},
		{
			"previous agent message has tool calls",
			[]models.Message{
				models.Human("analyze example.com"),
				{Role: models.RoleAgent, ToolCalls: []models.ToolCall{{ID: "1", Name: "analyze_website", Arguments: "{}"}}},
				models.Human("yes"),
			},
			false,
		},
		{
			"last message is a tool result",
			[]models.Message{
				models.Human("analyze example.com"),
				models.AgentReply("draft"),
				models.ToolResult("1", "analyze_website", `{"status":"success"}`),
			},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeProvider{
				chatReply: models.AgentReply("continuing"),
				plan:      &models.MarketingMediaPlan{TimelineSuggestion: "start next month"},
			}
			a := New(fake, nil)
			if _, err := a.Step(context.Background(), tc.history); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if tc.finalize && fake.planCalls != 1 {
				t.Errorf("expected finalize path, got chat=%d plan=%d", fake.chatCalls, fake.planCalls)
			}
			if !tc.finalize && fake.chatCalls != 1 {
				t.Errorf("expected continue path, got chat=%d plan=%d", fake.chatCalls, fake.planCalls)
			}
		})
	}
}

func TestFinalizeProducesTaggedPlan(t *testing.T) {
	plan := &models.MarketingMediaPlan{
		RecommendedChannels: []string{"Instagram", "Google Search"},
		BudgetAllocation:    map[string]int{"Instagram": 60, "Google Search": 40},
	}
	fake := &fakeProvider{plan: plan}
	a := New(fake, nil)

	msg, err := a.Step(context.Background(), draftHistory("finalize it"))
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !msg.IsFinalPlan() {
		t.Fatalf("expected terminal plan message, got name=%q role=%s", msg.Name, msg.Role)
	}
	decoded, err := models.DecodePlan(msg.Content)
	if err != nil {
		t.Fatalf("plan content does not round-trip: %v", err)
	}
	if decoded.BudgetAllocation["Instagram"] != 60 {
		t.Errorf("budget lost in round-trip: %+v", decoded.BudgetAllocation)
	}
}

func TestFinalizeFailureIsNonTerminal(t *testing.T) {
	fake := &fakeProvider{planErr: errors.New("schema mismatch")}
	a := New(fake, nil)

	msg, err := a.Step(context.Background(), draftHistory("yes"))
	if err != nil {
		t.Fatalf("finalize failure must not surface as an error: %v", err)
	}
	if msg.IsFinalPlan() {
		t.Fatal("failed finalization must not be tagged as the final plan")
	}
	if msg.Role != models.RoleAgent {
		t.Fatalf("recovery message role = %s, want agent", msg.Role)
	}
	if !strings.Contains(msg.Content, "confirm again") {
		t.Errorf("recovery message should ask for reconfirmation, got %q", msg.Content)
	}
	if fake.chatCalls != 0 {
		t.Errorf("finalize failure must not fall back to the continue path")
	}
}

func TestContinuePathModelErrorAbortsTurn(t *testing.T) {
	fake := &fakeProvider{chatErr: errors.New("upstream 500")}
	a := New(fake, nil)

	_, err := a.Step(context.Background(), []models.Message{models.Human("hello")})
	if err == nil {
		t.Fatal("expected error from continue-path model failure")
	}
	if !strings.Contains(err.Error(), "model call") {
		t.Errorf("error not wrapped: %v", err)
	}
}

func TestStepAdvertisesTools(t *testing.T) {
	specs := []models.ToolSpec{{Name: "analyze_website", Description: "d", Parameters: []byte(`{}`)}}
	fake := &fakeProvider{chatReply: models.AgentReply("ok")}
	a := New(fake, specs)

	if _, err := a.Step(context.Background(), []models.Message{models.Human("hi")}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(fake.seenToolSpecs) != 1 || fake.seenToolSpecs[0].Name != "analyze_website" {
		t.Fatalf("tool specs not forwarded: %+v", fake.seenToolSpecs)
	}
}
