package openai_provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

func newServer(t *testing.T, handler func(req request) (int, string)) (*httptest.Server, *client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		var req request
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		code, body := handler(req)
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	c := NewOpenAIClient("test-key", srv.URL, "gpt-4o", 0, 256, 5*time.Second)
	return srv, c
}

func chatCompletion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
	return string(b)
}

func TestChatRoleMapping(t *testing.T) {
	var seen request
	_, c := newServer(t, func(req request) (int, string) {
		seen = req
		return 200, chatCompletion("hello")
	})

	history := []models.Message{
		models.System("instructions"),
		models.Human("hi"),
		models.AgentReply("checking"),
		models.ToolResult("c1", "analyze_website", `{"status":"success"}`),
	}
	reply, err := c.Chat(context.Background(), history, []models.ToolSpec{
		{Name: "analyze_website", Description: "d", Parameters: []byte(`{"type":"object"}`)},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Role != models.RoleAgent || reply.Content != "hello" {
		t.Fatalf("reply = %+v", reply)
	}

	wantRoles := []string{"system", "user", "assistant", "tool"}
	for i, want := range wantRoles {
		if seen.Messages[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, seen.Messages[i].Role, want)
		}
	}
	if seen.Messages[3].ToolCallID != "c1" {
		t.Errorf("tool_call_id not forwarded: %+v", seen.Messages[3])
	}
	if len(seen.Tools) != 1 || seen.Tools[0].Type != "function" || seen.Tools[0].Function.Name != "analyze_website" {
		t.Errorf("tools = %+v", seen.Tools)
	}
	if seen.ResponseFormat != nil {
		t.Error("continue path must not force a response format")
	}
}

func TestChatToolCallResponse(t *testing.T) {
	_, c := newServer(t, func(req request) (int, string) {
		b, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []map[string]any{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]any{
							"name":      "trend_lookup",
							"arguments": `{"keywords":["coffee"]}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		})
		return 200, string(b)
	})

	reply, err := c.Chat(context.Background(), []models.Message{models.Human("trends?")}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !reply.HasToolCalls() {
		t.Fatal("tool calls lost in translation")
	}
	call := reply.ToolCalls[0]
	if call.ID != "call_1" || call.Name != "trend_lookup" || !strings.Contains(call.Arguments, "coffee") {
		t.Fatalf("call = %+v", call)
	}
}

func TestGeneratePlan(t *testing.T) {
	var seen request
	_, c := newServer(t, func(req request) (int, string) {
		seen = req
		return 200, chatCompletion(`{"recommended_channels":["Instagram"],"budget_allocation":{"Instagram":100}}`)
	})

	plan, err := c.GeneratePlan(context.Background(), []models.Message{models.Human("finalize")})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.RecommendedChannels) != 1 || plan.BudgetAllocation["Instagram"] != 100 {
		t.Fatalf("plan = %+v", plan)
	}
	if seen.ResponseFormat == nil || seen.ResponseFormat.Type != "json_schema" {
		t.Fatalf("response format = %+v", seen.ResponseFormat)
	}
	if seen.ResponseFormat.JSONSchema.Name != "marketing_media_plan" {
		t.Errorf("schema name = %q", seen.ResponseFormat.JSONSchema.Name)
	}
}

func TestGeneratePlanRejectsInvalidDocument(t *testing.T) {
	_, c := newServer(t, func(req request) (int, string) {
		return 200, chatCompletion(`{"competitor_insights":[{"audience":"all"}]}`)
	})

	_, err := c.GeneratePlan(context.Background(), []models.Message{models.Human("finalize")})
	if err == nil {
		t.Fatal("invalid structured output must be an error")
	}
	if !strings.Contains(err.Error(), "structured output") {
		t.Errorf("error = %v", err)
	}
}

func TestSendRequestErrorIncludesBody(t *testing.T) {
	_, c := newServer(t, func(req request) (int, string) {
		return 429, `{"error":{"message":"rate limited"}}`
	})

	_, err := c.Chat(context.Background(), []models.Message{models.Human("hi")}, nil)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error = %v", err)
	}
}
