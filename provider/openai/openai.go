package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/utils"
)

const defaultBaseURL = "https://api.openai.com"

// client implements the provider interface using OpenAI's chat completions API
type client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, baseURL, model string, temperature float64, maxTokens int, timeout time.Duration) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

// request represents a request to the OpenAI API
type request struct {
	Model          string          `json:"model"`
	Messages       []wireMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Tools          []wireTool      `json:"tools,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// response represents a response from the OpenAI API
type response struct {
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Chat sends the full conversation plus the research tool catalogue and
// returns whatever came back: conversational text or a tool-call request.
func (c *client) Chat(ctx context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error) {
	req := request{
		Model:       c.model,
		Messages:    toWire(messages),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, wireTool{
			Type:     "function",
			Function: wireToolFunction{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}

	msg, err := c.sendRequest(ctx, req)
	if err != nil {
		return models.Message{}, err
	}
	return fromWire(msg), nil
}

// GeneratePlan asks the model for output conforming exactly to the marketing
// media plan schema and decodes it. Validation failures come back as errors;
// the caller decides how to recover.
func (c *client) GeneratePlan(ctx context.Context, messages []models.Message) (*models.MarketingMediaPlan, error) {
	req := request{
		Model:       c.model,
		Messages:    toWire(messages),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchemaFormat{Name: "marketing_media_plan", Schema: models.PlanSchema()},
		},
	}

	msg, err := c.sendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	plan, err := models.DecodePlan(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("structured output: %w", err)
	}
	return plan, nil
}

func toWire(messages []models.Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		w := wireMessage{Content: m.Content, ToolCallID: m.ToolCallID}
		switch m.Role {
		case models.RoleSystem:
			w.Role = "system"
		case models.RoleHuman:
			w.Role = "user"
		case models.RoleAgent:
			w.Role = "assistant"
		case models.RoleTool:
			w.Role = "tool"
		}
		for _, call := range m.ToolCalls {
			w.ToolCalls = append(w.ToolCalls, wireToolCall{
				ID:       call.ID,
				Type:     "function",
				Function: wireFunction{Name: call.Name, Arguments: call.Arguments},
			})
		}
		out = append(out, w)
	}
	return out
}

func fromWire(msg wireMessage) models.Message {
	out := models.Message{Role: models.RoleAgent, Content: msg.Content}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}

// sendRequest sends a request to the OpenAI API
func (c *client) sendRequest(ctx context.Context, body request) (wireMessage, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return wireMessage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return wireMessage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wireMessage{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wireMessage{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return wireMessage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, utils.Truncate(string(raw), 200))
	}

	var openaiResp response
	if err := json.Unmarshal(raw, &openaiResp); err != nil {
		return wireMessage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return wireMessage{}, fmt.Errorf("no choices in response")
	}
	return openaiResp.Choices[0].Message, nil
}
