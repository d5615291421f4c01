package provider

import (
	"context"
	"errors"

	"github.com/kapilnchauhan77/marketing-consultant-agent/config"
	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
	openai_provider "github.com/kapilnchauhan77/marketing-consultant-agent/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Provider is the interface the turn controller talks to. Chat runs the
// continue path (tools advertised, model picks); GeneratePlan runs the
// finalize path (structured output conforming to the plan schema).
type Provider interface {
	Chat(ctx context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error)
	GeneratePlan(ctx context.Context, messages []models.Message) (*models.MarketingMediaPlan, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		return openai_provider.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
