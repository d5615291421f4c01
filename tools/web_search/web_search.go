package web_search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_search/brave"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_search/models"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_search/serper"
)

// WebSearcher runs one web search query against a search API.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// SearchTool exposes web search to the model for competitor research.
type SearchTool struct {
	searcher   WebSearcher
	maxResults int
}

func NewSearchTool(searcher WebSearcher, maxResults int) *SearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SearchTool{searcher: searcher, maxResults: maxResults}
}

func (t *SearchTool) Name() string { return "competitor_search" }

func (t *SearchTool) Description() string {
	return "Searches the web for competitors of a business or details about a named competitor (ad platforms, target audience, example ads). Returns JSON search results."
}

func (t *SearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query, e.g. 'competitors of Acme Corp' or 'Acme Corp advertising platforms'."}
		},
		"required": ["query"]
	}`)
}

type searchArgs struct {
	Query string `json:"query"`
}

// SearchResult is the self-describing outcome of one competitor search.
type SearchResult struct {
	Query   string          `json:"query"`
	Status  string          `json:"status"`
	Results []models.Result `json:"results,omitempty"`
	Note    string          `json:"note,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (t *SearchTool) Exec(ctx context.Context, arguments string) string {
	var in searchArgs
	if err := json.Unmarshal([]byte(arguments), &in); err != nil || strings.TrimSpace(in.Query) == "" {
		return tools.JSON(SearchResult{Status: "error", Error: "invalid arguments: a query is required"})
	}

	hits, err := t.searcher.Discover(ctx, in.Query, t.maxResults)
	if err != nil {
		return tools.JSON(SearchResult{Query: in.Query, Status: "error", Error: fmt.Sprintf("search failed: %v", err)})
	}
	res := SearchResult{Query: in.Query, Status: "success", Results: hits}
	if len(hits) == 0 {
		res.Note = "no results found"
	}
	return tools.JSON(res)
}
