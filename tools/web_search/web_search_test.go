package web_search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_search/models"
)

type fakeSearcher struct {
	hits []models.Result
	err  error
	seen struct {
		query string
		k     int
	}
}

func (f *fakeSearcher) Discover(_ context.Context, q string, k int) ([]models.Result, error) {
	f.seen.query = q
	f.seen.k = k
	return f.hits, f.err
}

func exec(t *testing.T, tool *SearchTool, arguments string) SearchResult {
	t.Helper()
	var res SearchResult
	if err := json.Unmarshal([]byte(tool.Exec(context.Background(), arguments)), &res); err != nil {
		t.Fatalf("tool output is not JSON: %v", err)
	}
	return res
}

func TestExecSuccess(t *testing.T) {
	fake := &fakeSearcher{hits: []models.Result{
		{Title: "BrewCo", URL: "https://brewco.example", Snippet: "coffee"},
	}}
	tool := NewSearchTool(fake, 3)

	res := exec(t, tool, `{"query":"competitors of Acme Coffee"}`)

	if res.Status != "success" || len(res.Results) != 1 {
		t.Fatalf("res = %+v", res)
	}
	if fake.seen.query != "competitors of Acme Coffee" || fake.seen.k != 3 {
		t.Fatalf("searcher saw query=%q k=%d", fake.seen.query, fake.seen.k)
	}
}

func TestExecNoHits(t *testing.T) {
	tool := NewSearchTool(&fakeSearcher{}, 5)

	res := exec(t, tool, `{"query":"something obscure"}`)

	if res.Status != "success" {
		t.Fatalf("empty results are not a failure: %+v", res)
	}
	if res.Note == "" {
		t.Error("expected a note for empty results")
	}
}

func TestExecSearchError(t *testing.T) {
	tool := NewSearchTool(&fakeSearcher{err: errors.New("quota exceeded")}, 5)

	res := exec(t, tool, `{"query":"acme"}`)

	if res.Status != "error" || res.Error == "" {
		t.Fatalf("res = %+v", res)
	}
}

func TestExecInvalidArguments(t *testing.T) {
	tool := NewSearchTool(&fakeSearcher{}, 5)

	res := exec(t, tool, `{"query":"  "}`)
	if res.Status != "error" {
		t.Fatalf("expected error status, got %q", res.Status)
	}
}

func TestNewWebSearcherUnsupported(t *testing.T) {
	if _, err := NewWebSearcher("duckduckgo", "key"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
