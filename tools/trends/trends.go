package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools"
)

// DefaultTimeframe mirrors the provider's "last three months" window.
const DefaultTimeframe = "today 3-m"

// changeThreshold is the relative movement required before a trend is called
// Increasing or Decreasing rather than Stable.
const changeThreshold = 1.05

// Analyzer looks up interest-over-time data per keyword via the SerpAPI
// google_trends engine and summarizes the direction of each series.
type Analyzer struct {
	client *resty.Client
	apiKey string
}

func New(baseURL, apiKey string, timeout time.Duration) *Analyzer {
	return &Analyzer{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
	}
}

func (a *Analyzer) Name() string { return "trend_lookup" }

func (a *Analyzer) Description() string {
	return "Analyzes search interest trends for keywords. Returns a JSON summary of interest over time per keyword or errors encountered."
}

func (a *Analyzer) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"keywords": {"type": "array", "items": {"type": "string"}, "description": "A list of keywords or topics to check trends for."},
			"timeframe": {"type": "string", "description": "Timeframe for trends (e.g. 'today 5-y', 'today 12-m', 'today 3-m', 'now 7-d'). Defaults to 'today 3-m'."}
		},
		"required": ["keywords"]
	}`)
}

type args struct {
	Keywords  []string `json:"keywords"`
	Timeframe string   `json:"timeframe"`
}

// Result is the self-describing outcome of one trend lookup.
type Result struct {
	Keywords                []string          `json:"keywords"`
	Timeframe               string            `json:"timeframe"`
	Status                  string            `json:"status"`
	InterestOverTimeSummary map[string]string `json:"interest_over_time_summary,omitempty"`
	Warning                 string            `json:"warning,omitempty"`
	Error                   string            `json:"error,omitempty"`
}

// serpResponse is the slice of the SerpAPI google_trends TIMESERIES payload
// we care about. One keyword per request, so each point has one value.
type serpResponse struct {
	InterestOverTime struct {
		TimelineData []struct {
			Values []struct {
				Query          string  `json:"query"`
				ExtractedValue float64 `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// Exec resolves each keyword independently. The result is error-status only
// when no keyword at all produced data; partial gaps are reported per keyword.
func (a *Analyzer) Exec(ctx context.Context, arguments string) string {
	var in args
	if err := json.Unmarshal([]byte(arguments), &in); err != nil || len(in.Keywords) == 0 {
		return tools.JSON(Result{Status: "error", Error: "invalid arguments: a keywords list is required"})
	}
	if in.Timeframe == "" {
		in.Timeframe = DefaultTimeframe
	}

	res := Result{Keywords: in.Keywords, Timeframe: in.Timeframe, Status: "success"}
	if a.apiKey == "" {
		res.Status = "error"
		res.Error = "trends provider is not configured: missing API key"
		return tools.JSON(res)
	}

	summary := make(map[string]string, len(in.Keywords))
	resolved := 0
	var lastErr error
	for _, kw := range in.Keywords {
		direction, err := a.lookup(ctx, kw, in.Timeframe)
		if err != nil {
			lastErr = err
			summary[kw] = fmt.Sprintf("lookup failed: %v", err)
			continue
		}
		if direction == "" {
			summary[kw] = "No data found for this keyword."
			continue
		}
		summary[kw] = direction
		resolved++
	}

	res.InterestOverTimeSummary = summary
	if resolved == 0 {
		res.Status = "error"
		if lastErr != nil {
			res.Error = fmt.Sprintf("trends lookup failed: %v", lastErr)
		} else {
			res.Error = "no interest over time data found for the specified keywords"
		}
	} else if resolved < len(in.Keywords) {
		res.Warning = "some keywords returned no trend data"
	}
	return tools.JSON(res)
}

func (a *Analyzer) lookup(ctx context.Context, keyword, timeframe string) (string, error) {
	var out serpResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":    "google_trends",
			"data_type": "TIMESERIES",
			"q":         keyword,
			"date":      timeframe,
			"api_key":   a.apiKey,
		}).
		SetResult(&out).
		Get("/search.json")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode())
	}

	var samples []float64
	for _, point := range out.InterestOverTime.TimelineData {
		for _, v := range point.Values {
			samples = append(samples, v.ExtractedValue)
		}
	}
	if len(samples) == 0 {
		return "", nil
	}

	first, last := samples[0], samples[len(samples)-1]
	change := "Stable"
	if last > first*changeThreshold {
		change = "Increasing"
	} else if first > last*changeThreshold {
		change = "Decreasing"
	}
	return fmt.Sprintf("%s trend (relative score: first=%.1f, last=%.1f)", change, first, last), nil
}
