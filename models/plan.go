package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BusinessOverview summarizes what the business is and who it serves.
type BusinessOverview struct {
	Industry          string   `json:"industry,omitempty"`
	Products          []string `json:"products,omitempty"`
	TargetAudience    string   `json:"target_audience,omitempty"`
	ExistingMarketing string   `json:"existing_marketing,omitempty"`
}

// CompetitorInsight captures research findings about one competitor.
type CompetitorInsight struct {
	CompetitorName string   `json:"competitor_name"`
	AdPlatforms    []string `json:"ad_platforms,omitempty"`
	Audience       string   `json:"audience,omitempty"`
	BudgetEstimate string   `json:"budget_estimate,omitempty"`
}

// AdCreative is one suggested ad concept for a platform.
type AdCreative struct {
	Platform string `json:"platform"`
	AdType   string `json:"ad_type"`
	Creative string `json:"creative"`
}

// UserInputSummary records the requirements the user stated during the conversation.
type UserInputSummary struct {
	Budget       string `json:"budget,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	Expectations string `json:"expectations,omitempty"`
}

// MarketingMediaPlan is the terminal artifact of a consultation thread. Every
// field is optional; an absent field means the conversation did not surface
// enough information, which is valid output rather than an error.
type MarketingMediaPlan struct {
	BusinessOverview       *BusinessOverview   `json:"business_overview,omitempty"`
	CompetitorInsights     []CompetitorInsight `json:"competitor_insights,omitempty"`
	RecommendedChannels    []string            `json:"recommended_channels,omitempty"`
	BudgetAllocation       map[string]int      `json:"budget_allocation,omitempty"`
	SuggestedAdCreatives   []AdCreative        `json:"suggested_ad_creatives,omitempty"`
	UserInput              *UserInputSummary   `json:"user_input,omitempty"`
	IndustryTrendsKeywords string              `json:"industry_trends_keywords,omitempty"`
	OnlinePresenceAnalysis string              `json:"online_presence_analysis,omitempty"`
	TimelineSuggestion     string              `json:"timeline_suggestion,omitempty"`
	DataSourceNotes        string              `json:"data_source_notes,omitempty"`
}

// Encode renders the plan in its canonical form: indented JSON with map keys
// sorted. Decoding the result and encoding again yields identical text.
func (p *MarketingMediaPlan) Encode() (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return string(b), nil
}

// Validate checks structural invariants the model occasionally violates.
func (p *MarketingMediaPlan) Validate() error {
	for i, ci := range p.CompetitorInsights {
		if strings.TrimSpace(ci.CompetitorName) == "" {
			return fmt.Errorf("competitor_insights[%d]: competitor_name is required", i)
		}
	}
	for i, ac := range p.SuggestedAdCreatives {
		if strings.TrimSpace(ac.Platform) == "" || strings.TrimSpace(ac.AdType) == "" {
			return fmt.Errorf("suggested_ad_creatives[%d]: platform and ad_type are required", i)
		}
	}
	for channel, pct := range p.BudgetAllocation {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("budget_allocation[%q]: percentage %d out of range", channel, pct)
		}
	}
	return nil
}

// DecodePlan parses and validates a serialized plan. Unknown fields are
// rejected so a malformed model response surfaces as a decode error instead
// of silently dropping data.
func DecodePlan(text string) (*MarketingMediaPlan, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	var plan MarketingMediaPlan
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}
	return &plan, nil
}

// PlanSchema is the JSON Schema sent with structured-output requests so the
// model emits a document matching MarketingMediaPlan exactly.
func PlanSchema() json.RawMessage {
	return json.RawMessage(planSchemaJSON)
}

const planSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "business_overview": {
      "type": ["object", "null"],
      "additionalProperties": false,
      "properties": {
        "industry": {"type": ["string", "null"], "description": "The confirmed industry of the business."},
        "products": {"type": ["array", "null"], "items": {"type": "string"}, "description": "Main products or services offered."},
        "target_audience": {"type": ["string", "null"], "description": "Description of the primary target audience."},
        "existing_marketing": {"type": ["string", "null"], "description": "Current marketing activities observed or mentioned."}
      }
    },
    "competitor_insights": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["competitor_name"],
        "properties": {
          "competitor_name": {"type": "string"},
          "ad_platforms": {"type": ["array", "null"], "items": {"type": "string"}},
          "audience": {"type": ["string", "null"]},
          "budget_estimate": {"type": ["string", "null"]}
        }
      }
    },
    "recommended_channels": {"type": ["array", "null"], "items": {"type": "string"}},
    "budget_allocation": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "integer"},
      "description": "Budget allocation percentages per channel."
    },
    "suggested_ad_creatives": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["platform", "ad_type", "creative"],
        "properties": {
          "platform": {"type": "string"},
          "ad_type": {"type": "string"},
          "creative": {"type": "string"}
        }
      }
    },
    "user_input": {
      "type": ["object", "null"],
      "additionalProperties": false,
      "properties": {
        "budget": {"type": ["string", "null"]},
        "start_date": {"type": ["string", "null"]},
        "expectations": {"type": ["string", "null"]}
      }
    },
    "industry_trends_keywords": {"type": ["string", "null"]},
    "online_presence_analysis": {"type": ["string", "null"]},
    "timeline_suggestion": {"type": ["string", "null"]},
    "data_source_notes": {"type": ["string", "null"], "description": "Notes about tool errors or data gaps."}
  }
}`
