package models

import (
	"strings"
	"testing"
)

func samplePlan() *MarketingMediaPlan {
	return &MarketingMediaPlan{
		BusinessOverview: &BusinessOverview{
			Industry:       "Specialty coffee",
			Products:       []string{"beans", "subscriptions"},
			TargetAudience: "urban professionals",
		},
		CompetitorInsights: []CompetitorInsight{
			{CompetitorName: "BrewCo", AdPlatforms: []string{"Instagram"}},
		},
		RecommendedChannels: []string{"Instagram", "Google Search"},
		BudgetAllocation:    map[string]int{"Instagram": 60, "Google Search": 40},
		SuggestedAdCreatives: []AdCreative{
			{Platform: "Instagram", AdType: "Reel", Creative: "Behind the roastery"},
		},
		TimelineSuggestion: "Launch within 4 weeks",
	}
}

func TestPlanEncodeDecodeRoundTrip(t *testing.T) {
	plan := samplePlan()
	first, err := plan.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodePlan(first)
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	second, err := decoded.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if first != second {
		t.Fatalf("canonical encoding is not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	plan := &MarketingMediaPlan{TimelineSuggestion: "soon"}
	out, err := plan.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(out, "business_overview") || strings.Contains(out, "budget_allocation") {
		t.Fatalf("absent fields leaked into output:\n%s", out)
	}
}

func TestDecodePlanRejectsUnknownFields(t *testing.T) {
	_, err := DecodePlan(`{"recommended_channels":["Instagram"],"surprise":true}`)
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestDecodePlanEmptyObject(t *testing.T) {
	plan, err := DecodePlan(`{}`)
	if err != nil {
		t.Fatalf("an empty plan is valid output: %v", err)
	}
	if plan.BusinessOverview != nil {
		t.Fatal("empty document decoded to non-empty plan")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		plan    MarketingMediaPlan
		wantErr bool
	}{
		{"valid", *samplePlan(), false},
		{
			"competitor without name",
			MarketingMediaPlan{CompetitorInsights: []CompetitorInsight{{Audience: "everyone"}}},
			true,
		},
		{
			"creative without platform",
			MarketingMediaPlan{SuggestedAdCreatives: []AdCreative{{AdType: "Reel", Creative: "x"}}},
			true,
		},
		{
			"budget percentage out of range",
			MarketingMediaPlan{BudgetAllocation: map[string]int{"Instagram": 140}},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFinalPlanTagging(t *testing.T) {
	msg := AgentReply(`{}`)
	if msg.IsFinalPlan() {
		t.Fatal("plain agent reply must not be terminal")
	}
	msg.Name = FinalPlanName
	if !msg.IsFinalPlan() {
		t.Fatal("tagged agent reply must be terminal")
	}
	tool := ToolResult("1", FinalPlanName, `{}`)
	if tool.IsFinalPlan() {
		t.Fatal("tool result must never be terminal regardless of name")
	}
}
