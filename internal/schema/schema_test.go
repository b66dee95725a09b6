package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/peertriage/internal/schema"
)

func TestParseRiskLevel(t *testing.T) {
	for _, s := range []string{"Critical", "High", "Medium", "Low"} {
		got, err := schema.ParseRiskLevel(s)
		if err != nil {
			t.Errorf("ParseRiskLevel(%q) error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseRiskLevel(%q) = %q", s, got)
		}
	}
	for _, s := range []string{"", "critical", "Severe"} {
		if _, err := schema.ParseRiskLevel(s); err == nil {
			t.Errorf("ParseRiskLevel(%q) expected error, got nil", s)
		}
	}
}

func TestRiskOrdinal(t *testing.T) {
	ordered := []schema.RiskLevel{schema.RiskLow, schema.RiskMedium, schema.RiskHigh, schema.RiskCritical}
	for i, r := range ordered {
		if got := schema.RiskOrdinal(r); got != i {
			t.Errorf("RiskOrdinal(%q) = %d, want %d", r, got, i)
		}
	}
	if got := schema.RiskOrdinal("Unknown"); got != -1 {
		t.Errorf("RiskOrdinal(Unknown) = %d, want -1", got)
	}
}

func TestAssessment_AllTags(t *testing.T) {
	a := schema.Assessment{
		PrimaryTags:   []string{"Job", "PTSD"},
		SecondaryTags: []string{"In therapy"},
	}
	got := strings.Join(a.AllTags(), ",")
	if got != "Job,PTSD,In therapy" {
		t.Errorf("AllTags() = %q", got)
	}
	if len(schema.Assessment{}.AllTags()) != 0 {
		t.Error("AllTags() on zero assessment should be empty")
	}
}

func TestAssessment_JSONFieldNames(t *testing.T) {
	a := schema.Assessment{
		PrimaryTags:        []string{"Job"},
		SecondaryTags:      []string{},
		RiskLevel:          schema.RiskMedium,
		PriorityScore:      5,
		RecommendedGroups:  []string{},
		ResourcePriorities: []string{},
		ModelUsed:          schema.FallbackModel,
		Source:             schema.SourceFallback,
	}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	for _, key := range []string{
		`"primary_tags":["Job"]`,
		`"risk_level":"Medium"`,
		`"calculated_priority_score":0`,
		`"intervention_needed":false`,
		`"model_used":"fallback"`,
		`"source":"fallback"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("marshalled assessment missing %s: %s", key, out)
		}
	}
	if strings.Contains(out, "reasoning") {
		t.Errorf("empty reasoning should be omitted: %s", out)
	}
}
