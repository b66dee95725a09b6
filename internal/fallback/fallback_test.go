package fallback

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
	"github.com/dshills/peertriage/internal/taxonomy"
)

func TestAssess_AllRulesMatch(t *testing.T) {
	p := profile.Profile{
		FullName:                     "Test",
		SubstanceUse:                 true,
		SleepIssues:                  true,
		ReceivingMentalHealthSupport: true,
		LookingFor:                   []string{"Jobs"},
	}
	got := Assess(p)
	want := schema.Assessment{
		PrimaryTags:        []string{"Job", "Substance use", "Sleep issues"},
		SecondaryTags:      []string{"In therapy"},
		RiskLevel:          schema.RiskMedium,
		PriorityScore:      5,
		InterventionNeeded: false,
		RecommendedGroups:  []string{DefaultGroup},
		ResourcePriorities: []string{DefaultResource},
		Reasoning:          Reasoning,
		Source:             schema.SourceFallback,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assess mismatch (-want +got):\n%s", diff)
	}
}

func TestAssess_RuleCombinations(t *testing.T) {
	cases := []struct {
		name      string
		p         profile.Profile
		primary   []string
		secondary []string
	}{
		{"none", profile.Profile{}, []string{}, []string{}},
		{"therapy only", profile.Profile{ReceivingMentalHealthSupport: true}, []string{"In therapy"}, []string{}},
		{"sleep and therapy", profile.Profile{SleepIssues: true, ReceivingMentalHealthSupport: true},
			[]string{"Sleep issues", "In therapy"}, []string{}},
		{"not looking for jobs", profile.Profile{LookingFor: []string{"All"}, SubstanceUse: true},
			[]string{"Substance use"}, []string{}},
		{"three rules", profile.Profile{LookingFor: []string{"Therapy", "Jobs"}, SleepIssues: true, ReceivingMentalHealthSupport: true},
			[]string{"Job", "Sleep issues", "In therapy"}, []string{}},
	}
	for _, c := range cases {
		got := Assess(c.p)
		if diff := cmp.Diff(c.primary, got.PrimaryTags); diff != "" {
			t.Errorf("%s: primary mismatch (-want +got):\n%s", c.name, diff)
		}
		if diff := cmp.Diff(c.secondary, got.SecondaryTags); diff != "" {
			t.Errorf("%s: secondary mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestAssess_FixedFields(t *testing.T) {
	for _, name := range profile.Names() {
		p, _ := profile.Load(name)
		got := Assess(p)
		if got.RiskLevel != schema.RiskMedium || got.PriorityScore != 5 || got.InterventionNeeded {
			t.Errorf("%s: fixed fields wrong: %+v", name, got)
		}
		if got.Source != schema.SourceFallback {
			t.Errorf("%s: Source = %q", name, got.Source)
		}
	}
}

func TestTags_AreCatalogMembers(t *testing.T) {
	tax := taxonomy.Default()
	for _, tag := range Tags() {
		if !tax.IsValidTag(tag) {
			t.Errorf("fallback tag %q is not in the taxonomy", tag)
		}
	}
}

func TestAssess_ReturnsFreshSlices(t *testing.T) {
	p := profile.Profile{SubstanceUse: true}
	a := Assess(p)
	a.RecommendedGroups[0] = "mutated"
	b := Assess(p)
	if b.RecommendedGroups[0] != DefaultGroup {
		t.Error("Assess shares slices between calls")
	}
}
