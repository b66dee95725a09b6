package enhance

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
	"github.com/dshills/peertriage/internal/taxonomy"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func testEnhancer() Enhancer {
	return Enhancer{
		Taxonomy: taxonomy.Default(),
		Now:      func() time.Time { return fixedNow },
		NewID:    func() string { return "id-1" },
	}
}

func TestCalculatePriority(t *testing.T) {
	tax := taxonomy.Default()
	cases := []struct {
		tags []string
		want int
	}{
		{nil, 0},
		{[]string{"Job"}, 1},
		{[]string{"Suicidal risk"}, 10},
		{[]string{"Job", "Substance use", "Sleep issues", "In therapy"}, 11},
		{[]string{"PTSD", "Depression", "Anxiety"}, 18},
		{[]string{"PTSD", "PTSD"}, 14},
	}
	for _, c := range cases {
		if got := CalculatePriority(tax, c.tags...); got != c.want {
			t.Errorf("CalculatePriority(%v) = %d, want %d", c.tags, got, c.want)
		}
	}
}

func TestEnhance_FiltersTags(t *testing.T) {
	a := schema.Assessment{
		PrimaryTags:   []string{"Suicidal risk", "Bogus", "PTSD"},
		SecondaryTags: []string{"Homeless", "In therapy", "ptsd"},
		RiskLevel:     schema.RiskCritical,
	}
	got := testEnhancer().Enhance(a, profile.Profile{}, "llama2")
	if diff := cmp.Diff([]string{"Suicidal risk", "PTSD"}, got.PrimaryTags); diff != "" {
		t.Errorf("primary (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"In therapy"}, got.SecondaryTags); diff != "" {
		t.Errorf("secondary (-want +got):\n%s", diff)
	}
	if got.CalculatedPriorityScore != 10+7+1 {
		t.Errorf("CalculatedPriorityScore = %d, want 18", got.CalculatedPriorityScore)
	}
}

func TestEnhance_FilteringInvariant(t *testing.T) {
	tax := taxonomy.Default()
	inputs := [][]string{
		nil,
		{},
		{"", " ", "Job "},
		{"Job", "Unknown", "Crisis risk", "crisis risk"},
		tax.Tags(),
	}
	for _, tags := range inputs {
		got := testEnhancer().Enhance(schema.Assessment{PrimaryTags: tags, SecondaryTags: tags}, profile.Profile{}, "m")
		sum := 0
		for _, tag := range got.AllTags() {
			if !tax.IsValidTag(tag) {
				t.Errorf("tag %q survived filtering", tag)
			}
			sum += tax.WeightOf(tag)
		}
		if got.CalculatedPriorityScore != sum {
			t.Errorf("CalculatedPriorityScore = %d, want %d", got.CalculatedPriorityScore, sum)
		}
	}
}

func TestEnhance_PreservesModelPriority(t *testing.T) {
	a := schema.Assessment{PrimaryTags: []string{"Suicidal risk"}, PriorityScore: 18, InterventionNeeded: true}
	got := testEnhancer().Enhance(a, profile.Profile{}, "m")
	if got.PriorityScore != 18 {
		t.Errorf("PriorityScore = %d, want 18", got.PriorityScore)
	}
	if !got.InterventionNeeded {
		t.Error("InterventionNeeded should be preserved")
	}
	if got.CalculatedPriorityScore != 10 {
		t.Errorf("CalculatedPriorityScore = %d, want 10", got.CalculatedPriorityScore)
	}
}

func TestEnhance_LocationGroup(t *testing.T) {
	cases := []struct {
		name   string
		city   string
		groups []string
		want   []string
	}{
		{"appends", "Washington", []string{"PTSD Support"}, []string{"PTSD Support", "Washington Local Veterans"}},
		{"present but empty", "Washington", []string{}, []string{"Washington Local Veterans"}},
		{"absent", "Washington", nil, []string{}},
		{"no city", "", []string{"PTSD Support"}, []string{"PTSD Support"}},
		{"blank city", "   ", []string{"A"}, []string{"A"}},
		{"duplicate kept", "Arlington", []string{"Arlington Local Veterans"},
			[]string{"Arlington Local Veterans", "Arlington Local Veterans"}},
	}
	for _, c := range cases {
		a := schema.Assessment{RecommendedGroups: c.groups}
		got := testEnhancer().Enhance(a, profile.Profile{City: c.city}, "m")
		if diff := cmp.Diff(c.want, got.RecommendedGroups); diff != "" {
			t.Errorf("%s: groups (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestEnhance_LocationGroupGrowsByOne(t *testing.T) {
	for _, name := range profile.Names() {
		p, _ := profile.Load(name)
		base := []string{"Peer Circle", "Career Network"}
		got := testEnhancer().Enhance(schema.Assessment{RecommendedGroups: base}, p, "m")
		if len(got.RecommendedGroups) != len(base)+1 {
			t.Errorf("%s: len = %d, want %d", name, len(got.RecommendedGroups), len(base)+1)
			continue
		}
		if last := got.RecommendedGroups[len(got.RecommendedGroups)-1]; !strings.Contains(last, p.City) {
			t.Errorf("%s: last group %q does not contain city %q", name, last, p.City)
		}
	}
}

func TestEnhance_DoesNotAliasInputGroups(t *testing.T) {
	backing := make([]string, 1, 4)
	backing[0] = "A"
	a := schema.Assessment{RecommendedGroups: backing}
	_ = testEnhancer().Enhance(a, profile.Profile{City: "Austin"}, "m")
	if extended := backing[:2]; extended[1] != "" {
		t.Errorf("Enhance wrote into the caller's backing array: %q", extended[1])
	}
}

func TestEnhance_CustomSuffix(t *testing.T) {
	e := testEnhancer()
	e.GroupSuffix = "Veteran Circle"
	got := e.Enhance(schema.Assessment{RecommendedGroups: []string{}}, profile.Profile{City: "Reno"}, "m")
	if diff := cmp.Diff([]string{"Reno Veteran Circle"}, got.RecommendedGroups); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}
}

func TestEnhance_Metadata(t *testing.T) {
	got := testEnhancer().Enhance(schema.Assessment{}, profile.Profile{}, "llama2")
	if got.AnalysisTimestamp != "2025-03-15T12:00:00Z" {
		t.Errorf("AnalysisTimestamp = %q", got.AnalysisTimestamp)
	}
	if got.ModelUsed != "llama2" {
		t.Errorf("ModelUsed = %q", got.ModelUsed)
	}
	if got.AssessmentID != "id-1" {
		t.Errorf("AssessmentID = %q", got.AssessmentID)
	}
	if got.Source != schema.SourceModel {
		t.Errorf("Source = %q, want model", got.Source)
	}
}

func TestEnhance_CoercesMissingFields(t *testing.T) {
	got := testEnhancer().Enhance(schema.Assessment{}, profile.Profile{}, "m")
	if got.PrimaryTags == nil || got.SecondaryTags == nil || got.RecommendedGroups == nil || got.ResourcePriorities == nil {
		t.Errorf("nil collections after enhance: %+v", got)
	}
	if got.RiskLevel != schema.RiskMedium {
		t.Errorf("missing risk level should become Medium, got %q", got.RiskLevel)
	}
	if got.CalculatedPriorityScore != 0 {
		t.Errorf("CalculatedPriorityScore = %d, want 0", got.CalculatedPriorityScore)
	}
}

func TestEnhance_UnknownRiskLevel(t *testing.T) {
	got := testEnhancer().Enhance(schema.Assessment{RiskLevel: "Severe"}, profile.Profile{}, "m")
	if got.RiskLevel != schema.RiskMedium {
		t.Errorf("RiskLevel = %q, want Medium", got.RiskLevel)
	}
}

func TestEnhance_ZeroValueDefaults(t *testing.T) {
	got := Enhancer{}.Enhance(schema.Assessment{PrimaryTags: []string{"Crisis risk"}, RecommendedGroups: []string{}}, profile.Profile{City: "Boise"}, "m")
	if got.CalculatedPriorityScore != 10 {
		t.Errorf("CalculatedPriorityScore = %d, want 10", got.CalculatedPriorityScore)
	}
	if got.AssessmentID == "" || got.AnalysisTimestamp == "" {
		t.Errorf("metadata missing: %+v", got)
	}
	if got.RecommendedGroups[0] != "Boise Local Veterans" {
		t.Errorf("groups = %v", got.RecommendedGroups)
	}
}

func TestEnhance_AlternateTaxonomy(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Theme{{Name: "T", Tags: []string{"alpha", "beta"}}}, map[string]int{"beta": 4})
	if err != nil {
		t.Fatal(err)
	}
	e := testEnhancer()
	e.Taxonomy = tax
	got := e.Enhance(schema.Assessment{PrimaryTags: []string{"alpha", "Job"}, SecondaryTags: []string{"beta"}}, profile.Profile{}, "m")
	if diff := cmp.Diff([]string{"alpha"}, got.PrimaryTags); diff != "" {
		t.Errorf("primary (-want +got):\n%s", diff)
	}
	if got.CalculatedPriorityScore != 5 {
		t.Errorf("CalculatedPriorityScore = %d, want 5", got.CalculatedPriorityScore)
	}
}

func TestEnhancer_TagsUsesDefaultTaxonomy(t *testing.T) {
	if diff := cmp.Diff(taxonomy.Default().Tags(), Enhancer{}.Tags()); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}
