// Package enhance provides the deterministic post-processing applied to every
// assessment before it leaves the engine. No model calls are made here.
package enhance

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
	"github.com/dshills/peertriage/internal/taxonomy"
)

// DefaultGroupSuffix follows the city name in the location-derived group.
const DefaultGroupSuffix = "Local Veterans"

// Enhancer filters, re-scores and stamps assessments. The zero value uses
// the default taxonomy, wall clock, suffix and random IDs.
type Enhancer struct {
	Taxonomy    *taxonomy.Taxonomy
	GroupSuffix string
	Now         func() time.Time
	NewID       func() string
}

// Enhance returns the finished form of a. modelUsed is stamped into
// ModelUsed; pass schema.FallbackModel for rule-based assessments. It never
// fails: missing collections are coerced to empty.
//
// Steps:
//  1. Drop primary and secondary tags outside the taxonomy.
//  2. CalculatedPriorityScore = sum of WeightOf over the remaining tags.
//  3. When the profile has a city and RecommendedGroups is present, append
//     "<City> <suffix>". Duplicates of a model suggestion are kept.
//  4. Stamp timestamp, model and assessment ID.
//
// The model-suggested PriorityScore is left untouched for audit.
func (e Enhancer) Enhance(a schema.Assessment, p profile.Profile, modelUsed string) schema.Assessment {
	tax := e.taxonomy()

	a.PrimaryTags = Filter(tax, a.PrimaryTags)
	a.SecondaryTags = Filter(tax, a.SecondaryTags)

	a.CalculatedPriorityScore = CalculatePriority(tax, a.AllTags()...)

	if city := strings.TrimSpace(p.City); city != "" && a.RecommendedGroups != nil {
		a.RecommendedGroups = append(slices.Clip(a.RecommendedGroups), city+" "+e.suffix())
	}

	if a.RecommendedGroups == nil {
		a.RecommendedGroups = []string{}
	}
	if a.ResourcePriorities == nil {
		a.ResourcePriorities = []string{}
	}
	if _, err := schema.ParseRiskLevel(string(a.RiskLevel)); err != nil {
		a.RiskLevel = schema.RiskMedium
	}
	if a.Source == "" {
		a.Source = schema.SourceModel
	}

	a.AnalysisTimestamp = e.now().Format(time.RFC3339)
	a.ModelUsed = modelUsed
	a.AssessmentID = e.newID()
	return a
}

// Filter returns the members of tags that belong to tax, in order. The result
// is never nil.
func Filter(tax *taxonomy.Taxonomy, tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tax.IsValidTag(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// CalculatePriority sums the taxonomy weight of each tag; unweighted tags
// count 1. Callers are expected to filter first.
func CalculatePriority(tax *taxonomy.Taxonomy, tags ...string) int {
	score := 0
	for _, tag := range tags {
		score += tax.WeightOf(tag)
	}
	return score
}

// Tags returns the vocabulary the enhancer filters against.
func (e Enhancer) Tags() []string {
	return e.taxonomy().Tags()
}

func (e Enhancer) taxonomy() *taxonomy.Taxonomy {
	if e.Taxonomy != nil {
		return e.Taxonomy
	}
	return taxonomy.Default()
}

func (e Enhancer) suffix() string {
	if e.GroupSuffix != "" {
		return e.GroupSuffix
	}
	return DefaultGroupSuffix
}

func (e Enhancer) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Enhancer) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}
