// Package fallback provides the deterministic rule-based assessment used when
// the reasoning service cannot produce one. No network calls are made here.
package fallback

import (
	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
)

// maxPrimary is the number of matched tags promoted to primary.
const maxPrimary = 3

const (
	DefaultGroup    = "General Support Group"
	DefaultResource = "Basic Services"
	Reasoning       = "Fallback analysis - reasoning service unavailable"
)

// rule adds tag when match holds for the profile.
type rule struct {
	tag   string
	match func(profile.Profile) bool
}

// rules are evaluated in order and independently of each other.
var rules = []rule{
	{"Job", profile.Profile.SeeksEmployment},
	{"Substance use", func(p profile.Profile) bool { return p.SubstanceUse }},
	{"Sleep issues", func(p profile.Profile) bool { return p.SleepIssues }},
	{"In therapy", func(p profile.Profile) bool { return p.ReceivingMentalHealthSupport }},
}

// Tags returns every tag the rules can produce, in evaluation order.
func Tags() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.tag
	}
	return out
}

// Assess applies the rules to p. The first three matches become primary tags
// and the rest secondary; every other field takes a fixed value.
func Assess(p profile.Profile) schema.Assessment {
	var tags []string
	for _, r := range rules {
		if r.match(p) {
			tags = append(tags, r.tag)
		}
	}

	split := min(len(tags), maxPrimary)
	primary := append([]string{}, tags[:split]...)
	secondary := append([]string{}, tags[split:]...)

	return schema.Assessment{
		PrimaryTags:        primary,
		SecondaryTags:      secondary,
		RiskLevel:          schema.RiskMedium,
		PriorityScore:      5,
		InterventionNeeded: false,
		RecommendedGroups:  []string{DefaultGroup},
		ResourcePriorities: []string{DefaultResource},
		Reasoning:          Reasoning,
		Source:             schema.SourceFallback,
	}
}
