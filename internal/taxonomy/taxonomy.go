// Package taxonomy defines the fixed catalog of triage tags and the priority
// weights used to score them.
//
// # Themes
//
// Tags are grouped into themes for documentation only; membership in the
// catalog is what matters when assessments are filtered:
//   - Employment: work status and career direction
//   - Mental Health: diagnoses, risk and treatment state
//   - Wellness: physical health and habits
//   - Engagement: social and community participation
//   - Transition: military-to-civilian transition needs
//   - Access: barriers to reaching services
//   - Care: patterns of care utilisation
//
// # Weights
//
// A subset of tags carries an urgency weight between 1 and 10. Any tag
// without an explicit weight scores 1.
package taxonomy

import (
	"fmt"
	"maps"
	"sync"
)

// DefaultWeight is the weight of a tag with no explicit entry.
const DefaultWeight = 1

// MaxWeight bounds explicit weights.
const MaxWeight = 10

// Theme is a named, ordered group of tags.
type Theme struct {
	Name string
	Tags []string
}

// Taxonomy is an immutable tag catalog. It is safe for concurrent use.
type Taxonomy struct {
	themes  []Theme
	tags    []string
	members map[string]bool
	weights map[string]int
}

// New builds a Taxonomy from themes and weights. It rejects duplicate tags,
// weights outside [1, MaxWeight], and weights for tags not in any theme.
func New(themes []Theme, weights map[string]int) (*Taxonomy, error) {
	t := &Taxonomy{
		members: make(map[string]bool),
		weights: make(map[string]int, len(weights)),
	}
	for _, th := range themes {
		tags := make([]string, len(th.Tags))
		copy(tags, th.Tags)
		for _, tag := range tags {
			if tag == "" {
				return nil, fmt.Errorf("taxonomy: empty tag in theme %q", th.Name)
			}
			if t.members[tag] {
				return nil, fmt.Errorf("taxonomy: duplicate tag %q", tag)
			}
			t.members[tag] = true
			t.tags = append(t.tags, tag)
		}
		t.themes = append(t.themes, Theme{Name: th.Name, Tags: tags})
	}
	for tag, w := range weights {
		if !t.members[tag] {
			return nil, fmt.Errorf("taxonomy: weight for unknown tag %q", tag)
		}
		if w < 1 || w > MaxWeight {
			return nil, fmt.Errorf("taxonomy: weight %d for %q out of range [1, %d]", w, tag, MaxWeight)
		}
		t.weights[tag] = w
	}
	return t, nil
}

// IsValidTag reports whether tag is a member of the catalog.
func (t *Taxonomy) IsValidTag(tag string) bool {
	return t.members[tag]
}

// WeightOf returns the priority weight of tag, or DefaultWeight when the tag
// has no explicit weight (including tags outside the catalog).
func (t *Taxonomy) WeightOf(tag string) int {
	if w, ok := t.weights[tag]; ok {
		return w
	}
	return DefaultWeight
}

// Tags returns every tag in catalog order.
func (t *Taxonomy) Tags() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

// Themes returns a copy of the themed tag groups.
func (t *Taxonomy) Themes() []Theme {
	out := make([]Theme, len(t.themes))
	for i, th := range t.themes {
		tags := make([]string, len(th.Tags))
		copy(tags, th.Tags)
		out[i] = Theme{Name: th.Name, Tags: tags}
	}
	return out
}

// Weights returns a copy of the explicit weight table.
func (t *Taxonomy) Weights() map[string]int {
	return maps.Clone(t.weights)
}

// Default returns the built-in catalog. It is constructed once per process.
var Default = sync.OnceValue(func() *Taxonomy {
	t, err := New(builtinThemes, builtinWeights)
	if err != nil {
		panic(err)
	}
	return t
})

var builtinThemes = []Theme{
	{Name: "Employment", Tags: []string{
		"Job", "Unemployed", "Employed", "Underemployed", "Job training", "In education",
		"Retired", "Remote worker", "Full-time", "Part-time", "Skilled trade", "Office worker",
		"Tech worker", "Federal job", "Career changer", "Entrepreneur",
	}},
	{Name: "Mental Health", Tags: []string{
		"Mental health", "PTSD", "Depression", "Anxiety", "Suicidal risk", "Trauma survivor",
		"Anger issues", "Cognitive issues", "Dual diagnosis", "Seeking therapy", "In therapy",
		"Stable mental health", "Mental wellness focus",
	}},
	{Name: "Wellness", Tags: []string{
		"Wellness", "Chronic illness", "Disabled", "Substance use", "Overweight", "Nutrition issues",
		"Smoker", "In recovery", "Sleep issues", "Poor sleep", "Pain issues", "Vision/hearing loss",
		"Post-surgery", "High stress", "Poor self-care", "Healthy habits",
	}},
	{Name: "Engagement", Tags: []string{
		"Engagement", "Not engaged", "Active lifestyle", "Community active", "Family engaged",
		"Peer support", "Volunteer", "Attends events", "In support group", "Socially active",
		"Civic active", "Mentoring others",
	}},
	{Name: "Transition", Tags: []string{
		"Recently transitioned", "VA user", "Needs VA care", "Uses multiple systems",
		"Needs assessment", "Needs resume help", "Needs interview prep", "Seeking promotion",
		"Seeking connection",
	}},
	{Name: "Access", Tags: []string{
		"Rural isolated", "Urban underserved", "No internet", "Digital user", "Online only",
		"Low health literacy", "Low trust", "Isolation",
	}},
	{Name: "Care", Tags: []string{
		"Regular checkups", "Missed appointments", "Medication noncompliant", "Crisis risk",
		"Holistic care user", "Preventive care gap", "Faith-based",
	}},
}

// Housing status is a profile field, not a tag, so there is no weight for
// homelessness here.
var builtinWeights = map[string]int{
	"Suicidal risk":         10,
	"Crisis risk":           10,
	"Substance use":         8,
	"PTSD":                  7,
	"Unemployed":            7,
	"Recently transitioned": 6,
	"Depression":            6,
	"Anxiety":               5,
	"Disabled":              5,
	"Job training":          4,
	"Seeking therapy":       4,
}
