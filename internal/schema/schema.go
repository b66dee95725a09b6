// Package schema defines the canonical data types for triage output.
package schema

import "fmt"

// RiskLevel represents the urgency band assigned to a profile.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

// Source records which path produced the base assessment.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// FallbackModel is stamped into Assessment.ModelUsed when the rule-based
// path produced the base assessment.
const FallbackModel = "fallback"

// ParseRiskLevel converts a string to a RiskLevel constant.
// Returns an error for unrecognized values.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
		return RiskLevel(s), nil
	}
	return "", fmt.Errorf("schema: unknown risk level %q", s)
}

// RiskOrdinal returns the numeric ordinal for a risk level, used to order
// results by urgency. Low=0, Medium=1, High=2, Critical=3, unknown=-1.
func RiskOrdinal(r RiskLevel) int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// Assessment is the engine's triage output for a single profile.
//
// RecommendedGroups distinguishes nil (absent from the base assessment) from
// an empty slice (present but empty); the enhancer relies on that when it
// decides whether to append a location group.
type Assessment struct {
	AssessmentID            string    `json:"assessment_id,omitempty"`
	PrimaryTags             []string  `json:"primary_tags"`
	SecondaryTags           []string  `json:"secondary_tags"`
	RiskLevel               RiskLevel `json:"risk_level"`
	PriorityScore           int       `json:"priority_score"`
	CalculatedPriorityScore int       `json:"calculated_priority_score"`
	InterventionNeeded      bool      `json:"intervention_needed"`
	RecommendedGroups       []string  `json:"recommended_groups"`
	ResourcePriorities      []string  `json:"resource_priorities"`
	Reasoning               string    `json:"reasoning,omitempty"`
	AnalysisTimestamp       string    `json:"analysis_timestamp"`
	ModelUsed               string    `json:"model_used"`
	Source                  Source    `json:"source"`
}

// AllTags returns primary tags followed by secondary tags.
func (a Assessment) AllTags() []string {
	tags := make([]string, 0, len(a.PrimaryTags)+len(a.SecondaryTags))
	tags = append(tags, a.PrimaryTags...)
	return append(tags, a.SecondaryTags...)
}

// Result pairs a finished assessment with its outreach message.
// An empty Outreach means no message was generated.
type Result struct {
	Name       string     `json:"name"`
	Assessment Assessment `json:"assessment"`
	Outreach   string     `json:"outreach,omitempty"`
}
