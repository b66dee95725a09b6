// Package interpret turns raw reasoning-service text into an assessment.
//
// Decoding is the only validation performed here. Tag membership, scoring and
// defaults for missing fields belong to the enhancer.
package interpret

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/peertriage/internal/schema"
)

var (
	// ErrNoObject is returned when the text holds no {...} span.
	ErrNoObject = errors.New("interpret: no JSON object in response")
	// ErrMalformed is returned when the candidate span does not decode.
	ErrMalformed = errors.New("interpret: malformed JSON object")
)

// Interpreter extracts an assessment from raw model output.
type Interpreter interface {
	Interpret(raw string) (schema.Assessment, error)
}

// Bracket takes the text between the first '{' and the last '}' and decodes
// it. Conversational padding around the object is ignored. When the text
// holds several objects the span covers all of them and usually fails to
// decode.
type Bracket struct{}

// Interpret implements Interpreter.
func (Bracket) Interpret(raw string) (schema.Assessment, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return schema.Assessment{}, ErrNoObject
	}
	return decode(raw[start : end+1])
}

// Strict requires the whole response, after removing a surrounding markdown
// code fence, to be a single JSON object.
type Strict struct{}

// Interpret implements Interpreter.
func (Strict) Interpret(raw string) (schema.Assessment, error) {
	s := stripMarkdownFences(raw)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return schema.Assessment{}, ErrNoObject
	}
	return decode(s)
}

func decode(span string) (schema.Assessment, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return schema.Assessment{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Coerce(fields), nil
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line (no closing fence required).
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that
// models sometimes wrap around JSON output. A lone opening fence (truncated
// response) is stripped too.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// Coerce maps decoded JSON fields onto an Assessment. Fields of the wrong
// type are treated as missing. A present recommended_groups key yields a
// non-nil slice even when empty.
func Coerce(fields map[string]any) schema.Assessment {
	a := schema.Assessment{
		PrimaryTags:        strs(fields["primary_tags"]),
		SecondaryTags:      strs(fields["secondary_tags"]),
		RiskLevel:          risk(fields["risk_level"]),
		PriorityScore:      integer(fields["priority_score"]),
		InterventionNeeded: boolean(fields["intervention_needed"]),
		ResourcePriorities: strs(fields["resource_priorities"]),
		Source:             schema.SourceModel,
	}
	if v, ok := fields["recommended_groups"]; ok && v != nil {
		a.RecommendedGroups = strs(v)
		if a.RecommendedGroups == nil {
			a.RecommendedGroups = []string{}
		}
	}
	if s, ok := fields["reasoning"].(string); ok {
		a.Reasoning = s
	}
	return a
}

// strs keeps the string elements of a list. A bare string becomes a
// one-element list.
func strs(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	}
	return nil
}

// risk normalises case ("critical" → Critical); anything else is kept as-is.
func risk(v any) schema.RiskLevel {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	for _, r := range []schema.RiskLevel{schema.RiskCritical, schema.RiskHigh, schema.RiskMedium, schema.RiskLow} {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return schema.RiskLevel(s)
}

func integer(v any) int {
	switch t := v.(type) {
	case float64:
		switch {
		case math.IsNaN(t):
			return 0
		case t >= float64(math.MaxInt):
			return math.MaxInt
		case t <= float64(math.MinInt):
			return math.MinInt
		}
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

func boolean(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}
