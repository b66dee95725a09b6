// Package render produces output from finished triage results.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/peertriage/internal/schema"
)

// Format names an output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("render: unknown format %q (want text, json or markdown)", s)
	}
}

// Render dispatches to the renderer for f.
func Render(f Format, results []schema.Result) ([]byte, error) {
	switch f {
	case FormatJSON:
		return RenderJSON(results)
	case FormatMarkdown:
		return []byte(RenderMarkdown(results)), nil
	case FormatText, "":
		return []byte(RenderText(results)), nil
	default:
		return nil, fmt.Errorf("render: unknown format %q", f)
	}
}

// RenderJSON produces a pretty-printed JSON array of results.
// The output round-trips through json.Unmarshal back to equal Results.
func RenderJSON(results []schema.Result) ([]byte, error) {
	if results == nil {
		results = []schema.Result{}
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderText produces the console report printed by the demo.
func RenderText(results []schema.Result) string {
	var sb strings.Builder
	for i, r := range results {
		a := r.Assessment
		fmt.Fprintf(&sb, "--- VETERAN %d: %s ---\n", i+1, r.Name)
		fmt.Fprintf(&sb, "Source: %s (model: %s)\n\n", a.Source, a.ModelUsed)

		sb.WriteString("ANALYSIS RESULTS:\n")
		fmt.Fprintf(&sb, "  Risk Level: %s\n", orUnknown(string(a.RiskLevel)))
		fmt.Fprintf(&sb, "  Priority Score: %d (calculated %d)\n", a.PriorityScore, a.CalculatedPriorityScore)
		fmt.Fprintf(&sb, "  Intervention Needed: %s\n\n", yesNo(a.InterventionNeeded))

		writeList(&sb, "PRIMARY TAGS:", "  • ", a.PrimaryTags)
		writeList(&sb, "SECONDARY TAGS:", "  • ", a.SecondaryTags)
		writeList(&sb, "RECOMMENDED GROUPS:", "  → ", a.RecommendedGroups)

		if len(a.ResourcePriorities) > 0 {
			sb.WriteString("RESOURCE PRIORITIES:\n")
			for j, res := range a.ResourcePriorities {
				fmt.Fprintf(&sb, "  %d. %s\n", j+1, res)
			}
			sb.WriteString("\n")
		}

		if a.Reasoning != "" {
			fmt.Fprintf(&sb, "REASONING: %s\n\n", a.Reasoning)
		}
		if r.Outreach != "" {
			sb.WriteString("PERSONALIZED OUTREACH MESSAGE:\n")
			fmt.Fprintf(&sb, "\"%s\"\n\n", r.Outreach)
		}
		sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	}
	return sb.String()
}

// RenderMarkdown produces a GitHub-flavoured Markdown summary of results,
// suitable for case notes or terminal output. Every tag and group present in
// a result appears in the output.
func RenderMarkdown(results []schema.Result) string {
	var sb strings.Builder

	sb.WriteString("## Peer Triage Report\n\n")
	if len(results) == 0 {
		sb.WriteString("_No profiles assessed._\n")
		return sb.String()
	}

	// Summary table.
	sb.WriteString("| Veteran | Risk | Calculated | Model Score | Intervention | Source |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range results {
		a := r.Assessment
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %s | %s |\n",
			mdEscape(r.Name), orUnknown(string(a.RiskLevel)), a.CalculatedPriorityScore,
			a.PriorityScore, yesNo(a.InterventionNeeded), a.Source)
	}
	sb.WriteString("\n")

	for _, r := range results {
		a := r.Assessment
		fmt.Fprintf(&sb, "<details>\n<summary><strong>%s</strong> [%s]</summary>\n\n",
			mdEscape(r.Name), orUnknown(string(a.RiskLevel)))
		writeBullets(&sb, "Primary tags", a.PrimaryTags)
		writeBullets(&sb, "Secondary tags", a.SecondaryTags)
		writeBullets(&sb, "Recommended groups", a.RecommendedGroups)
		writeBullets(&sb, "Resource priorities", a.ResourcePriorities)
		if a.Reasoning != "" {
			fmt.Fprintf(&sb, "**Reasoning:** %s\n\n", mdEscape(a.Reasoning))
		}
		if r.Outreach != "" {
			fmt.Fprintf(&sb, "**Outreach:**\n\n> %s\n\n", strings.ReplaceAll(r.Outreach, "\n", "\n> "))
		}
		fmt.Fprintf(&sb, "_Model: %s | Assessed: %s_\n\n", a.ModelUsed, a.AnalysisTimestamp)
		sb.WriteString("</details>\n\n")
	}

	return sb.String()
}

func writeList(sb *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + "\n")
	for _, it := range items {
		sb.WriteString(bullet + it + "\n")
	}
	sb.WriteString("\n")
}

// writeBullets renders a labelled Markdown list into sb.
func writeBullets(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s:**\n\n", label)
	for _, it := range items {
		fmt.Fprintf(sb, "- %s\n", mdEscape(it))
	}
	sb.WriteString("\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "No"
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
