// Package outreach asks the reasoning service for a personalized welcome
// message. There is no fallback text: failure yields "".
package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
)

// Invoker is the slice of llm.Client the generator needs.
type Invoker interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator writes outreach messages through an Invoker.
type Generator struct {
	Client Invoker
}

// SystemPrompt sets the peer-support voice for every message.
const SystemPrompt = "You are a veteran peer support specialist writing personalized, empathetic outreach messages. " +
	"Write in a warm, respectful, veteran-to-veteran tone. " +
	"Keep messages concise (2-3 paragraphs) and actionable."

// Generate returns a message for p based on a, or "" when the service fails.
// An empty result means no outreach was generated; it is not an error.
func (g Generator) Generate(ctx context.Context, p profile.Profile, a schema.Assessment) string {
	if g.Client == nil {
		return ""
	}
	text, err := g.Client.Invoke(ctx, SystemPrompt, BuildPrompt(p, a))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// BuildPrompt assembles the outreach request for p and a.
func BuildPrompt(p profile.Profile, a schema.Assessment) string {
	var sb strings.Builder

	sb.WriteString("Write a personalized welcome message for this veteran based on their profile and needs assessment:\n\n")
	fmt.Fprintf(&sb, "Veteran: %s\n", p.FullName)
	fmt.Fprintf(&sb, "Service: %s (%d years)\n", p.BranchOfService, p.YearsOfService)
	fmt.Fprintf(&sb, "Current needs: %s\n", strings.Join(a.PrimaryTags, ", "))
	risk := string(a.RiskLevel)
	if risk == "" {
		risk = "Unknown"
	}
	fmt.Fprintf(&sb, "Risk level: %s\n", risk)
	fmt.Fprintf(&sb, "Recommended groups: %s\n", strings.Join(a.RecommendedGroups, ", "))

	sb.WriteString("\nThe message should:\n")
	sb.WriteString("1. Acknowledge their service\n")
	sb.WriteString("2. Address their specific needs identified in the analysis\n")
	sb.WriteString("3. Invite them to relevant support groups\n")
	sb.WriteString("4. Provide next steps\n")
	sb.WriteString("5. Be encouraging and non-judgmental\n")
	sb.WriteString("\nWrite the message directly without quotes or formatting.")

	return sb.String()
}
