// Package triage runs the per-profile pipeline: render, one reasoning call,
// interpret or fall back, then enhance. Assess always yields an assessment.
package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/peertriage/internal/enhance"
	"github.com/dshills/peertriage/internal/fallback"
	"github.com/dshills/peertriage/internal/interpret"
	"github.com/dshills/peertriage/internal/narrative"
	"github.com/dshills/peertriage/internal/outreach"
	"github.com/dshills/peertriage/internal/profile"
	"github.com/dshills/peertriage/internal/schema"
)

// ErrNoClient is the fallback cause when the engine was built without a
// reasoning client.
var ErrNoClient = errors.New("triage: no reasoning client")

// DefaultBatchLimit bounds concurrent requests in Batch when limit <= 0.
const DefaultBatchLimit = 4

// Reasoner is the reasoning client as seen by the engine. *llm.Client
// satisfies it.
type Reasoner interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Options configures an Engine. Only Client is required; a nil Client sends
// every profile down the fallback path.
type Options struct {
	Client          Reasoner
	Interpreter     interpret.Interpreter
	Enhancer        enhance.Enhancer
	Logger          *zap.Logger
	Now             func() time.Time
	DisableOutreach bool
}

// Engine is safe for concurrent use; each request owns its assessment.
type Engine struct {
	client       Reasoner
	interpreter  interpret.Interpreter
	enhancer     enhance.Enhancer
	outreach     outreach.Generator
	logger       *zap.Logger
	now          func() time.Time
	sendOutreach bool
}

// New builds an Engine from opts.
func New(opts Options) *Engine {
	e := &Engine{
		client:       opts.Client,
		interpreter:  opts.Interpreter,
		enhancer:     opts.Enhancer,
		logger:       opts.Logger,
		now:          opts.Now,
		sendOutreach: !opts.DisableOutreach,
	}
	if e.interpreter == nil {
		e.interpreter = interpret.Bracket{}
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.enhancer.Now == nil {
		e.enhancer.Now = e.now
	}
	if e.client != nil {
		e.outreach = outreach.Generator{Client: e.client}
	}
	return e
}

// Assess produces the finished assessment for p. The reasoning service is
// called exactly once; any failure to obtain or decode its answer switches
// to the rule-based assessment. Assess never fails.
func (e *Engine) Assess(ctx context.Context, p profile.Profile) schema.Assessment {
	start := time.Now()
	p = p.WithDefaults()
	log := e.logger.With(zap.String("profile", p.FullName))

	base, modelUsed, err := e.reason(ctx, p)
	if err != nil {
		log.Warn("reasoning unavailable, using fallback assessment", zap.Error(err))
		base = fallback.Assess(p)
		modelUsed = schema.FallbackModel
	}

	out := e.enhancer.Enhance(base, p, modelUsed)
	log.Info("assessment complete",
		zap.String("source", string(out.Source)),
		zap.String("risk_level", string(out.RiskLevel)),
		zap.Int("calculated_priority_score", out.CalculatedPriorityScore),
		zap.Bool("intervention_needed", out.InterventionNeeded),
		zap.Duration("duration", time.Since(start)),
	)
	return out
}

// reason performs the single model call and interprets its text.
func (e *Engine) reason(ctx context.Context, p profile.Profile) (schema.Assessment, string, error) {
	if e.client == nil {
		return schema.Assessment{}, "", ErrNoClient
	}
	userPrompt := AnalysisPrompt(narrative.Render(p, e.now()))
	raw, err := e.client.Invoke(ctx, AnalysisSystemPrompt(e.enhancer.Tags()), userPrompt)
	if err != nil {
		return schema.Assessment{}, "", err
	}
	e.logger.Debug("reasoning response", zap.Int("bytes", len(raw)))

	a, err := e.interpreter.Interpret(raw)
	if err != nil {
		return schema.Assessment{}, "", err
	}
	a.Source = schema.SourceModel
	return a, e.client.Model(), nil
}

// Triage assesses p and, unless disabled, asks for an outreach message.
func (e *Engine) Triage(ctx context.Context, p profile.Profile) schema.Result {
	p = p.WithDefaults()
	a := e.Assess(ctx, p)
	res := schema.Result{Name: p.FullName, Assessment: a}
	if e.sendOutreach {
		res.Outreach = e.outreach.Generate(ctx, p, a)
		if res.Outreach == "" {
			e.logger.Debug("no outreach generated", zap.String("profile", p.FullName))
		}
	}
	return res
}

// Batch triages profiles concurrently, at most limit at a time, and returns
// results in input order. Requests share nothing; duplicates are assessed
// independently.
func (e *Engine) Batch(ctx context.Context, profiles []profile.Profile, limit int) []schema.Result {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	results := make([]schema.Result, len(profiles))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			results[i] = e.Triage(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AnalysisSystemPrompt lists the allowed tags and the expected JSON fields.
func AnalysisSystemPrompt(tags []string) string {
	var sb strings.Builder
	sb.WriteString("You are a veteran services specialist with expertise in mental health, career counseling, and veteran support services. ")
	sb.WriteString("Your task is to analyze veteran profiles and provide structured assessments.\n\n")
	fmt.Fprintf(&sb, "Available tags for classification: %s\n\n", strings.Join(tags, ", "))
	sb.WriteString("Respond with a JSON object containing:\n")
	sb.WriteString("- primary_tags: Most important 3-5 tags that define this veteran's immediate needs\n")
	sb.WriteString("- secondary_tags: Additional 2-4 tags for supplementary characteristics\n")
	sb.WriteString("- risk_level: \"Critical\", \"High\", \"Medium\", or \"Low\"\n")
	sb.WriteString("- priority_score: Integer 1-20 based on urgency of needs\n")
	sb.WriteString("- intervention_needed: true/false for immediate crisis intervention\n")
	sb.WriteString("- recommended_groups: List of 2-4 specific support group names\n")
	sb.WriteString("- resource_priorities: List of 3-5 prioritized resources/services\n")
	sb.WriteString("- reasoning: Brief explanation of your assessment\n\n")
	sb.WriteString("Focus on identifying veterans who need immediate support, those at risk, and matching them with appropriate peer groups and resources.")
	return sb.String()
}

// AnalysisPrompt wraps a rendered narrative in the analysis request.
func AnalysisPrompt(narrativeText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this veteran's profile and provide a comprehensive assessment:\n\n")
	sb.WriteString(narrativeText)
	sb.WriteString("\n\nConsider:\n")
	sb.WriteString("1. Mental health indicators and crisis risk factors\n")
	sb.WriteString("2. Employment and career transition needs\n")
	sb.WriteString("3. Social support and engagement levels\n")
	sb.WriteString("4. Housing stability and basic needs\n")
	sb.WriteString("5. Military background and discharge timing\n")
	sb.WriteString("6. Expressed interests and goals\n\n")
	sb.WriteString("Provide your analysis as a valid JSON object only.")
	return sb.String()
}
