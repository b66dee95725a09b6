// Package llm handles reasoning-service communication: provider backends
// and the bounded-wait Client the triage engine calls through.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ErrTransport wraps every failure returned by Client.Invoke: transport
// errors, timeouts, non-success statuses and provider construction errors.
var ErrTransport = errors.New("llm: reasoning service unavailable")

// ErrTimeout is additionally wrapped when the bounded wait expired.
var ErrTimeout = errors.New("llm: reasoning service timed out")

// DefaultTimeout bounds a single Invoke call.
const DefaultTimeout = 30 * time.Second

// Sampling carries the generation parameters sent with every request.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultSampling biases the service toward deterministic, well-formed output.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.1, TopP: 0.9, MaxTokens: 1000}
}

// Provider is the interface for reasoning-service backends. Complete should
// return promptly once ctx is done.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, s Sampling) (string, error)
}

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	Name    string
	BaseURL string
	Model   string
	// Timeout is applied to the HTTP transport where the backend exposes one.
	Timeout time.Duration
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(cfg ProviderConfig) (Provider, error) = defaultNewProvider

// Client sends a single synchronous request per Invoke and never waits
// longer than its timeout.
type Client struct {
	provider Provider
	model    string
	timeout  time.Duration
	sampling Sampling
}

// NewClient returns a Client over p. A nil p is allowed; every Invoke then
// fails with ErrTransport. Non-positive timeout selects DefaultTimeout.
func NewClient(p Provider, model string, timeout time.Duration, s Sampling) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{provider: p, model: model, timeout: timeout, sampling: s}
}

// Model returns the identifier of the model this client talks to.
func (c *Client) Model() string {
	return c.model
}

// Invoke sends the instruction and prompt and returns the service's raw text
// verbatim. Every failure is returned as an error wrapping ErrTransport.
// Invoke returns once the timeout or ctx expires even if the provider keeps
// running.
func (c *Client) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c == nil || c.provider == nil {
		return "", fmt.Errorf("%w: no provider configured", ErrTransport)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type completion struct {
		text string
		err  error
	}
	// Buffered so a provider that ignores ctx can finish without a receiver.
	done := make(chan completion, 1)
	go func() {
		text, err := c.provider.Complete(ctx, systemPrompt, userPrompt, c.sampling)
		done <- completion{text, err}
	}()

	var text string
	var err error
	select {
	case res := <-done:
		text, err = res.text, res.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w: %w", ErrTransport, ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return text, nil
}

// ── Provider dispatch ─────────────────────────────────────────────────────────

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Name) {
	case "ollama", "":
		return newOllamaProvider(cfg)
	case "anthropic":
		return newAnthropicProvider(cfg)
	case "openai":
		return newOpenAIProvider(cfg)
	case "google":
		return newGoogleProvider(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Name)
	}
}

// ── Anthropic provider ───────────────────────────────────────────────────────

// anthropicProvider implements Provider using the Anthropic SDK.
// anthropic.Client is a value type; the SDK's NewClient returns it by value.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(cfg ProviderConfig) (Provider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY environment variable not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &anthropicProvider{client: client, model: cfg.Model}, nil
}

func (p *anthropicProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	s Sampling,
) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(s.MaxTokens),
		Temperature: anthropic.Float(s.Temperature),
		TopP:        anthropic.Float(s.TopP),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		// "text" is the only content type that carries assistant output.
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: response contained no text content blocks")
	}
	return strings.Join(parts, ""), nil
}
