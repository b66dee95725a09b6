// Package emotion classifies free text into a small set of emotional states
// and maps each state to a suggested support action.
package emotion

import (
	"context"
	"strings"
	"unicode"
)

// Label is a simplified emotional state.
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Anxious  Label = "anxious"
	Calm     Label = "calm"
	Hopeless Label = "hopeless"
)

// DefaultAction is suggested for labels without a table entry.
const DefaultAction = "Monitor and encourage continued engagement."

// rawLabels maps fine-grained classifier output onto Label.
var rawLabels = map[string]Label{
	"joy":      Happy,
	"love":     Happy,
	"sadness":  Sad,
	"anger":    Angry,
	"disgust":  Angry,
	"fear":     Anxious,
	"surprise": Calm,
	"neutral":  Calm,
}

var actions = map[Label]string{
	Angry:    "Offer breathing exercises and route to human support.",
	Sad:      "Suggest VA mental health resources.",
	Anxious:  "Provide calming techniques and peer group access.",
	Happy:    "Log state and offer journaling prompt.",
	Hopeless: "Trigger crisis line intervention protocol.",
	Calm:     "Encourage wellness goal setting.",
}

// Labels returns every label in a fixed order.
func Labels() []Label {
	return []Label{Happy, Sad, Angry, Anxious, Calm, Hopeless}
}

// Remap converts a raw classifier label to a Label. Simplified labels pass
// through unchanged; anything unrecognised becomes Calm.
func Remap(raw string) Label {
	key := strings.ToLower(strings.TrimSpace(raw))
	if l, ok := rawLabels[key]; ok {
		return l
	}
	if _, ok := actions[Label(key)]; ok {
		return Label(key)
	}
	return Calm
}

// ActionFor returns the suggested action for l.
func ActionFor(l Label) string {
	if a, ok := actions[l]; ok {
		return a
	}
	return DefaultAction
}

// Classifier assigns a Label to text. Implementations never fail; they
// report Calm when no decision can be made.
type Classifier interface {
	Classify(ctx context.Context, text string) Label
}

// Invoker is the slice of llm.Client the model classifier needs.
type Invoker interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ModelClassifier asks the reasoning service for a single emotion word.
type ModelClassifier struct {
	Client Invoker
}

const classifierSystemPrompt = "You classify the dominant emotion in a short message from a veteran. " +
	"Answer with exactly one word from: joy, love, sadness, anger, disgust, fear, surprise, neutral, hopeless."

// Classify implements Classifier.
func (c ModelClassifier) Classify(ctx context.Context, text string) Label {
	if c.Client == nil || strings.TrimSpace(text) == "" {
		return Calm
	}
	out, err := c.Client.Invoke(ctx, classifierSystemPrompt, "Message: "+text)
	if err != nil {
		return Calm
	}
	return Remap(firstWord(out))
}

func firstWord(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
