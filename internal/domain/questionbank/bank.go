// Package questionbank resolves a role to a deterministic interview sequence.
package questionbank

import (
	"fmt"
	"strings"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

// baseQuestions is the generic sequence every role falls back to.
var baseQuestions = []model.Question{
	{
		ID:       "q1",
		Prompt:   "Walk me through your most impactful project.",
		Category: "experience",
		Hints:    []string{"project", "impact", "built", "shipped", "team"},
	},
	{
		ID:       "q2",
		Prompt:   "Tell me about a time you improved performance. How did you measure it?",
		Category: "impact",
		Hints:    []string{"performance", "latency", "measure", "metric", "improve", "profil"},
	},
	{
		ID:       "q3",
		Prompt:   "Pick one key skill on your resume and go deep. What do you actually know?",
		Category: "skill",
		Hints:    []string{"design", "tradeoff", "internals", "debug", "scale"},
	},
	{
		ID:       "q4",
		Prompt:   "Describe a failure. What did you learn and change next time?",
		Category: "learning",
		Hints:    []string{"failure", "mistake", "learn", "change", "postmortem", "fix"},
	},
}

// tailored holds role-specific sequences keyed by normalized role name.
var tailored = map[string][]model.Question{
	"backend engineer": {
		{
			ID:       "q1",
			Prompt:   "Walk me through a service you own end to end. What breaks first under load?",
			Category: "experience",
			Hints:    []string{"service", "load", "scale", "bottleneck", "database", "cache"},
		},
		{
			ID:       "q2",
			Prompt:   "Tell me about a latency problem you chased down. How did you measure it?",
			Category: "impact",
			Hints:    []string{"latency", "ms", "profil", "trace", "p99", "measure"},
		},
		{
			ID:       "q3",
			Prompt:   "How do you keep concurrent writes from corrupting shared state?",
			Category: "skill",
			Hints:    []string{"lock", "mutex", "transaction", "race", "queue", "idempot"},
		},
		{
			ID:       "q4",
			Prompt:   "Describe an outage you caused or handled. What changed afterwards?",
			Category: "learning",
			Hints:    []string{"outage", "incident", "rollback", "monitor", "alert", "postmortem"},
		},
	},
	"frontend engineer": {
		{
			ID:       "q1",
			Prompt:   "Walk me through the most complex interface you have shipped.",
			Category: "experience",
			Hints:    []string{"component", "state", "render", "shipped", "users"},
		},
		{
			ID:       "q2",
			Prompt:   "Tell me about a time you made a page measurably faster.",
			Category: "impact",
			Hints:    []string{"bundle", "render", "ms", "lighthouse", "measure", "lazy"},
		},
		{
			ID:       "q3",
			Prompt:   "How do you manage state across a large application?",
			Category: "skill",
			Hints:    []string{"state", "store", "props", "cache", "sync"},
		},
		{
			ID:       "q4",
			Prompt:   "Describe a UI decision you got wrong. What did you learn?",
			Category: "learning",
			Hints:    []string{"feedback", "usability", "learn", "change", "iterate"},
		},
	},
	"data scientist": {
		{
			ID:       "q1",
			Prompt:   "Walk me through a model you took from notebook to production.",
			Category: "experience",
			Hints:    []string{"model", "production", "pipeline", "feature", "deploy"},
		},
		{
			ID:       "q2",
			Prompt:   "Tell me about a result that changed a business decision. How did you validate it?",
			Category: "impact",
			Hints:    []string{"validate", "metric", "baseline", "test", "revenue", "users"},
		},
		{
			ID:       "q3",
			Prompt:   "How do you detect and handle drift once a model is live?",
			Category: "skill",
			Hints:    []string{"drift", "monitor", "retrain", "distribution", "alert"},
		},
		{
			ID:       "q4",
			Prompt:   "Describe an analysis that turned out to be wrong. What changed in your process?",
			Category: "learning",
			Hints:    []string{"wrong", "bias", "learn", "assumption", "review"},
		},
	},
}

// Bank resolves interview sequences. Resolution is pure and deterministic:
// the same role always yields the same sequence, which keeps tests
// reproducible and lets join replay the current question.
type Bank struct {
	sets map[string][]model.Question
	base []model.Question
}

// Option applies a configuration option to the Bank.
type Option func(*Bank)

// WithSet registers or replaces the tailored sequence for a role. The
// empty role overrides the generic fallback sequence.
func WithSet(role string, questions []model.Question) Option {
	return func(b *Bank) {
		if len(questions) == 0 {
			return
		}
		if normalize(role) == "" {
			b.base = questions
			return
		}
		b.sets[normalize(role)] = questions
	}
}

// New creates a Bank with the built-in sequences.
func New(opts ...Option) *Bank {
	b := &Bank{
		sets: make(map[string][]model.Question, len(tailored)),
		base: baseQuestions,
	}
	for role, qs := range tailored {
		b.sets[role] = qs
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// QuestionsFor returns the ordered sequence for role. Unknown roles fall
// back to the generic set. A non-empty role appends a closing fit question.
// The returned slice is a copy; callers may not mutate bank state.
func (b *Bank) QuestionsFor(role string) []model.Question {
	src := b.base
	if qs, ok := b.sets[normalize(role)]; ok {
		src = qs
	}

	out := make([]model.Question, len(src), len(src)+1)
	copy(out, src)

	if strings.TrimSpace(role) != "" {
		out = append(out, model.Question{
			ID:       fmt.Sprintf("q%d", len(out)+1),
			Prompt:   fmt.Sprintf("What makes you a fit for %s?", strings.TrimSpace(role)),
			Category: "fit",
			Hints:    []string{"fit", "role", "strength", "motivat", "experience"},
		})
	}
	return out
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
