// Package scoring defines the contract for scoring free-text answers.
//
// The scorer is a pluggable strategy: keyword lists and weights can be
// tuned here without touching the session state machine.
package scoring

import (
	"context"
	"math"
	"strings"
)

const maxScore = 100

// Input carries everything needed to score one transcript.
type Input struct {
	// QuestionHints are the keyword hints attached to the question.
	QuestionHints []string
	// Skills is the resolved skill context passed into the session.
	Skills []string
	// Category labels the question, used only for feedback phrasing.
	Category string
	// Transcript is the candidate's answer.
	Transcript string
}

// Result contains the computed score and the feedback hint shown live.
type Result struct {
	Score    float64
	Feedback string
}

// Scorer computes a content score in [0,100] from an input. Implementations
// must be pure: no session state, identical input yields identical output.
type Scorer interface {
	Score(ctx context.Context, in Input) (Result, error)
}

// structureMarkers are the narrative-structure cues (situation/task/
// action/result style phrasing) used as a structural quality signal.
var structureMarkers = []string{"situation", "task", "action", "result"}

// impactMarkers are vocabulary cues of measurable impact.
var impactMarkers = []string{"%", "users", "ms", "latency", "revenue", "cost", "throughput"}

// Heuristic implements Scorer with keyword-coverage and structure analysis.
type Heuristic struct {
	coverageWeight  float64
	structureWeight float64
	impactWeight    float64
	lengthWeight    float64
}

// Option applies a configuration option to the Heuristic scorer.
type Option func(*Heuristic)

// WithWeights overrides the component weights. Weights must be positive;
// zero or negative values keep the defaults.
func WithWeights(coverage, structure, impact, length float64) Option {
	return func(h *Heuristic) {
		if coverage > 0 {
			h.coverageWeight = coverage
		}
		if structure > 0 {
			h.structureWeight = structure
		}
		if impact > 0 {
			h.impactWeight = impact
		}
		if length > 0 {
			h.lengthWeight = length
		}
	}
}

// NewHeuristic creates the default answer scorer.
func NewHeuristic(opts ...Option) *Heuristic {
	h := &Heuristic{
		coverageWeight:  0.45,
		structureWeight: 0.20,
		impactWeight:    0.15,
		lengthWeight:    0.20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Score computes the content score for one transcript.
func (h *Heuristic) Score(_ context.Context, in Input) (Result, error) {
	text := strings.ToLower(strings.TrimSpace(in.Transcript))
	if text == "" {
		return Result{
			Score:    0,
			Feedback: "No answer captured. Give a specific example: what was the situation and what did you do?",
		}, nil
	}

	coverage := keywordCoverage(text, in.QuestionHints, in.Skills)
	structure := markerRatio(text, structureMarkers)
	impact := 0.0
	if containsAny(text, impactMarkers) {
		impact = 1.0
	}
	length := lengthFactor(text)

	total := h.coverageWeight + h.structureWeight + h.impactWeight + h.lengthWeight
	raw := (h.coverageWeight*coverage +
		h.structureWeight*structure +
		h.impactWeight*impact +
		h.lengthWeight*length) / total

	score := math.Max(0, math.Min(maxScore, raw*maxScore))

	return Result{
		Score:    score,
		Feedback: feedback(score, coverage, structure, impact, in.Category),
	}, nil
}

// keywordCoverage is the ratio of question/skill keywords present in the
// transcript. Hints are matched as lowercase stems.
func keywordCoverage(text string, hints, skills []string) float64 {
	keywords := make([]string, 0, len(hints)+len(skills))
	keywords = append(keywords, hints...)
	keywords = append(keywords, skills...)
	if len(keywords) == 0 {
		return 0
	}

	found := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

func markerRatio(text string, markers []string) float64 {
	found := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			found++
		}
	}
	return float64(found) / float64(len(markers))
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// lengthFactor saturates at 50 words, mirroring the idea that depth beyond
// a point stops adding signal.
func lengthFactor(text string) float64 {
	words := len(strings.Fields(text))
	if words >= 50 {
		return 1.0
	}
	return float64(words) / 50.0
}

func feedback(score, coverage, structure, impact float64, category string) string {
	switch {
	case score >= 80:
		return "Strong answer: specific and measurable. Keep that level of detail."
	case structure == 0:
		return "Try framing it as situation, task, action, result."
	case impact == 0:
		return "Quantify the impact: numbers, users, or latency make it credible."
	case coverage < 0.2 && category != "":
		return "Tie your answer back to the " + category + " the question asked about."
	default:
		return "Nice depth. Mention the tools you used and how you measured the outcome."
	}
}
