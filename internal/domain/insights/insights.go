// Package insights reduces a finished session into the final report.
//
// Finalize is pure and deterministic: identical answer records and
// attention state always produce the identical report.
package insights

import (
	"math"
	"regexp"
	"strings"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

const (
	strengthThreshold = 80
	weaknessThreshold = 50
	maxBucket         = 5
)

// Lexical cues scanned across transcripts.
var (
	reTeamwork    = regexp.MustCompile(`(?i)\b(team|collaborat\w*|lead\w*|mentor\w*)\b`)
	reAchievement = regexp.MustCompile(`(?i)\b(achiev\w*|deliver\w*|impact|result\w*|increase\w*|reduce\w*)\b`)
	reProblem     = regexp.MustCompile(`(?i)\b(problem|solve\w*|debug\w*|design\w*)\b`)
	reEngagement  = regexp.MustCompile(`(?i)\b(i|we)\b`)
	reHesitation  = regexp.MustCompile(`(?i)\b(umm+|uhh+|maybe|sort of|kind of)\b`)
)

// Aggregator blends content scores and attention into FinalInsights.
type Aggregator struct {
	contentWeight   float64
	attentionWeight float64
	emaShare        float64
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithScoreWeights sets the content/attention blend of the overall score.
// Non-positive values keep the defaults.
func WithScoreWeights(content, attention float64) Option {
	return func(a *Aggregator) {
		if content > 0 {
			a.contentWeight = content
		}
		if attention > 0 {
			a.attentionWeight = attention
		}
	}
}

// WithAttentionEMAShare sets the share of smoothed attention (vs present
// ratio) inside the attention component. Values outside [0,1] are ignored.
func WithAttentionEMAShare(share float64) Option {
	return func(a *Aggregator) {
		if share >= 0 && share <= 1 {
			a.emaShare = share
		}
	}
}

// New creates an Aggregator with the default 0.7/0.3 weighting.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		contentWeight:   0.7,
		attentionWeight: 0.3,
		emaShare:        0.6,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Finalize computes the end-of-session report from the recorded answers
// and the smoothed attention state.
func (a *Aggregator) Finalize(records []model.AnswerRecord, att model.AttentionState) model.FinalInsights {
	meanContent := meanScore(records)
	attBlend := a.emaShare*att.EMAAttention + (1-a.emaShare)*att.PresentRatio()

	total := a.contentWeight + a.attentionWeight
	overall := (a.contentWeight*meanContent + a.attentionWeight*100*attBlend) / total
	overall = math.Max(0, math.Min(100, overall))

	strengths, weaknesses := buckets(records, att)

	return model.FinalInsights{
		OverallScore:   overall,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		Communication:  communicationLabel(records),
		TechnicalDepth: depthLabel(meanContent),
		Attention: model.AttentionSummary{
			Attention:    att.EMAAttention,
			PresentRatio: att.PresentRatio(),
			SmileRatio:   att.EMASmileRatio,
			Frames:       att.FrameCount,
			Nudges:       att.NudgeCount,
		},
	}
}

func meanScore(records []model.AnswerRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.ContentScore
	}
	return sum / float64(len(records))
}

// buckets derives strengths and weaknesses from per-answer scores, lexical
// cues in the transcripts, and the attention dimension.
func buckets(records []model.AnswerRecord, att model.AttentionState) (strengths, weaknesses []string) {
	for _, r := range records {
		if r.ContentScore >= strengthThreshold {
			strengths = append(strengths, "Answered the "+questionLabel(r)+" question with specific, high-signal detail")
		}
		if r.ContentScore < weaknessThreshold {
			weaknesses = append(weaknesses, "The "+questionLabel(r)+" answer stayed thin; it needs concrete detail")
		}

		text := r.Transcript
		if len(strings.Fields(text)) > 50 {
			strengths = append(strengths, "Provides detailed, in-depth responses")
		}
		if reTeamwork.MatchString(text) {
			strengths = append(strengths, "Demonstrates teamwork or leadership")
		}
		if reAchievement.MatchString(text) {
			strengths = append(strengths, "Highlights measurable achievements")
		}
		if reProblem.MatchString(text) {
			strengths = append(strengths, "Shows analytical and problem-solving skills")
		}

		if text != "" && len(strings.Fields(text)) < 15 {
			weaknesses = append(weaknesses, "Answers are too short and may lack elaboration")
		}
		if text != "" && !reEngagement.MatchString(text) {
			weaknesses = append(weaknesses, "Lacks personal engagement or examples")
		}
		if reHesitation.MatchString(text) {
			weaknesses = append(weaknesses, "Hesitation words reduce confidence")
		}
	}

	if att.FrameCount > 0 {
		if att.EMAAttention > 0.7 {
			strengths = append(strengths, "Maintains good eye contact and focus")
		} else {
			weaknesses = append(weaknesses, "Shows fluctuating attention or camera avoidance")
		}
	}

	return dedupe(strengths, maxBucket), dedupe(weaknesses, maxBucket)
}

func questionLabel(r model.AnswerRecord) string {
	if r.QuestionID == "" {
		return "open"
	}
	return r.QuestionID
}

// dedupe keeps first occurrences in order, capped at limit.
func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, limit)
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func communicationLabel(records []model.AnswerRecord) string {
	words := 0
	answered := 0
	for _, r := range records {
		n := len(strings.Fields(r.Transcript))
		words += n
		if n > 0 {
			answered++
		}
	}
	if answered == 0 {
		return "no signal"
	}
	avg := float64(words) / float64(answered)
	switch {
	case avg >= 60:
		return "articulate"
	case avg >= 30:
		return "clear"
	case avg >= 12:
		return "brief"
	default:
		return "terse"
	}
}

func depthLabel(meanContent float64) string {
	switch {
	case meanContent >= 80:
		return "deep"
	case meanContent >= 60:
		return "solid"
	case meanContent >= 40:
		return "surface"
	default:
		return "shallow"
	}
}
