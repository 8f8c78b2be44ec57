package interview

import (
	"fmt"
	"strings"
)

// SkillObservation is a skill the evaluator saw demonstrated this turn.
type SkillObservation struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
}

// GapObservation is a weakness the evaluator saw this turn.
type GapObservation struct {
	Skill    string   `json:"skill"`
	Severity Severity `json:"severity"`
}

// TurnAssessment is the evaluator's partial finding for one turn. The counters
// are session totals as estimated by the evaluator.
type TurnAssessment struct {
	SkillsConfirmed        []SkillObservation `json:"skills_confirmed"`
	SkillGaps              []GapObservation   `json:"skills_gaps"`
	SoftSkills             SoftSkills         `json:"soft_skills"`
	HallucinationsDetected int                `json:"hallucinations_detected"`
	OffTopicAttempts       int                `json:"off_topic_attempts"`
	GradeEstimate          GradeEstimate      `json:"current_grade_estimate"`
	GradeConfidence        float64            `json:"grade_confidence"`
	Reasoning              string             `json:"reasoning"`
}

// Clone returns a deep copy of the assessment.
func (a *TurnAssessment) Clone() *TurnAssessment {
	if a == nil {
		return nil
	}
	out := *a
	out.SkillsConfirmed = append([]SkillObservation(nil), a.SkillsConfirmed...)
	out.SkillGaps = append([]GapObservation(nil), a.SkillGaps...)
	return &out
}

// Merge folds one turn's assessment into the running evaluation and returns
// the result. current is not modified.
//
// Confirmed skills keep the highest confidence ever seen and collect the turn
// ids that evidenced them. Gaps are frozen at first detection. Soft skills,
// grade and grade confidence take the latest values. The counters carry
// forward untouched; the evaluator's own counts are ignored and only
// DegradedUpdate increments them.
// The confidence history always receives the latest grade confidence.
func Merge(current EvaluationState, turn TurnAssessment, turnID int) EvaluationState {
	next := current.Clone()

	index := make(map[string]int, len(next.SkillsConfirmed))
	for i, s := range next.SkillsConfirmed {
		index[s.Skill] = i
	}
	for _, obs := range turn.SkillsConfirmed {
		name := strings.TrimSpace(obs.Skill)
		if name == "" {
			continue
		}
		conf := clamp01(obs.Confidence)
		if i, ok := index[name]; ok {
			existing := &next.SkillsConfirmed[i]
			if conf > existing.Confidence {
				existing.Confidence = conf
			}
			existing.Evidence = append(existing.Evidence, turnID)
			continue
		}
		index[name] = len(next.SkillsConfirmed)
		next.SkillsConfirmed = append(next.SkillsConfirmed, SkillConfirmation{
			Skill:      name,
			Confidence: conf,
			Evidence:   []int{turnID},
		})
	}

	seen := make(map[string]struct{}, len(next.SkillGaps))
	for _, g := range next.SkillGaps {
		seen[g.Skill] = struct{}{}
	}
	for _, obs := range turn.SkillGaps {
		name := strings.TrimSpace(obs.Skill)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sev := obs.Severity
		if sev != SeverityLow && sev != SeverityHigh {
			sev = SeverityMedium
		}
		next.SkillGaps = append(next.SkillGaps, SkillGap{Skill: name, Severity: sev, FailedAtTurn: turnID})
	}

	next.SoftSkills = SoftSkills{
		Clarity:    clamp01(turn.SoftSkills.Clarity),
		Honesty:    clamp01(turn.SoftSkills.Honesty),
		Engagement: clamp01(turn.SoftSkills.Engagement),
	}
	if turn.GradeEstimate.Valid() {
		next.GradeEstimate = turn.GradeEstimate
	}
	next.GradeConfidence = clamp01(turn.GradeConfidence)
	next.ConfidenceHistory = append(next.ConfidenceHistory, next.GradeConfidence)
	return next
}

// DegradedUpdate is used when no assessment is available for the turn. Skills,
// soft skills and grade carry forward unchanged; only the counters move, and
// the confidence history is left alone.
func DegradedUpdate(current EvaluationState, analysis *AnswerAnalysis, facts *FactCheckResult) EvaluationState {
	next := current.Clone()
	if facts != nil {
		next.HallucinationsDetected += len(facts.VerifiedFalse)
	}
	if analysis != nil && analysis.OffTopic {
		next.OffTopicAttempts++
	}
	return next
}

// Trend labels returned by ComputeTrend.
const (
	TrendInsufficient = "insufficient data"
	TrendRising       = "rising"
	TrendFalling      = "falling"
	TrendStable       = "stable"
)

// ComputeTrend compares the mean grade confidence of the first half of the
// history with the second half.
func ComputeTrend(history []float64) string {
	if len(history) < 2 {
		return TrendInsufficient
	}
	mid := len(history) / 2
	first := mean(history[:mid])
	second := mean(history[mid:])
	diff := second - first
	switch {
	case diff > 0.1:
		return fmt.Sprintf("%s (%.2f -> %.2f)", TrendRising, first, second)
	case diff < -0.1:
		return fmt.Sprintf("%s (%.2f -> %.2f)", TrendFalling, first, second)
	default:
		return fmt.Sprintf("%s (~%.2f)", TrendStable, mean(history))
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
