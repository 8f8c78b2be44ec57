package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeKeepsMaxConfidenceAndAppendsEvidence(t *testing.T) {
	ev := NewEvaluationState()
	ev = Merge(ev, TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "SQL", Confidence: 0.8}}, GradeConfidence: 0.5}, 2)
	ev = Merge(ev, TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "SQL", Confidence: 0.3}}, GradeConfidence: 0.6}, 3)
	ev = Merge(ev, TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "SQL", Confidence: 0.9}, {Skill: "Git", Confidence: 0.4}}, GradeConfidence: 0.7}, 5)

	require.Len(t, ev.SkillsConfirmed, 2)
	sql := ev.SkillsConfirmed[0]
	assert.Equal(t, "SQL", sql.Skill)
	assert.Equal(t, 0.9, sql.Confidence)
	assert.Equal(t, []int{2, 3, 5}, sql.Evidence)
	assert.Equal(t, []int{5}, ev.SkillsConfirmed[1].Evidence)
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, ev.ConfidenceHistory)
}

func TestMergeConfidenceNeverDecreases(t *testing.T) {
	ev := NewEvaluationState()
	prev := 0.0
	for turn, c := range []float64{0.4, 0.2, 0.7, 0.1, 0.65} {
		ev = Merge(ev, TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "Go", Confidence: c}}}, turn+2)
		got := ev.SkillsConfirmed[0].Confidence
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, 0.7, prev)
}

func TestMergeGapFirstWriteWins(t *testing.T) {
	ev := NewEvaluationState()
	ev = Merge(ev, TurnAssessment{SkillGaps: []GapObservation{{Skill: "Indexes", Severity: SeverityHigh}}}, 2)
	ev = Merge(ev, TurnAssessment{SkillGaps: []GapObservation{{Skill: "Indexes", Severity: SeverityLow}, {Skill: "Joins", Severity: "bogus"}}}, 4)

	require.Len(t, ev.SkillGaps, 2)
	assert.Equal(t, SkillGap{Skill: "Indexes", Severity: SeverityHigh, FailedAtTurn: 2}, ev.SkillGaps[0])
	assert.Equal(t, SkillGap{Skill: "Joins", Severity: SeverityMedium, FailedAtTurn: 4}, ev.SkillGaps[1])

	ev = Merge(ev, TurnAssessment{}, 6)
	assert.Len(t, ev.SkillGaps, 2, "gaps are never removed")
}

func TestMergeReplacesLatestValuesAndCarriesCountersForward(t *testing.T) {
	ev := NewEvaluationState()
	ev.HallucinationsDetected = 2
	ev.OffTopicAttempts = 1

	next := Merge(ev, TurnAssessment{
		SoftSkills:             SoftSkills{Clarity: 0.9, Honesty: 1.4, Engagement: -1},
		HallucinationsDetected: 1,
		OffTopicAttempts:       3,
		GradeEstimate:          EstimateMiddleMinus,
		GradeConfidence:        0.75,
	}, 3)

	assert.Equal(t, SoftSkills{Clarity: 0.9, Honesty: 1, Engagement: 0}, next.SoftSkills)
	// Reported counts do not touch the counters, whether lower or higher.
	assert.Equal(t, 2, next.HallucinationsDetected)
	assert.Equal(t, 1, next.OffTopicAttempts)
	assert.Equal(t, EstimateMiddleMinus, next.GradeEstimate)
	assert.Equal(t, 0.75, next.GradeConfidence)
}

func TestMergeIgnoresUnknownGrade(t *testing.T) {
	ev := NewEvaluationState()
	ev.GradeEstimate = EstimateMiddle
	next := Merge(ev, TurnAssessment{GradeEstimate: "Architect"}, 2)
	assert.Equal(t, EstimateMiddle, next.GradeEstimate)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	ev := Merge(NewEvaluationState(), TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "Go", Confidence: 0.5}}}, 2)
	snapshot := ev.Clone()
	Merge(ev, TurnAssessment{SkillsConfirmed: []SkillObservation{{Skill: "Go", Confidence: 0.9}}}, 3)
	assert.Equal(t, snapshot, ev)
}

func TestDegradedUpdate(t *testing.T) {
	ev := NewEvaluationState()
	ev.ConfidenceHistory = []float64{0.4}
	ev.GradeEstimate = EstimateMiddle

	next := DegradedUpdate(ev, &AnswerAnalysis{OffTopic: true}, &FactCheckResult{VerifiedFalse: []FalseFact{{Claim: "x"}}})
	assert.Equal(t, 1, next.HallucinationsDetected)
	assert.Equal(t, 1, next.OffTopicAttempts)
	assert.Equal(t, []float64{0.4}, next.ConfidenceHistory)
	assert.Equal(t, EstimateMiddle, next.GradeEstimate)

	same := DegradedUpdate(next, &AnswerAnalysis{}, nil)
	assert.Equal(t, next, same)
}

func TestComputeTrend(t *testing.T) {
	assert.Equal(t, TrendInsufficient, ComputeTrend(nil))
	assert.Equal(t, TrendInsufficient, ComputeTrend([]float64{0.9}))
	assert.True(t, strings.HasPrefix(ComputeTrend([]float64{0.3, 0.4, 0.7, 0.8}), TrendRising))
	assert.True(t, strings.HasPrefix(ComputeTrend([]float64{0.9, 0.8, 0.5}), TrendFalling))
	assert.Equal(t, "stable (~0.55)", ComputeTrend([]float64{0.5, 0.6, 0.55, 0.55}))
}
