package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleTopicPlan(asked, budget int) *InterviewPlan {
	return &InterviewPlan{Topics: []Topic{
		{Name: "Concurrency", Priority: 1, QuestionBudget: budget, QuestionsAsked: asked, Status: TopicInProgress},
		{Name: "Testing", Priority: 2, QuestionBudget: 2, Status: TopicPending},
	}}
}

func TestDecideWithoutPlanReturnsDefault(t *testing.T) {
	for _, plan := range []*InterviewPlan{nil, {}} {
		d := Decide(&AnswerAnalysis{Quality: QualityExcellent}, plan)
		assert.Equal(t, DefaultTopicName, d.NextTopic)
		assert.Equal(t, DifficultyMedium, d.Difficulty)
		assert.Equal(t, ActionAskQuestion, d.Action)
	}
}

func TestDecideEndsWhenNoTopicOpen(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{{Name: "A", Status: TopicCompleted}, {Name: "B", Status: TopicSkipped}}}
	d := Decide(&AnswerAnalysis{Quality: QualityExcellent}, plan)
	assert.Equal(t, ActionEndInterview, d.Action)
}

func TestDecideQualityMapping(t *testing.T) {
	cases := []struct {
		quality    AnswerQuality
		difficulty Difficulty
		action     Action
		hint       bool
	}{
		{QualityExcellent, DifficultyHard, ActionAskFollowup, false},
		{QualityGood, DifficultyMedium, ActionAskQuestion, false},
		{QualityPartial, DifficultyMedium, ActionAskFollowup, false},
		{QualityPoor, DifficultyEasy, ActionGiveHint, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.quality), func(t *testing.T) {
			d := Decide(&AnswerAnalysis{Quality: tc.quality}, singleTopicPlan(0, 3))
			assert.Equal(t, "Concurrency", d.NextTopic)
			assert.Equal(t, tc.difficulty, d.Difficulty)
			assert.Equal(t, tc.action, d.Action)
			assert.Equal(t, tc.hint, d.Hint != "")
		})
	}
}

func TestDecideWithoutAnalysisAsksQuestion(t *testing.T) {
	d := Decide(nil, singleTopicPlan(0, 3))
	assert.Equal(t, ActionAskQuestion, d.Action)
	assert.Equal(t, "Concurrency", d.NextTopic)
}

func TestDecideOffTopicOverridesQuality(t *testing.T) {
	d := Decide(&AnswerAnalysis{Quality: QualityExcellent, OffTopic: true}, singleTopicPlan(0, 3))
	assert.Equal(t, ActionAskQuestion, d.Action)
	assert.Equal(t, DifficultyHard, d.Difficulty)
}

func TestDecideBudgetExhaustionChangesTopic(t *testing.T) {
	d := Decide(&AnswerAnalysis{Quality: QualityExcellent, OffTopic: true}, singleTopicPlan(2, 2))
	assert.Equal(t, ActionChangeTopic, d.Action)
	assert.Equal(t, "Testing", d.NextTopic)
}

func TestDecideBudgetExhaustionWithoutNextTopicEnds(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{
		{Name: "Only", QuestionBudget: 1, QuestionsAsked: 1, Status: TopicInProgress},
	}}
	d := Decide(&AnswerAnalysis{Quality: QualityGood}, plan)
	assert.Equal(t, ActionEndInterview, d.Action)
}

func TestDecideUsesCarriedOverCount(t *testing.T) {
	// One question short of the budget: routing does not react yet.
	d := Decide(&AnswerAnalysis{Quality: QualityGood}, singleTopicPlan(1, 2))
	assert.Equal(t, ActionAskQuestion, d.Action)
	assert.Equal(t, "Concurrency", d.NextTopic)
}

func TestDecideDoesNotMutatePlan(t *testing.T) {
	plan := singleTopicPlan(2, 2)
	before := plan.Clone()
	Decide(&AnswerAnalysis{Quality: QualityPoor}, plan)
	assert.Equal(t, before, plan)
}
