package interview

import "testing"

func threeTopicPlan() *InterviewPlan {
	return &InterviewPlan{Topics: []Topic{
		{Name: "A", Priority: 1, QuestionBudget: 1, Status: TopicCompleted, QuestionsAsked: 1},
		{Name: "B", Priority: 2, QuestionBudget: 2, Status: TopicPending},
		{Name: "C", Priority: 3, QuestionBudget: 1, Status: TopicSkipped},
		{Name: "D", Priority: 4, QuestionBudget: 1, Status: TopicPending},
	}}
}

func TestCurrentTopicSkipsClosedTopics(t *testing.T) {
	plan := threeTopicPlan()
	got := CurrentTopic(plan)
	if got == nil || got.Name != "B" {
		t.Fatalf("expected B, got %#v", got)
	}
	again := CurrentTopic(plan)
	if again != got {
		t.Fatalf("expected repeated lookups to return the same topic")
	}
}

func TestCurrentTopicNilAndExhausted(t *testing.T) {
	if CurrentTopic(nil) != nil {
		t.Fatalf("expected nil for nil plan")
	}
	plan := &InterviewPlan{Topics: []Topic{{Name: "A", Status: TopicCompleted}}}
	if CurrentTopic(plan) != nil {
		t.Fatalf("expected nil when every topic is closed")
	}
}

func TestNextTopicFindsPendingAfterNamedTopic(t *testing.T) {
	plan := threeTopicPlan()
	if got := NextTopic(plan, "B"); got == nil || got.Name != "D" {
		t.Fatalf("expected D after B, got %#v", got)
	}
	if got := NextTopic(plan, "D"); got != nil {
		t.Fatalf("expected nothing after D, got %#v", got)
	}
	if got := NextTopic(plan, "missing"); got != nil {
		t.Fatalf("expected nil for unknown topic, got %#v", got)
	}
}

func TestNextTopicIgnoresInProgress(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{
		{Name: "A", Status: TopicInProgress},
		{Name: "B", Status: TopicInProgress},
		{Name: "C", Status: TopicPending},
	}}
	if got := NextTopic(plan, "A"); got == nil || got.Name != "C" {
		t.Fatalf("expected C, got %#v", got)
	}
}

func TestAdvanceMutatesOnlyCurrentTopic(t *testing.T) {
	plan := threeTopicPlan()

	got := Advance(plan)
	if got == nil || got.Name != "B" {
		t.Fatalf("expected B advanced, got %#v", got)
	}
	if plan.Topics[1].Status != TopicInProgress || plan.Topics[1].QuestionsAsked != 1 {
		t.Fatalf("unexpected B after first advance: %#v", plan.Topics[1])
	}
	if plan.Topics[3].QuestionsAsked != 0 || plan.Topics[3].Status != TopicPending {
		t.Fatalf("D must not change: %#v", plan.Topics[3])
	}

	Advance(plan)
	if plan.Topics[1].Status != TopicCompleted || plan.Topics[1].QuestionsAsked != 2 {
		t.Fatalf("expected B completed at budget, got %#v", plan.Topics[1])
	}

	Advance(plan)
	if plan.Topics[3].Status != TopicCompleted {
		t.Fatalf("expected D completed, got %#v", plan.Topics[3])
	}
	if Advance(plan) != nil {
		t.Fatalf("expected nil once all topics are closed")
	}
}

func TestSingleTopicBudgetOneCompletesAfterOneAdvance(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{{Name: "Go", Priority: 1, QuestionBudget: 1, Status: TopicPending}}}
	Advance(plan)
	if plan.Topics[0].Status != TopicCompleted {
		t.Fatalf("expected completed, got %s", plan.Topics[0].Status)
	}
}

func TestNormalizeRepairsTopics(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{
		{Name: "A", Priority: 0, QuestionBudget: 0, Status: "weird", QuestionsAsked: -2},
		{Name: "B", Priority: 5, QuestionBudget: 3, Status: TopicSkipped},
	}}
	plan.Normalize()

	a := plan.Topics[0]
	if a.Priority != 1 || a.QuestionBudget != 1 || a.Status != TopicPending || a.QuestionsAsked != 0 {
		t.Fatalf("unexpected normalized topic: %#v", a)
	}
	if plan.Topics[1].Priority != 5 || plan.Topics[1].Status != TopicSkipped {
		t.Fatalf("valid topic must be untouched: %#v", plan.Topics[1])
	}
}
