package interview

// CurrentTopic returns the first topic still open for questions, in plan order.
// The returned pointer aliases the plan's topic slice.
func CurrentTopic(plan *InterviewPlan) *Topic {
	if plan == nil {
		return nil
	}
	for i := range plan.Topics {
		if plan.Topics[i].Status.Open() {
			return &plan.Topics[i]
		}
	}
	return nil
}

// NextTopic returns the first pending topic strictly after the topic named
// after. It returns nil when after is not in the plan or nothing is pending.
func NextTopic(plan *InterviewPlan, after string) *Topic {
	if plan == nil {
		return nil
	}
	found := false
	for i := range plan.Topics {
		t := &plan.Topics[i]
		if !found {
			found = t.Name == after
			continue
		}
		if t.Status == TopicPending {
			return t
		}
	}
	return nil
}

// Advance records one asked question against the current topic, completing it
// once its budget is spent. At most one topic changes per call. It returns the
// advanced topic, or nil when the plan has nothing open.
func Advance(plan *InterviewPlan) *Topic {
	t := CurrentTopic(plan)
	if t == nil {
		return nil
	}
	t.Status = TopicInProgress
	t.QuestionsAsked++
	if t.QuestionsAsked >= t.QuestionBudget {
		t.Status = TopicCompleted
	}
	return t
}
