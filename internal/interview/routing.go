package interview

import "fmt"

// DefaultTopicName is used when the session has no usable plan.
const DefaultTopicName = "general"

// GenericHint accompanies give_hint decisions.
const GenericHint = "Think about the underlying basic concepts."

// Decide maps the turn's answer analysis and the plan's progress to the next
// interviewer action. It does not mutate plan.
//
// The budget check reads the asked-count carried over from the previous turn,
// so routing reacts to an exhausted topic one turn after the budget is reached.
func Decide(analysis *AnswerAnalysis, plan *InterviewPlan) RouterDecision {
	decision := RouterDecision{
		NextTopic:  DefaultTopicName,
		Difficulty: DifficultyMedium,
		Action:     ActionAskQuestion,
		Rationale:  "continue",
	}
	if plan == nil || len(plan.Topics) == 0 {
		return decision
	}

	current := CurrentTopic(plan)
	if current == nil {
		decision.Action = ActionEndInterview
		decision.Rationale = "all topics covered"
		return decision
	}
	decision.NextTopic = current.Name

	if analysis != nil {
		switch analysis.Quality {
		case QualityExcellent:
			decision.Difficulty = DifficultyHard
			decision.Action = ActionAskFollowup
			decision.Rationale = "strong answer, go deeper"
		case QualityGood:
			decision.Action = ActionAskQuestion
			decision.Rationale = "solid answer, next question"
		case QualityPartial:
			decision.Action = ActionAskFollowup
			decision.Rationale = "incomplete answer, follow up"
		case QualityPoor:
			decision.Difficulty = DifficultyEasy
			decision.Action = ActionGiveHint
			decision.Hint = GenericHint
			decision.Rationale = "weak answer, offer a hint"
		}
		if analysis.OffTopic {
			decision.Action = ActionAskQuestion
			decision.Rationale = "answer drifted off topic, steer back"
		}
	}

	if current.QuestionsAsked >= current.QuestionBudget {
		if next := NextTopic(plan, current.Name); next != nil {
			decision.NextTopic = next.Name
			decision.Action = ActionChangeTopic
			decision.Rationale = fmt.Sprintf("budget for %q spent, moving to %q", current.Name, next.Name)
		} else {
			decision.Action = ActionEndInterview
			decision.Rationale = fmt.Sprintf("budget for %q spent and no topics remain", current.Name)
		}
	}
	return decision
}
