package interview

import "context"

// Steps is the set of content and decision producers the engine sequences.
// Any method may fail; the engine substitutes a deterministic fallback and
// carries on, so implementations should return errors rather than partial
// output.
type Steps interface {
	PlanTopics(ctx context.Context, profile CandidateProfile) (*InterviewPlan, error)
	Greet(ctx context.Context, req GreetRequest) (string, error)
	GenerateTurn(ctx context.Context, req TurnRequest) (string, error)
	AnalyzeAnswer(ctx context.Context, req AnalysisRequest) (*AnswerAnalysis, error)
	CheckFacts(ctx context.Context, claims []string) (*FactCheckResult, error)
	AssessTurn(ctx context.Context, req AssessmentRequest) (*TurnAssessment, error)
	HandleCandidateQuestion(ctx context.Context, req QuestionRequest) (string, error)
	ProduceFinalFeedback(ctx context.Context, req FeedbackRequest) (*FinalFeedback, error)
}

// GreetRequest carries the inputs for the opening message.
type GreetRequest struct {
	Profile CandidateProfile
	Plan    *InterviewPlan
}

// TurnRequest carries the inputs for the next interviewer message.
type TurnRequest struct {
	Profile        CandidateProfile
	Plan           *InterviewPlan
	Decision       RouterDecision
	QuestionReply  string
	AskedQuestions []string
	History        []Message
}

// AnalysisRequest carries the inputs for grading the candidate's answer.
type AnalysisRequest struct {
	Profile      CandidateProfile
	Plan         *InterviewPlan
	CurrentTopic string
	LastQuestion string
	History      []Message
	UserMessage  string
}

// AssessmentRequest carries the inputs for the per-turn evaluation.
type AssessmentRequest struct {
	Profile      CandidateProfile
	CurrentTopic string
	LastQuestion string
	UserMessage  string
	Analysis     AnswerAnalysis
	FactCheck    *FactCheckResult
	Current      EvaluationState
	TurnID       int
}

// QuestionRequest carries a question the candidate asked.
type QuestionRequest struct {
	Question string
	Profile  CandidateProfile
	Topic    string
}

// FeedbackRequest carries everything the final report is built from.
type FeedbackRequest struct {
	Profile    CandidateProfile
	Evaluation EvaluationState
	History    []Message
	FalseFacts []FalseFact
	Unverified []UnverifiedFact
}

// LastInterviewerMessage returns the most recent interviewer entry of history.
func LastInterviewerMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleInterviewer {
			return history[i].Content
		}
	}
	return ""
}
