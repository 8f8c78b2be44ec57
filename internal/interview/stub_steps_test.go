package interview

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/wolfman30/interview-coach/pkg/logging"
)

type stubSteps struct {
	mu sync.Mutex

	plan    *InterviewPlan
	planErr error

	greeting string
	greetErr error

	turnMsg string
	turnErr error

	analysis    *AnswerAnalysis
	analysisErr error

	facts    *FactCheckResult
	factsErr error

	assessment *TurnAssessment
	assessErr  error

	reply    string
	replyErr error

	feedback    *FinalFeedback
	feedbackErr error

	calls        map[string]int
	turnRequests []TurnRequest
	assessReqs   []AssessmentRequest
}

func (s *stubSteps) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubSteps) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubSteps) PlanTopics(ctx context.Context, profile CandidateProfile) (*InterviewPlan, error) {
	s.record("plan")
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan.Clone(), nil
}

func (s *stubSteps) Greet(ctx context.Context, req GreetRequest) (string, error) {
	s.record("greet")
	return s.greeting, s.greetErr
}

func (s *stubSteps) GenerateTurn(ctx context.Context, req TurnRequest) (string, error) {
	s.record("turn")
	s.mu.Lock()
	s.turnRequests = append(s.turnRequests, req)
	s.mu.Unlock()
	return s.turnMsg, s.turnErr
}

func (s *stubSteps) AnalyzeAnswer(ctx context.Context, req AnalysisRequest) (*AnswerAnalysis, error) {
	s.record("analyze")
	if s.analysisErr != nil {
		return nil, s.analysisErr
	}
	if s.analysis == nil {
		return nil, nil
	}
	a := *s.analysis
	return &a, nil
}

func (s *stubSteps) CheckFacts(ctx context.Context, claims []string) (*FactCheckResult, error) {
	s.record("facts")
	if s.factsErr != nil {
		return nil, s.factsErr
	}
	return s.facts.Clone(), nil
}

func (s *stubSteps) AssessTurn(ctx context.Context, req AssessmentRequest) (*TurnAssessment, error) {
	s.record("assess")
	s.mu.Lock()
	s.assessReqs = append(s.assessReqs, req)
	s.mu.Unlock()
	if s.assessErr != nil {
		return nil, s.assessErr
	}
	return s.assessment.Clone(), nil
}

func (s *stubSteps) HandleCandidateQuestion(ctx context.Context, req QuestionRequest) (string, error) {
	s.record("question")
	return s.reply, s.replyErr
}

func (s *stubSteps) ProduceFinalFeedback(ctx context.Context, req FeedbackRequest) (*FinalFeedback, error) {
	s.record("feedback")
	if s.feedbackErr != nil {
		return nil, s.feedbackErr
	}
	return s.feedback.Clone(), nil
}

// happySteps returns a stub where every step succeeds with a two-topic plan.
func happySteps() *stubSteps {
	return &stubSteps{
		plan: &InterviewPlan{
			Position:    "Backend Developer",
			TargetGrade: "Junior",
			Topics: []Topic{
				{Name: "Go basics", Priority: 1, QuestionBudget: 2, Status: TopicPending},
				{Name: "Databases", Priority: 2, QuestionBudget: 2, Status: TopicPending},
			},
		},
		greeting: "Hi Alex, let's talk about Go.",
		turnMsg:  "What is a goroutine?",
		analysis: &AnswerAnalysis{Quality: QualityGood, Confidence: 0.7, Completeness: 0.6},
		assessment: &TurnAssessment{
			SkillsConfirmed: []SkillObservation{{Skill: "Go", Confidence: 0.7}},
			SoftSkills:      SoftSkills{Clarity: 0.8, Honesty: 0.9, Engagement: 0.7},
			GradeEstimate:   EstimateJuniorPlus,
			GradeConfidence: 0.6,
			Reasoning:       "clear answer",
		},
		reply: "We work in small teams.",
		feedback: &FinalFeedback{
			Decision:        Decision{Grade: EstimateJuniorPlus, Recommendation: Hire, Confidence: 0.7},
			ConfidenceTrend: "stable",
		},
	}
}

type recordingSink struct {
	mu    sync.Mutex
	saved []*SessionState
	err   error
}

func (r *recordingSink) SaveSession(ctx context.Context, state *SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, state)
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func testProfile() *CandidateProfile {
	return &CandidateProfile{
		Name:        "Alex",
		Position:    "Backend Developer",
		TargetGrade: GradeJunior,
		Experience:  "2 years of Go",
	}
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}
