package interview

import "time"

// Status is the lifecycle stage of a session.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusInProgress   Status = "in_progress"
	StatusEnding       Status = "ending"
	StatusCompleted    Status = "completed"
)

// TurnScratch holds the per-turn outputs of the decision steps. It is reset at
// the start of every turn and never merged across turns.
type TurnScratch struct {
	UserMessage   string           `json:"user_message,omitempty"`
	Analysis      *AnswerAnalysis  `json:"answer_analysis,omitempty"`
	FactCheck     *FactCheckResult `json:"fact_check_result,omitempty"`
	Assessment    *TurnAssessment  `json:"assessment,omitempty"`
	Decision      *RouterDecision  `json:"router_decision,omitempty"`
	QuestionReply string           `json:"question_handler_reply,omitempty"`
	Rationale     TurnRationale    `json:"rationale"`
}

// SessionAccumulated holds everything that survives from one turn to the next.
type SessionAccumulated struct {
	Plan           *InterviewPlan   `json:"interview_plan,omitempty"`
	History        []Message        `json:"conversation_history"`
	Evaluation     EvaluationState  `json:"evaluation"`
	Ledger         TurnLedger       `json:"turns"`
	AskedQuestions []string         `json:"asked_questions"`
	FalseFacts     []FalseFact      `json:"false_facts,omitempty"`
	Unverified     []UnverifiedFact `json:"unverified_claims,omitempty"`
	LastRationale  *TurnRationale   `json:"last_rationale,omitempty"`
	FinalFeedback  *FinalFeedback   `json:"final_feedback,omitempty"`
}

// SessionState is the aggregate root threaded through every turn.
type SessionState struct {
	ID            string             `json:"session_id"`
	Profile       *CandidateProfile  `json:"candidate_profile,omitempty"`
	Status        Status             `json:"status"`
	StopRequested bool               `json:"stop_requested"`
	TurnID        int                `json:"current_turn_id"`
	AgentMessage  string             `json:"agent_message"`
	Session       SessionAccumulated `json:"session"`
	Turn          TurnScratch        `json:"turn"`
	LastError     string             `json:"last_error,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewSessionState returns a session in the initializing stage.
func NewSessionState(id string, profile *CandidateProfile, now time.Time) *SessionState {
	var p *CandidateProfile
	if profile != nil {
		cp := *profile
		p = &cp
	}
	return &SessionState{
		ID:        id,
		Profile:   p,
		Status:    StatusInitializing,
		TurnID:    1,
		Session:   SessionAccumulated{Evaluation: NewEvaluationState()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Completed reports whether the session has reached its terminal state.
func (s *SessionState) Completed() bool {
	return s != nil && s.Status == StatusCompleted
}

// CurrentTopicName returns the name of the topic in progress, or "" when none.
func (s *SessionState) CurrentTopicName() string {
	if s == nil {
		return ""
	}
	if t := CurrentTopic(s.Session.Plan); t != nil {
		return t.Name
	}
	return ""
}

// Clone returns a deep copy so callers can mutate state without affecting the
// registry's copy.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	out.Session = s.Session.clone()
	out.Turn = s.Turn.clone()
	return &out
}

func (a SessionAccumulated) clone() SessionAccumulated {
	out := a
	out.Plan = a.Plan.Clone()
	out.History = append([]Message(nil), a.History...)
	out.Evaluation = a.Evaluation.Clone()
	out.Ledger = a.Ledger.Clone()
	out.AskedQuestions = append([]string(nil), a.AskedQuestions...)
	out.FalseFacts = append([]FalseFact(nil), a.FalseFacts...)
	out.Unverified = append([]UnverifiedFact(nil), a.Unverified...)
	if a.LastRationale != nil {
		r := a.LastRationale.Clone()
		out.LastRationale = &r
	}
	if a.FinalFeedback != nil {
		out.FinalFeedback = a.FinalFeedback.Clone()
	}
	return out
}

func (t TurnScratch) clone() TurnScratch {
	out := t
	if t.Analysis != nil {
		a := *t.Analysis
		a.SuspiciousClaims = append([]string(nil), t.Analysis.SuspiciousClaims...)
		out.Analysis = &a
	}
	if t.FactCheck != nil {
		out.FactCheck = t.FactCheck.Clone()
	}
	if t.Assessment != nil {
		out.Assessment = t.Assessment.Clone()
	}
	if t.Decision != nil {
		d := *t.Decision
		out.Decision = &d
	}
	out.Rationale = t.Rationale.Clone()
	return out
}

// Clone returns a deep copy of the plan.
func (p *InterviewPlan) Clone() *InterviewPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Topics = append([]Topic(nil), p.Topics...)
	return &out
}

// Clone returns a deep copy of the evaluation.
func (e EvaluationState) Clone() EvaluationState {
	out := e
	out.SkillsConfirmed = nil
	for _, s := range e.SkillsConfirmed {
		s.Evidence = append([]int(nil), s.Evidence...)
		out.SkillsConfirmed = append(out.SkillsConfirmed, s)
	}
	out.SkillGaps = append([]SkillGap(nil), e.SkillGaps...)
	out.ConfidenceHistory = append([]float64(nil), e.ConfidenceHistory...)
	return out
}

// Clone returns a deep copy of the fact check result.
func (r *FactCheckResult) Clone() *FactCheckResult {
	if r == nil {
		return nil
	}
	return &FactCheckResult{
		VerifiedTrue:  append([]VerifiedFact(nil), r.VerifiedTrue...),
		VerifiedFalse: append([]FalseFact(nil), r.VerifiedFalse...),
		Unverified:    append([]UnverifiedFact(nil), r.Unverified...),
	}
}

// Clone returns a deep copy of the feedback.
func (f *FinalFeedback) Clone() *FinalFeedback {
	if f == nil {
		return nil
	}
	out := *f
	out.TechnicalReview.ConfirmedSkills = append([]string(nil), f.TechnicalReview.ConfirmedSkills...)
	out.TechnicalReview.KnowledgeGaps = append([]KnowledgeGap(nil), f.TechnicalReview.KnowledgeGaps...)
	out.TechnicalReview.UnverifiedClaims = append([]UnverifiedFact(nil), f.TechnicalReview.UnverifiedClaims...)
	out.Roadmap = nil
	for _, item := range f.Roadmap {
		item.Resources = append([]string(nil), item.Resources...)
		out.Roadmap = append(out.Roadmap, item)
	}
	return &out
}
