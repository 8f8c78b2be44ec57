package interview

import (
	"fmt"
	"strings"
)

// Grade is the seniority level a candidate applies for.
type Grade string

const (
	GradeJunior Grade = "Junior"
	GradeMiddle Grade = "Middle"
	GradeSenior Grade = "Senior"
)

// Valid reports whether g belongs to the closed set of target grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeJunior, GradeMiddle, GradeSenior:
		return true
	}
	return false
}

// GradeEstimate is the evaluator's running estimate on a seven-step ordered scale.
type GradeEstimate string

const (
	EstimateJunior      GradeEstimate = "Junior"
	EstimateJuniorPlus  GradeEstimate = "Junior+"
	EstimateMiddleMinus GradeEstimate = "Middle-"
	EstimateMiddle      GradeEstimate = "Middle"
	EstimateMiddlePlus  GradeEstimate = "Middle+"
	EstimateSeniorMinus GradeEstimate = "Senior-"
	EstimateSenior      GradeEstimate = "Senior"
)

var gradeScale = []GradeEstimate{
	EstimateJunior,
	EstimateJuniorPlus,
	EstimateMiddleMinus,
	EstimateMiddle,
	EstimateMiddlePlus,
	EstimateSeniorMinus,
	EstimateSenior,
}

// Rank returns the position of g on the grade scale, or -1 if g is unknown.
func (g GradeEstimate) Rank() int {
	for i, candidate := range gradeScale {
		if candidate == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is one of the seven known estimates.
func (g GradeEstimate) Valid() bool { return g.Rank() >= 0 }

// CandidateProfile is captured once at session start and never mutated.
type CandidateProfile struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	TargetGrade Grade  `json:"target_grade"`
	Experience  string `json:"experience"`
}

// Validate checks the profile fields the workflow depends on.
func (p CandidateProfile) Validate() error {
	if strings.TrimSpace(p.Position) == "" {
		return fmt.Errorf("%w: position is required", ErrInvalidProfile)
	}
	if !p.TargetGrade.Valid() {
		return fmt.Errorf("%w: unknown target grade %q", ErrInvalidProfile, p.TargetGrade)
	}
	return nil
}

// TopicStatus tracks a topic's progress through the interview.
type TopicStatus string

const (
	TopicPending    TopicStatus = "pending"
	TopicInProgress TopicStatus = "in_progress"
	TopicCompleted  TopicStatus = "completed"
	TopicSkipped    TopicStatus = "skipped"
)

// Open reports whether the topic can still receive questions.
func (s TopicStatus) Open() bool {
	return s == TopicPending || s == TopicInProgress
}

// Topic is a unit of subject matter with its own question budget.
type Topic struct {
	Name           string      `json:"name"`
	Priority       int         `json:"priority"`
	QuestionBudget int         `json:"questions_budget"`
	Status         TopicStatus `json:"status"`
	QuestionsAsked int         `json:"questions_asked"`
}

// InterviewPlan is the ordered topic list produced by the planning step.
type InterviewPlan struct {
	Position           string  `json:"position"`
	TargetGrade        string  `json:"target_grade"`
	Topics             []Topic `json:"topics"`
	TotalQuestionLimit int     `json:"total_questions_limit"`
}

// Normalize enforces topic invariants: priority and budget of at least one and
// a known status.
func (p *InterviewPlan) Normalize() {
	if p == nil {
		return
	}
	for i := range p.Topics {
		t := &p.Topics[i]
		if t.Priority < 1 {
			t.Priority = i + 1
		}
		if t.QuestionBudget < 1 {
			t.QuestionBudget = 1
		}
		switch t.Status {
		case TopicPending, TopicInProgress, TopicCompleted, TopicSkipped:
		default:
			t.Status = TopicPending
		}
		if t.QuestionsAsked < 0 {
			t.QuestionsAsked = 0
		}
	}
}

// AnswerQuality is the analyzer's grading of one candidate answer.
type AnswerQuality string

const (
	QualityExcellent AnswerQuality = "excellent"
	QualityGood      AnswerQuality = "good"
	QualityPartial   AnswerQuality = "partial"
	QualityPoor      AnswerQuality = "poor"
)

// Valid reports whether q is a known quality level.
func (q AnswerQuality) Valid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityPartial, QualityPoor:
		return true
	}
	return false
}

// AnswerAnalysis is recreated every turn and never merged.
type AnswerAnalysis struct {
	Quality           AnswerQuality `json:"quality"`
	Confidence        float64       `json:"confidence_detected"`
	Completeness      float64       `json:"completeness"`
	OffTopic          bool          `json:"off_topic"`
	NeedsFactCheck    bool          `json:"needs_fact_check"`
	SuspiciousClaims  []string      `json:"suspicious_claims"`
	AskedQuestion     bool          `json:"candidate_asked_question"`
	CandidateQuestion string        `json:"candidate_question,omitempty"`
	Reasoning         string        `json:"reasoning"`
}

// VerifiedFact is a claim confirmed by a source.
type VerifiedFact struct {
	Claim      string  `json:"claim"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// FalseFact is a claim refuted by a source.
type FalseFact struct {
	Claim       string  `json:"claim"`
	Confidence  float64 `json:"confidence"`
	CorrectInfo string  `json:"correct_info"`
	Source      string  `json:"source,omitempty"`
}

// Reasons a claim could not be verified.
const (
	ReasonSearchUnavailable = "web_search_unavailable"
	ReasonNoSource          = "no_source_found"
	ReasonLLMUncertain      = "llm_uncertain"
)

// UnverifiedFact is a claim that neither source nor model could settle.
type UnverifiedFact struct {
	Claim  string `json:"claim"`
	Reason string `json:"reason"`
}

// FactCheckResult partitions the checked claims by verdict.
type FactCheckResult struct {
	VerifiedTrue  []VerifiedFact   `json:"verified_true"`
	VerifiedFalse []FalseFact      `json:"verified_false"`
	Unverified    []UnverifiedFact `json:"unverified"`
}

// Severity grades a knowledge gap.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SkillConfirmation records the best confidence ever observed for a skill.
type SkillConfirmation struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
	Evidence   []int   `json:"evidence_turns"`
}

// SkillGap is frozen at the first turn it was detected.
type SkillGap struct {
	Skill        string   `json:"skill"`
	Severity     Severity `json:"severity"`
	FailedAtTurn int      `json:"failed_at_turn"`
}

// SoftSkills are replaced each turn by the latest estimate.
type SoftSkills struct {
	Clarity    float64 `json:"clarity"`
	Honesty    float64 `json:"honesty"`
	Engagement float64 `json:"engagement"`
}

// DefaultSoftSkills is the neutral starting estimate.
func DefaultSoftSkills() SoftSkills {
	return SoftSkills{Clarity: 0.5, Honesty: 0.5, Engagement: 0.5}
}

// EvaluationState is the session-scoped, monotonic candidate assessment.
type EvaluationState struct {
	SkillsConfirmed        []SkillConfirmation `json:"skills_confirmed"`
	SkillGaps              []SkillGap          `json:"skills_gaps"`
	SoftSkills             SoftSkills          `json:"soft_skills"`
	HallucinationsDetected int                 `json:"hallucinations_detected"`
	OffTopicAttempts       int                 `json:"off_topic_attempts"`
	GradeEstimate          GradeEstimate       `json:"current_grade_estimate"`
	GradeConfidence        float64             `json:"grade_confidence"`
	ConfidenceHistory      []float64           `json:"confidence_history"`
}

// NewEvaluationState returns the assessment every session starts from.
func NewEvaluationState() EvaluationState {
	return EvaluationState{
		SoftSkills:      DefaultSoftSkills(),
		GradeEstimate:   EstimateJunior,
		GradeConfidence: 0.5,
	}
}

// Difficulty of the next question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Action is the routing verdict for the next interviewer message.
type Action string

const (
	ActionAskQuestion  Action = "ask_question"
	ActionAskFollowup  Action = "ask_followup"
	ActionGiveHint     Action = "give_hint"
	ActionChangeTopic  Action = "change_topic"
	ActionEndInterview Action = "end_interview"
)

// RouterDecision is recomputed every turn.
type RouterDecision struct {
	NextTopic  string     `json:"next_topic"`
	Difficulty Difficulty `json:"difficulty"`
	Action     Action     `json:"action"`
	Hint       string     `json:"hint,omitempty"`
	Rationale  string     `json:"reasoning"`
}

// Recommendation is the hiring manager's verdict.
type Recommendation string

const (
	StrongNoHire Recommendation = "Strong No Hire"
	NoHire       Recommendation = "No Hire"
	Hire         Recommendation = "Hire"
	StrongHire   Recommendation = "Strong Hire"
)

// Valid reports whether r is one of the four recommendations.
func (r Recommendation) Valid() bool {
	switch r {
	case StrongNoHire, NoHire, Hire, StrongHire:
		return true
	}
	return false
}

// Decision is the headline of the final report.
type Decision struct {
	Grade          GradeEstimate  `json:"grade"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
}

// KnowledgeGap pairs a weak topic with the answer the candidate missed.
type KnowledgeGap struct {
	Topic         string `json:"topic"`
	CorrectAnswer string `json:"correct_answer"`
}

// TechnicalReview summarises what was confirmed and what was missing.
type TechnicalReview struct {
	ConfirmedSkills  []string         `json:"confirmed_skills"`
	KnowledgeGaps    []KnowledgeGap   `json:"knowledge_gaps"`
	UnverifiedClaims []UnverifiedFact `json:"unverified_claims,omitempty"`
}

// RoadmapItem is a suggested study topic.
type RoadmapItem struct {
	Topic     string   `json:"topic"`
	Resources []string `json:"resources"`
}

// FinalFeedback is produced once, when the session completes.
type FinalFeedback struct {
	Decision        Decision        `json:"decision"`
	TechnicalReview TechnicalReview `json:"technical_review"`
	SoftSkills      SoftSkills      `json:"soft_skills"`
	Roadmap         []RoadmapItem   `json:"roadmap"`
	ConfidenceTrend string          `json:"confidence_trend"`
}

// Conversation roles.
const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
