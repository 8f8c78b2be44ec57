package interview

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_plans.yaml
var defaultPlansYAML []byte

type planCatalog struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Topics   []string `yaml:"topics"`
}

type planCatalogs struct {
	TotalQuestionsLimit int           `yaml:"total_questions_limit"`
	QuestionsBudget     int           `yaml:"questions_budget"`
	Catalogs            []planCatalog `yaml:"catalogs"`
}

var defaultCatalogs = mustLoadCatalogs(defaultPlansYAML)

func mustLoadCatalogs(data []byte) planCatalogs {
	var c planCatalogs
	if err := yaml.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("interview: parse default plans: %v", err))
	}
	if len(c.Catalogs) == 0 {
		panic("interview: default plans have no catalogs")
	}
	return c
}

// DefaultPlan builds a plan from the keyword catalog matching the candidate's
// position.
func DefaultPlan(profile CandidateProfile) *InterviewPlan {
	pos := strings.ToLower(profile.Position)
	chosen := defaultCatalogs.Catalogs[len(defaultCatalogs.Catalogs)-1]
	for _, c := range defaultCatalogs.Catalogs {
		if matchesAny(pos, c.Keywords) {
			chosen = c
			break
		}
	}

	budget := defaultCatalogs.QuestionsBudget
	if budget < 1 {
		budget = 1
	}
	topics := make([]Topic, 0, len(chosen.Topics))
	for i, name := range chosen.Topics {
		topics = append(topics, Topic{
			Name:           name,
			Priority:       i + 1,
			QuestionBudget: budget,
			Status:         TopicPending,
		})
	}
	return &InterviewPlan{
		Position:           profile.Position,
		TargetGrade:        string(profile.TargetGrade),
		Topics:             topics,
		TotalQuestionLimit: defaultCatalogs.TotalQuestionsLimit,
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// HeuristicAnalysis grades an answer by length alone.
func HeuristicAnalysis(message string) *AnswerAnalysis {
	words := len(strings.Fields(message))
	quality := QualityExcellent
	switch {
	case words < 5:
		quality = QualityPoor
	case words < 20:
		quality = QualityPartial
	case words < 50:
		quality = QualityGood
	}
	asked := strings.Contains(message, "?")
	analysis := &AnswerAnalysis{
		Quality:       quality,
		Confidence:    0.5,
		Completeness:  clamp01(float64(words) / 50),
		AskedQuestion: asked,
		Reasoning:     "heuristic analysis",
	}
	if asked {
		analysis.CandidateQuestion = message
	}
	return analysis
}

// UnverifiedFacts marks every claim as unverified for the given reason.
func UnverifiedFacts(claims []string, reason string) *FactCheckResult {
	result := &FactCheckResult{}
	for _, c := range claims {
		result.Unverified = append(result.Unverified, UnverifiedFact{Claim: c, Reason: reason})
	}
	return result
}

var injectionPhrases = []string{
	"correct answer",
	"tell me the answer",
	"give me the answer",
	"what is the solution",
	"forget your instructions",
	"forget instructions",
	"ignore previous",
	"ignore all",
	"you are now",
	"правильный ответ",
	"подскажи ответ",
	"забудь инструкции",
	"игнорируй",
	"ты теперь",
}

type cannedReply struct {
	keywords []string
	reply    func(position string) string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"vacanc", "position", "role", "job description", "вакан", "позиц"},
		reply: func(position string) string {
			return fmt.Sprintf("The %s role means working on product features in a team of 5-7 engineers. "+
				"You would build new functionality, take part in code review and technical discussions, "+
				"and have a say in architecture decisions.", position)
		},
	},
	{
		keywords: []string{"task", "project", "probation", "onboarding", "задач", "испытательн"},
		reply: func(position string) string {
			return fmt.Sprintf("During probation a %s starts with small tasks to learn the codebase, "+
				"with a mentor assigned for onboarding. After two or three weeks the work gets more involved.", position)
		},
	},
	{
		keywords: []string{"stack", "technolog", "tools", "стек", "технолог"},
		reply: func(string) string {
			return "We use Python and Go on the backend with PostgreSQL, Redis, Docker and Kubernetes. " +
				"Every change goes through CI and code review."
		},
	},
	{
		keywords: []string{"team", "colleague", "команд", "коллектив"},
		reply: func(string) string {
			return "Teams are cross-functional: engineers, QA, a product manager and a designer. " +
				"We work in two-week sprints with daily standups."
		},
	},
	{
		keywords: []string{"growth", "career", "promotion", "learning", "рост", "карьер", "развит"},
		reply: func(string) string {
			return "There is a transparent grade system with clear criteria, a learning budget, " +
				"and a mentoring program for engineers moving toward tech lead."
		},
	},
}

// InjectionRefusal is the reply to attempts to extract answers or override the
// interviewer's instructions.
const InjectionRefusal = "I can't give you the answer to that. Try to reason it through in your own words."

// DeferredReply is the reply to questions with no canned answer.
const DeferredReply = "Good question! Let's discuss the details after the technical part. Let's continue."

// RuleBasedReply answers a candidate question from a fixed keyword table.
func RuleBasedReply(question string, profile *CandidateProfile) string {
	q := strings.ToLower(question)
	if matchesAny(q, injectionPhrases) {
		return InjectionRefusal
	}
	position := "developer"
	if profile != nil && strings.TrimSpace(profile.Position) != "" {
		position = profile.Position
	}
	for _, c := range cannedReplies {
		if matchesAny(q, c.keywords) {
			return c.reply(position)
		}
	}
	return DeferredReply
}

// RuleBasedFeedback derives a final report from the accumulated evaluation.
func RuleBasedFeedback(eval EvaluationState, falseFacts []FalseFact, unverified []UnverifiedFact) *FinalFeedback {
	grade := eval.GradeEstimate
	if !grade.Valid() {
		grade = EstimateJunior
	}
	recommendation := Hire
	if eval.HallucinationsDetected > 2 || len(eval.SkillGaps) > 3 {
		recommendation = NoHire
	}

	review := TechnicalReview{
		ConfirmedSkills:  make([]string, 0, len(eval.SkillsConfirmed)),
		KnowledgeGaps:    make([]KnowledgeGap, 0, len(eval.SkillGaps)+len(falseFacts)),
		UnverifiedClaims: append([]UnverifiedFact(nil), unverified...),
	}
	for _, s := range eval.SkillsConfirmed {
		review.ConfirmedSkills = append(review.ConfirmedSkills, s.Skill)
	}
	roadmap := make([]RoadmapItem, 0, len(eval.SkillGaps))
	for _, g := range eval.SkillGaps {
		review.KnowledgeGaps = append(review.KnowledgeGaps, KnowledgeGap{Topic: g.Skill})
		roadmap = append(roadmap, RoadmapItem{
			Topic:     g.Skill,
			Resources: []string{fmt.Sprintf("Official documentation for %s", g.Skill)},
		})
	}
	for _, f := range falseFacts {
		review.KnowledgeGaps = append(review.KnowledgeGaps, KnowledgeGap{Topic: f.Claim, CorrectAnswer: f.CorrectInfo})
	}

	return &FinalFeedback{
		Decision:        Decision{Grade: grade, Recommendation: recommendation, Confidence: 0.5},
		TechnicalReview: review,
		SoftSkills:      eval.SoftSkills,
		Roadmap:         roadmap,
		ConfidenceTrend: ComputeTrend(eval.ConfidenceHistory),
	}
}

// DefaultGreeting opens the interview without a language model.
func DefaultGreeting(profile CandidateProfile, plan *InterviewPlan) string {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "there"
	}
	msg := fmt.Sprintf("Hello, %s! I'll be your interviewer today for the %s %s position.", name, profile.TargetGrade, profile.Position)
	if t := CurrentTopic(plan); t != nil {
		msg += fmt.Sprintf(" We'll start with %s.", t.Name)
	}
	return msg + " To begin, tell me briefly about your experience."
}

// ContinuationPrompt replaces interviewer output that is unusable as chat text.
const ContinuationPrompt = "Let's continue. Tell me more about your experience."

// DefaultTurnMessage produces the interviewer message for a routing decision
// without a language model.
func DefaultTurnMessage(decision RouterDecision) string {
	var b strings.Builder
	topic := decision.NextTopic
	switch decision.Action {
	case ActionChangeTopic:
		fmt.Fprintf(&b, "Let's move on to %s. What is your practical experience with it?", topic)
	case ActionGiveHint:
		if decision.Hint != "" {
			fmt.Fprintf(&b, "Hint: %s ", decision.Hint)
		}
		fmt.Fprintf(&b, "Could you try again, focusing on the basics of %s?", topic)
	case ActionAskFollowup:
		fmt.Fprintf(&b, "Can you go a little deeper on that? Give a concrete example related to %s.", topic)
	default:
		fmt.Fprintf(&b, "Next question on %s: what problems have you solved with it, and how?", topic)
	}
	return b.String()
}

// ClosingMessage is shown when the interview ends.
const ClosingMessage = "Thank you for your time! The interview is complete. Your feedback report is ready."
