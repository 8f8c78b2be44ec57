package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/internal/search"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

const (
	historyWindow      = 10
	dedupWindow        = 5
	dedupMaxLen        = 80
	summaryWindow      = 20
	summaryMaxLen      = 80
	maxClaimsPerTurn   = 3
	searchResultsLimit = 3
	greetingTopics     = 5
)

const (
	stepPlanner     = "planner"
	stepGreeting    = "greeting"
	stepInterviewer = "interviewer"
	stepAnalyzer    = "analyzer"
	stepFactChecker = "fact_checker"
	stepEvaluator   = "evaluator"
	stepQuestion    = "question_handler"
	stepHiring      = "hiring_manager"
)

// CrewConfig tunes the LLM calls made by every step.
type CrewConfig struct {
	Model                string
	Temperature          float64
	MaxTokens            int
	Timeout              time.Duration
	MaxQuestionsPerTopic int
}

// Crew implements interview.Steps with one prompt per step.
type Crew struct {
	llm                  *completer
	search               search.Provider
	maxQuestionsPerTopic int
	logger               *logging.Logger
}

var _ interview.Steps = (*Crew)(nil)

// CrewOption configures a Crew.
type CrewOption func(*Crew)

// WithSearch enables web-backed fact checking.
func WithSearch(provider search.Provider) CrewOption {
	return func(c *Crew) {
		c.search = provider
	}
}

// NewCrew builds the step collaborators around client.
func NewCrew(client LLMClient, cfg CrewConfig, logger *logging.Logger, opts ...CrewOption) *Crew {
	if client == nil {
		panic("agents: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxQuestionsPerTopic <= 0 {
		cfg.MaxQuestionsPerTopic = 5
	}
	c := &Crew{
		llm: &completer{
			client:      client,
			model:       cfg.Model,
			temperature: float32(cfg.Temperature),
			maxTokens:   int32(cfg.MaxTokens),
			timeout:     cfg.Timeout,
			logger:      logger,
		},
		maxQuestionsPerTopic: cfg.MaxQuestionsPerTopic,
		logger:               logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlanTopics asks for a prioritized topic plan and clamps the budgets.
func (c *Crew) PlanTopics(ctx context.Context, profile interview.CandidateProfile) (*interview.InterviewPlan, error) {
	prompt := fmt.Sprintf(plannerPrompt, profile.Position, profile.TargetGrade, orNone(profile.Experience), c.maxQuestionsPerTopic)

	var plan interview.InterviewPlan
	if err := c.llm.structured(ctx, stepPlanner, prompt, "", &plan); err != nil {
		return nil, err
	}

	topics := make([]interview.Topic, 0, len(plan.Topics))
	for _, t := range plan.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		topics = append(topics, interview.Topic{
			Name:           name,
			Priority:       t.Priority,
			QuestionBudget: clampInt(t.QuestionBudget, 1, c.maxQuestionsPerTopic),
			Status:         interview.TopicPending,
		})
	}
	if len(topics) == 0 {
		return nil, errors.New("agents: planner returned no topics")
	}

	plan.Topics = topics
	if strings.TrimSpace(plan.Position) == "" {
		plan.Position = profile.Position
	}
	if strings.TrimSpace(plan.TargetGrade) == "" {
		plan.TargetGrade = string(profile.TargetGrade)
	}
	if plan.TotalQuestionLimit < 0 {
		plan.TotalQuestionLimit = 0
	}
	return &plan, nil
}

// Greet writes the opening message.
func (c *Crew) Greet(ctx context.Context, req interview.GreetRequest) (string, error) {
	var names []string
	if req.Plan != nil {
		for i, t := range req.Plan.Topics {
			if i == greetingTopics {
				break
			}
			names = append(names, t.Name)
		}
	}
	topics := "to be decided"
	if len(names) > 0 {
		topics = strings.Join(names, ", ")
	}

	p := req.Profile
	prompt := fmt.Sprintf(greetingPrompt, p.Name, p.Position, p.TargetGrade, orNone(p.Experience), topics)
	msg, err := c.llm.text(ctx, stepGreeting, prompt, "")
	if err != nil {
		return "", err
	}
	if looksLikeJSON(msg) {
		return "", errors.New("agents: greeting looked like structured output")
	}
	return msg, nil
}

// GenerateTurn writes the next interviewer message for the routed action.
func (c *Crew) GenerateTurn(ctx context.Context, req interview.TurnRequest) (string, error) {
	d := req.Decision
	topic := d.NextTopic
	if topic == "" {
		if t := interview.CurrentTopic(req.Plan); t != nil {
			topic = t.Name
		} else {
			topic = interview.DefaultTopicName
		}
	}
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = interview.DifficultyMedium
	}
	action := d.Action
	if action == "" {
		action = interview.ActionAskQuestion
	}

	var extra strings.Builder
	if d.Hint != "" {
		fmt.Fprintf(&extra, "Hint to give: %s\n", d.Hint)
	}
	if req.QuestionReply != "" {
		fmt.Fprintf(&extra, "The candidate's question was already answered with: %q. Do not repeat the answer, continue the interview.\n", req.QuestionReply)
	}

	history := formatHistory(req.History, historyWindow)
	if history == "" {
		history = "The conversation is just starting."
	}

	p := req.Profile
	prompt := fmt.Sprintf(interviewerPrompt, p.Name, p.Position, p.TargetGrade, orNone(p.Experience),
		topic, difficulty, action, extra.String(), history)
	if dedup := dedupSection(req.AskedQuestions); dedup != "" {
		prompt += "\n\n" + dedup
	}

	msg, err := c.llm.text(ctx, stepInterviewer, prompt, "")
	if err != nil {
		return "", err
	}
	if looksLikeJSON(msg) {
		c.logger.Warn("interviewer reply looked like JSON, using continuation prompt")
		return interview.ContinuationPrompt, nil
	}
	return msg, nil
}

// AnalyzeAnswer grades the candidate's latest message.
func (c *Crew) AnalyzeAnswer(ctx context.Context, req interview.AnalysisRequest) (*interview.AnswerAnalysis, error) {
	topic := req.CurrentTopic
	if topic == "" {
		topic = interview.DefaultTopicName
	}
	question := req.LastQuestion
	if question == "" {
		question = "(no question asked yet)"
	}
	prompt := fmt.Sprintf(analyzerPrompt, req.Profile.Position, req.Profile.TargetGrade, topic, question, req.UserMessage)

	var analysis interview.AnswerAnalysis
	if err := c.llm.structured(ctx, stepAnalyzer, prompt, "", &analysis); err != nil {
		return nil, err
	}
	if !analysis.Quality.Valid() {
		return nil, fmt.Errorf("agents: analyzer returned unknown quality %q", analysis.Quality)
	}
	analysis.Confidence = clampFloat(analysis.Confidence)
	analysis.Completeness = clampFloat(analysis.Completeness)
	analysis.SuspiciousClaims = nonEmpty(analysis.SuspiciousClaims)
	if analysis.AskedQuestion && strings.TrimSpace(analysis.CandidateQuestion) == "" {
		analysis.CandidateQuestion = req.UserMessage
	}
	return &analysis, nil
}

type claimVerdict struct {
	Status      string  `json:"status"`
	Confidence  float64 `json:"confidence"`
	CorrectInfo string  `json:"correct_info"`
	Source      string  `json:"source"`
	Reasoning   string  `json:"reasoning"`
}

// CheckFacts verifies up to three claims against web search results.
func (c *Crew) CheckFacts(ctx context.Context, claims []string) (*interview.FactCheckResult, error) {
	if len(claims) > maxClaimsPerTurn {
		claims = claims[:maxClaimsPerTurn]
	}
	if c.search == nil {
		return interview.UnverifiedFacts(claims, interview.ReasonSearchUnavailable), nil
	}

	result := &interview.FactCheckResult{}
	for _, claim := range claims {
		c.checkClaim(ctx, claim, result)
	}
	return result, nil
}

func (c *Crew) checkClaim(ctx context.Context, claim string, result *interview.FactCheckResult) {
	unverified := func(reason string) {
		result.Unverified = append(result.Unverified, interview.UnverifiedFact{Claim: claim, Reason: reason})
	}

	hits, err := c.search.Search(ctx, "fact check: "+claim, searchResultsLimit)
	if err != nil {
		c.logger.Warn("fact check search failed", "claim", claim, "error", err)
		unverified(interview.ReasonSearchUnavailable)
		return
	}
	if len(hits) == 0 {
		unverified(interview.ReasonNoSource)
		return
	}

	var lines []string
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", h.Title, h.Snippet, h.URL))
	}
	prompt := fmt.Sprintf(factCheckPrompt, claim, strings.Join(lines, "\n"))

	var verdict claimVerdict
	if err := c.llm.structured(ctx, stepFactChecker, prompt, "", &verdict); err != nil {
		c.logger.Warn("fact check verdict failed", "claim", claim, "error", err)
		unverified(interview.ReasonLLMUncertain)
		return
	}
	source := verdict.Source
	if source == "" {
		source = hits[0].URL
	}

	switch verdict.Status {
	case "verified_true":
		result.VerifiedTrue = append(result.VerifiedTrue, interview.VerifiedFact{
			Claim: claim, Confidence: clampFloat(verdict.Confidence), Source: source,
		})
	case "verified_false":
		result.VerifiedFalse = append(result.VerifiedFalse, interview.FalseFact{
			Claim: claim, Confidence: clampFloat(verdict.Confidence), CorrectInfo: verdict.CorrectInfo, Source: source,
		})
	default:
		unverified(interview.ReasonLLMUncertain)
	}
}

// AssessTurn reports what this turn shows about the candidate.
func (c *Crew) AssessTurn(ctx context.Context, req interview.AssessmentRequest) (*interview.TurnAssessment, error) {
	factCheck := "none"
	if req.FactCheck != nil {
		factCheck = mustJSON(req.FactCheck)
	}
	topic := req.CurrentTopic
	if topic == "" {
		topic = interview.DefaultTopicName
	}
	prompt := fmt.Sprintf(evaluatorPrompt, req.Profile.Position, req.Profile.TargetGrade, topic, req.TurnID,
		req.LastQuestion, req.UserMessage, mustJSON(req.Analysis), factCheck, mustJSON(req.Current))

	var assessment interview.TurnAssessment
	if err := c.llm.structured(ctx, stepEvaluator, prompt, "", &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

type questionReply struct {
	QuestionDetected string `json:"question_detected"`
	Response         string `json:"response"`
}

// HandleCandidateQuestion answers a question the candidate asked.
func (c *Crew) HandleCandidateQuestion(ctx context.Context, req interview.QuestionRequest) (string, error) {
	topic := req.Topic
	if topic == "" {
		topic = interview.DefaultTopicName
	}
	position := req.Profile.Position
	if position == "" {
		position = "developer"
	}
	prompt := fmt.Sprintf(questionPrompt, position, topic, req.Question)

	var reply questionReply
	if err := c.llm.structured(ctx, stepQuestion, prompt, "", &reply); err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.Response) == "" {
		return "", errors.New("agents: question handler returned an empty response")
	}
	return strings.TrimSpace(reply.Response), nil
}

// ProduceFinalFeedback asks for the hiring decision and final report.
func (c *Crew) ProduceFinalFeedback(ctx context.Context, req interview.FeedbackRequest) (*interview.FinalFeedback, error) {
	falseFacts := "none"
	if len(req.FalseFacts) > 0 {
		var lines []string
		for _, f := range req.FalseFacts {
			lines = append(lines, "- "+f.Claim)
		}
		falseFacts = strings.Join(lines, "\n")
	}

	p := req.Profile
	prompt := fmt.Sprintf(hiringPrompt, p.Name, p.Position, p.TargetGrade, orNone(p.Experience),
		mustJSON(req.Evaluation), summarize(req.History), falseFacts)

	var feedback interview.FinalFeedback
	if err := c.llm.structured(ctx, stepHiring, prompt, "", &feedback); err != nil {
		return nil, err
	}
	if !feedback.Decision.Recommendation.Valid() {
		return nil, fmt.Errorf("agents: hiring manager returned unknown recommendation %q", feedback.Decision.Recommendation)
	}
	if !feedback.Decision.Grade.Valid() {
		feedback.Decision.Grade = req.Evaluation.GradeEstimate
	}
	feedback.Decision.Confidence = clampFloat(feedback.Decision.Confidence)
	feedback.TechnicalReview.UnverifiedClaims = append([]interview.UnverifiedFact(nil), req.Unverified...)
	feedback.ConfidenceTrend = interview.ComputeTrend(req.Evaluation.ConfidenceHistory)
	return &feedback, nil
}

func formatHistory(history []interview.Message, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, roleLabel(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func summarize(history []interview.Message) string {
	if len(history) == 0 {
		return "The conversation did not take place."
	}
	if len(history) > summaryWindow {
		history = history[len(history)-summaryWindow:]
	}
	lines := make([]string, 0, len(history))
	for i, m := range history {
		lines = append(lines, fmt.Sprintf("%d. [%s]: %s", i+1, roleLabel(m.Role), truncate(m.Content, summaryMaxLen)))
	}
	return strings.Join(lines, "\n")
}

func dedupSection(asked []string) string {
	if len(asked) == 0 {
		return ""
	}
	if len(asked) > dedupWindow {
		asked = asked[len(asked)-dedupWindow:]
	}
	var b strings.Builder
	b.WriteString("IMPORTANT: do not repeat questions you already asked:")
	for _, q := range asked {
		b.WriteString("\n- ")
		b.WriteString(truncate(q, dedupMaxLen))
	}
	return b.String()
}

func roleLabel(role string) string {
	if role == interview.RoleInterviewer {
		return "Interviewer"
	}
	return "Candidate"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
