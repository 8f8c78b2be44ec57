package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/interview-coach/internal/observability/metrics"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// SessionSink receives the session after every logged turn and after
// completion. Failures are logged and never abort the workflow.
type SessionSink interface {
	SaveSession(ctx context.Context, state *SessionState) error
}

// DefaultStopWords end the interview when found anywhere in a candidate
// message, case-insensitively.
var DefaultStopWords = []string{"стоп", "stop", "завершить"}

const (
	defaultQuestionLimit = 20
	maxWorkflowSteps     = 32
)

// Completion reasons reported to metrics and the hiring manager rationale.
const (
	ReasonStopRequested   = "stop_requested"
	ReasonLimitReached    = "question_limit"
	ReasonTopicsExhausted = "topics_exhausted"
)

type node string

const (
	nodeEntry           node = "entry"
	nodePlan            node = "plan"
	nodeGreet           node = "greet"
	nodeLogGreeting     node = "log_greeting"
	nodePrepareTurn     node = "prepare_turn"
	nodeCheckStop       node = "check_stop"
	nodeCheckLimit      node = "check_limit"
	nodeAnalyze         node = "analyze_answer"
	nodeFactCheck       node = "fact_check"
	nodeEvaluate        node = "evaluate"
	nodeQuestionHandler node = "question_handler"
	nodeRoute           node = "route"
	nodeRespond         node = "respond"
	nodeLogTurn         node = "log_turn"
	nodeUpdateProgress  node = "update_topic_progress"
	nodeHiringManager   node = "hiring_manager"
	nodeSuspend         node = "suspend"
	nodeCompleted       node = "completed"
)

func always(n node) func(*SessionState) node {
	return func(*SessionState) node { return n }
}

// transitions maps each node to the node that follows it. Edges read the state
// but never modify it.
var transitions = map[node]func(*SessionState) node{
	nodeEntry: func(s *SessionState) node {
		if s.Status == StatusInitializing {
			return nodePlan
		}
		return nodePrepareTurn
	},
	nodePlan:        always(nodeGreet),
	nodeGreet:       always(nodeLogGreeting),
	nodeLogGreeting: always(nodeSuspend),
	nodePrepareTurn: always(nodeCheckStop),
	nodeCheckStop: func(s *SessionState) node {
		if s.StopRequested {
			return nodeHiringManager
		}
		return nodeCheckLimit
	},
	nodeCheckLimit: func(s *SessionState) node {
		if s.Status == StatusEnding {
			return nodeHiringManager
		}
		return nodeAnalyze
	},
	nodeAnalyze: func(s *SessionState) node {
		if a := s.Turn.Analysis; a != nil && a.NeedsFactCheck && len(a.SuspiciousClaims) > 0 {
			return nodeFactCheck
		}
		return nodeEvaluate
	},
	nodeFactCheck: always(nodeEvaluate),
	nodeEvaluate: func(s *SessionState) node {
		if a := s.Turn.Analysis; a != nil && a.AskedQuestion {
			return nodeQuestionHandler
		}
		return nodeRoute
	},
	nodeQuestionHandler: always(nodeRoute),
	nodeRoute: func(s *SessionState) node {
		if d := s.Turn.Decision; d != nil && d.Action == ActionEndInterview {
			return nodeHiringManager
		}
		return nodeRespond
	},
	nodeRespond:        always(nodeLogTurn),
	nodeLogTurn:        always(nodeUpdateProgress),
	nodeUpdateProgress: always(nodeSuspend),
	nodeHiringManager:  always(nodeCompleted),
}

// Engine runs the interview workflow. It holds no per-session state; callers
// pass the session in and receive the updated copy back.
type Engine struct {
	steps     Steps
	sink      SessionSink
	logger    *logging.Logger
	metrics   *metrics.InterviewMetrics
	now       func() time.Time
	limit     int
	stopWords []string
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithSessionSink sets the persistence collaborator.
func WithSessionSink(sink SessionSink) EngineOption {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithMetrics sets the Prometheus recorder.
func WithMetrics(m *metrics.InterviewMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithQuestionLimit sets the turn id at which the interview ends.
func WithQuestionLimit(limit int) EngineOption {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// WithStopWords replaces the stop phrases.
func WithStopWords(words ...string) EngineOption {
	return func(e *Engine) {
		var cleaned []string
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				cleaned = append(cleaned, w)
			}
		}
		if len(cleaned) > 0 {
			e.stopWords = cleaned
		}
	}
}

// NewEngine wires an engine around the supplied steps.
func NewEngine(steps Steps, logger *logging.Logger, opts ...EngineOption) *Engine {
	if steps == nil {
		panic("interview: steps cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		steps:     steps,
		logger:    logger,
		now:       time.Now,
		limit:     defaultQuestionLimit,
		stopWords: DefaultStopWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartInterview creates a session for profile and runs planning and the
// greeting. The returned state is in progress at turn 1.
func (e *Engine) StartInterview(ctx context.Context, sessionID string, profile *CandidateProfile) (*SessionState, error) {
	state := NewSessionState(sessionID, profile, e.now().UTC())
	if profile == nil {
		state.LastError = ErrProfileMissing.Error()
		return state, ErrProfileMissing
	}
	if err := profile.Validate(); err != nil {
		state.LastError = err.Error()
		return state, err
	}
	return e.run(ctx, "start", state, "")
}

// ProcessTurn runs one candidate message through the workflow. state is not
// modified; the updated session is returned.
func (e *Engine) ProcessTurn(ctx context.Context, state *SessionState, userMessage string) (*SessionState, error) {
	if state == nil {
		return nil, ErrSessionNotFound
	}
	if state.Completed() {
		return nil, ErrSessionTerminated
	}
	if state.Profile == nil {
		return nil, ErrProfileMissing
	}
	if state.Status == StatusInitializing {
		return nil, fmt.Errorf("interview: session %s has not been started", state.ID)
	}
	return e.run(ctx, "turn", state.Clone(), userMessage)
}

func (e *Engine) run(ctx context.Context, kind string, state *SessionState, input string) (*SessionState, error) {
	started := time.Now()
	logger := e.logger.WithSession(state.ID)

	current := nodeEntry
	for i := 0; ; i++ {
		if i >= maxWorkflowSteps {
			e.metrics.ObserveTurn(kind, "aborted", time.Since(started).Seconds())
			return nil, fmt.Errorf("interview: workflow exceeded %d steps at %s", maxWorkflowSteps, current)
		}
		if current == nodeSuspend || current == nodeCompleted {
			break
		}
		e.execute(ctx, logger, current, state, input)
		next, ok := transitions[current]
		if !ok {
			return nil, fmt.Errorf("interview: no transition from %s", current)
		}
		current = next(state)
	}

	state.UpdatedAt = e.now().UTC()
	outcome := "continued"
	if current == nodeCompleted {
		outcome = "completed"
	}
	e.metrics.ObserveTurn(kind, outcome, time.Since(started).Seconds())
	logger.Info("interview turn processed",
		"kind", kind,
		"turn_id", state.TurnID,
		"status", state.Status,
		"outcome", outcome,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return state, nil
}

func (e *Engine) execute(ctx context.Context, logger *logging.Logger, n node, s *SessionState, input string) {
	switch n {
	case nodePlan:
		e.plan(ctx, logger, s)
	case nodeGreet:
		e.greet(ctx, logger, s)
	case nodeLogGreeting:
		e.logTurn(ctx, logger, s, nil)
	case nodePrepareTurn:
		e.prepareTurn(s, input)
	case nodeCheckLimit:
		// The plan's own limit is advisory; only the configured limit ends a session.
		if s.TurnID >= e.limit {
			s.Status = StatusEnding
		}
	case nodeAnalyze:
		e.analyze(ctx, logger, s)
	case nodeFactCheck:
		e.factCheck(ctx, logger, s)
	case nodeEvaluate:
		e.evaluate(ctx, logger, s)
	case nodeQuestionHandler:
		e.answerQuestion(ctx, logger, s)
	case nodeRoute:
		d := Decide(s.Turn.Analysis, s.Session.Plan)
		s.Turn.Decision = &d
		s.Turn.Rationale.Record(RouterReport{
			Action:     d.Action,
			Topic:      d.NextTopic,
			Difficulty: d.Difficulty,
			Reasoning:  d.Rationale,
		})
	case nodeRespond:
		e.respond(ctx, logger, s)
	case nodeLogTurn:
		msg := s.Turn.UserMessage
		e.logTurn(ctx, logger, s, &msg)
	case nodeUpdateProgress:
		Advance(s.Session.Plan)
	case nodeHiringManager:
		e.finish(ctx, logger, s)
	}
}

func (e *Engine) fallback(logger *logging.Logger, step Step, err error) {
	e.metrics.ObserveFallback(string(step))
	logger.Warn("interview step failed, using fallback", "step", step, "error", err)
}

func (e *Engine) plan(ctx context.Context, logger *logging.Logger, s *SessionState) {
	plan, err := e.steps.PlanTopics(ctx, *s.Profile)
	if err == nil && (plan == nil || len(plan.Topics) == 0) {
		err = errors.New("empty plan")
	}
	usedFallback := err != nil
	if usedFallback {
		e.fallback(logger, StepPlanner, err)
		plan = DefaultPlan(*s.Profile)
	}
	plan.Normalize()
	// A later plan replaces the earlier one along with any recorded progress.
	s.Session.Plan = plan

	names := make([]string, 0, len(plan.Topics))
	for _, t := range plan.Topics {
		names = append(names, t.Name)
	}
	s.Turn.Rationale.Record(PlannerReport{TopicsCount: len(names), Topics: names, Fallback: usedFallback})
}

func (e *Engine) greet(ctx context.Context, logger *logging.Logger, s *SessionState) {
	msg, err := e.steps.Greet(ctx, GreetRequest{Profile: *s.Profile, Plan: s.Session.Plan.Clone()})
	msg = strings.TrimSpace(msg)
	if err == nil && msg == "" {
		err = errors.New("empty greeting")
	}
	if err != nil {
		e.fallback(logger, StepInterviewer, err)
		msg = DefaultGreeting(*s.Profile, s.Session.Plan)
	}
	s.AgentMessage = msg
	s.Session.History = append(s.Session.History, Message{Role: RoleInterviewer, Content: msg})
	s.Status = StatusInProgress
	s.Turn.Rationale.Record(InterviewerReport{Greeting: true, Topic: s.CurrentTopicName(), Fallback: err != nil})
}

func (e *Engine) prepareTurn(s *SessionState, input string) {
	s.Session.History = append(s.Session.History, Message{Role: RoleCandidate, Content: input})
	s.TurnID++
	s.Turn = TurnScratch{UserMessage: input}
	if containsStopWord(input, e.stopWords) {
		s.StopRequested = true
		s.Status = StatusEnding
	}
}

func containsStopWord(message string, words []string) bool {
	lower := strings.ToLower(message)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func (e *Engine) analyze(ctx context.Context, logger *logging.Logger, s *SessionState) {
	analysis, err := e.steps.AnalyzeAnswer(ctx, AnalysisRequest{
		Profile:      *s.Profile,
		Plan:         s.Session.Plan.Clone(),
		CurrentTopic: s.CurrentTopicName(),
		LastQuestion: s.AgentMessage,
		History:      append([]Message(nil), s.Session.History...),
		UserMessage:  s.Turn.UserMessage,
	})
	if err == nil && (analysis == nil || !analysis.Quality.Valid()) {
		err = errors.New("analysis missing or has unknown quality")
	}
	if err != nil {
		e.fallback(logger, StepAnalyzer, err)
		analysis = HeuristicAnalysis(s.Turn.UserMessage)
	}
	s.Turn.Analysis = analysis
	s.Turn.Rationale.Record(AnalyzerReport{
		Quality:        analysis.Quality,
		OffTopic:       analysis.OffTopic,
		NeedsFactCheck: analysis.NeedsFactCheck,
		AskedQuestion:  analysis.AskedQuestion,
		Reasoning:      analysis.Reasoning,
		Fallback:       err != nil,
	})
}

func (e *Engine) factCheck(ctx context.Context, logger *logging.Logger, s *SessionState) {
	claims := append([]string(nil), s.Turn.Analysis.SuspiciousClaims...)
	result, err := e.steps.CheckFacts(ctx, claims)
	if err == nil && result == nil {
		err = errors.New("empty fact check result")
	}
	if err != nil {
		e.fallback(logger, StepFactChecker, err)
		result = UnverifiedFacts(claims, ReasonSearchUnavailable)
	}
	s.Turn.FactCheck = result
	s.Session.FalseFacts = append(s.Session.FalseFacts, result.VerifiedFalse...)
	s.Session.Unverified = append(s.Session.Unverified, result.Unverified...)
	s.Turn.Rationale.Record(FactCheckReport{
		ClaimsChecked: len(result.VerifiedTrue) + len(result.VerifiedFalse) + len(result.Unverified),
		VerifiedTrue:  len(result.VerifiedTrue),
		VerifiedFalse: len(result.VerifiedFalse),
		Unverified:    len(result.Unverified),
		Fallback:      err != nil,
	})
}

func (e *Engine) evaluate(ctx context.Context, logger *logging.Logger, s *SessionState) {
	var analysis AnswerAnalysis
	if s.Turn.Analysis != nil {
		analysis = *s.Turn.Analysis
	}
	assessment, err := e.steps.AssessTurn(ctx, AssessmentRequest{
		Profile:      *s.Profile,
		CurrentTopic: s.CurrentTopicName(),
		LastQuestion: s.AgentMessage,
		UserMessage:  s.Turn.UserMessage,
		Analysis:     analysis,
		FactCheck:    s.Turn.FactCheck.Clone(),
		Current:      s.Session.Evaluation.Clone(),
		TurnID:       s.TurnID,
	})
	if err == nil && assessment == nil {
		err = errors.New("empty assessment")
	}
	var reasoning string
	if err != nil {
		e.fallback(logger, StepEvaluator, err)
		s.Session.Evaluation = DegradedUpdate(s.Session.Evaluation, s.Turn.Analysis, s.Turn.FactCheck)
		reasoning = "degraded update"
	} else {
		s.Turn.Assessment = assessment
		s.Session.Evaluation = Merge(s.Session.Evaluation, *assessment, s.TurnID)
		reasoning = assessment.Reasoning
	}
	ev := s.Session.Evaluation
	s.Turn.Rationale.Record(EvaluatorReport{
		GradeEstimate:   ev.GradeEstimate,
		GradeConfidence: ev.GradeConfidence,
		SkillsConfirmed: len(ev.SkillsConfirmed),
		SkillGaps:       len(ev.SkillGaps),
		Reasoning:       reasoning,
		Fallback:        err != nil,
	})
}

func (e *Engine) answerQuestion(ctx context.Context, logger *logging.Logger, s *SessionState) {
	question := strings.TrimSpace(s.Turn.Analysis.CandidateQuestion)
	if question == "" {
		question = s.Turn.UserMessage
	}
	reply, err := e.steps.HandleCandidateQuestion(ctx, QuestionRequest{
		Question: question,
		Profile:  *s.Profile,
		Topic:    s.CurrentTopicName(),
	})
	reply = strings.TrimSpace(reply)
	if err == nil && reply == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		e.fallback(logger, StepQuestionHandler, err)
		reply = RuleBasedReply(question, s.Profile)
	}
	s.Turn.QuestionReply = reply
	s.Turn.Rationale.Record(QuestionReport{Question: question, Reply: reply, Fallback: err != nil})
}

func (e *Engine) respond(ctx context.Context, logger *logging.Logger, s *SessionState) {
	decision := *s.Turn.Decision
	msg, err := e.steps.GenerateTurn(ctx, TurnRequest{
		Profile:        *s.Profile,
		Plan:           s.Session.Plan.Clone(),
		Decision:       decision,
		QuestionReply:  s.Turn.QuestionReply,
		AskedQuestions: append([]string(nil), s.Session.AskedQuestions...),
		History:        append([]Message(nil), s.Session.History...),
	})
	msg = strings.TrimSpace(msg)
	if err == nil && msg == "" {
		err = errors.New("empty interviewer message")
	}
	if err != nil {
		e.fallback(logger, StepInterviewer, err)
		msg = DefaultTurnMessage(decision)
	}

	visible := msg
	if reply := s.Turn.QuestionReply; reply != "" {
		s.Session.History = append(s.Session.History, Message{Role: RoleInterviewer, Content: reply})
		visible = reply + "\n\n" + msg
	}
	s.Session.History = append(s.Session.History, Message{Role: RoleInterviewer, Content: msg})
	s.Session.AskedQuestions = append(s.Session.AskedQuestions, msg)
	s.AgentMessage = visible
	s.Turn.Rationale.Record(InterviewerReport{Action: decision.Action, Topic: decision.NextTopic, Fallback: err != nil})
}

func (e *Engine) logTurn(ctx context.Context, logger *logging.Logger, s *SessionState, userMessage *string) {
	s.Session.Ledger.Append(TurnLog{
		TurnID:       s.TurnID,
		Timestamp:    e.now().UTC(),
		AgentMessage: s.AgentMessage,
		UserMessage:  userMessage,
		Rationale:    s.Turn.Rationale,
	})
	r := s.Turn.Rationale.Clone()
	s.Session.LastRationale = &r
	e.persist(ctx, logger, "turn", s)
}

func (e *Engine) finish(ctx context.Context, logger *logging.Logger, s *SessionState) {
	reason := ReasonLimitReached
	switch {
	case s.StopRequested:
		reason = ReasonStopRequested
	case s.Turn.Decision != nil && s.Turn.Decision.Action == ActionEndInterview:
		reason = ReasonTopicsExhausted
	}

	feedback, err := e.steps.ProduceFinalFeedback(ctx, FeedbackRequest{
		Profile:    *s.Profile,
		Evaluation: s.Session.Evaluation.Clone(),
		History:    append([]Message(nil), s.Session.History...),
		FalseFacts: append([]FalseFact(nil), s.Session.FalseFacts...),
		Unverified: append([]UnverifiedFact(nil), s.Session.Unverified...),
	})
	if err == nil && (feedback == nil || !feedback.Decision.Recommendation.Valid()) {
		err = errors.New("feedback missing or has unknown recommendation")
	}
	if err != nil {
		e.fallback(logger, StepHiringManager, err)
		feedback = RuleBasedFeedback(s.Session.Evaluation, s.Session.FalseFacts, s.Session.Unverified)
	}
	if feedback.ConfidenceTrend == "" {
		feedback.ConfidenceTrend = ComputeTrend(s.Session.Evaluation.ConfidenceHistory)
	}

	s.Session.FinalFeedback = feedback
	s.Status = StatusCompleted
	s.AgentMessage = ClosingMessage
	s.Session.History = append(s.Session.History, Message{Role: RoleInterviewer, Content: ClosingMessage})
	s.Turn.Rationale.Record(HiringReport{
		Grade:          feedback.Decision.Grade,
		Recommendation: feedback.Decision.Recommendation,
		Confidence:     feedback.Decision.Confidence,
		Reason:         reason,
		Fallback:       err != nil,
	})
	r := s.Turn.Rationale.Clone()
	s.Session.LastRationale = &r

	e.metrics.ObserveCompleted(reason)
	logger.Info("interview completed",
		"reason", reason,
		"grade", feedback.Decision.Grade,
		"recommendation", feedback.Decision.Recommendation,
	)
	e.persist(ctx, logger, "completion", s)
}

func (e *Engine) persist(ctx context.Context, logger *logging.Logger, stage string, s *SessionState) {
	if e.sink == nil {
		return
	}
	if err := e.sink.SaveSession(ctx, s.Clone()); err != nil {
		e.metrics.ObservePersistFailure(stage)
		logger.Error("failed to persist interview session", "stage", stage, "error", err)
	}
}
