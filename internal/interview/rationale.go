package interview

// Step names a unit of work in the turn workflow. The values double as metric
// labels.
type Step string

const (
	StepPlanner         Step = "planner"
	StepInterviewer     Step = "interviewer"
	StepAnalyzer        Step = "analyzer"
	StepFactChecker     Step = "fact_checker"
	StepEvaluator       Step = "evaluator"
	StepQuestionHandler Step = "question_handler"
	StepRouter          Step = "router"
	StepHiringManager   Step = "hiring_manager"
)

// StepReport is the closed set of per-step rationale records. Only types in
// this package implement it.
type StepReport interface {
	Step() Step
	stepReport()
}

// PlannerReport describes the plan chosen at session start.
type PlannerReport struct {
	TopicsCount int      `json:"topics_count"`
	Topics      []string `json:"topics"`
	Fallback    bool     `json:"fallback,omitempty"`
}

// InterviewerReport describes the message shown to the candidate.
type InterviewerReport struct {
	Action   Action `json:"action,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Greeting bool   `json:"greeting,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// AnalyzerReport summarises the answer analysis.
type AnalyzerReport struct {
	Quality        AnswerQuality `json:"quality"`
	OffTopic       bool          `json:"off_topic"`
	NeedsFactCheck bool          `json:"needs_fact_check"`
	AskedQuestion  bool          `json:"asked_question"`
	Reasoning      string        `json:"reasoning,omitempty"`
	Fallback       bool          `json:"fallback,omitempty"`
}

// FactCheckReport counts verdicts for the checked claims.
type FactCheckReport struct {
	ClaimsChecked int  `json:"claims_checked"`
	VerifiedTrue  int  `json:"verified_true"`
	VerifiedFalse int  `json:"verified_false"`
	Unverified    int  `json:"unverified"`
	Fallback      bool `json:"fallback,omitempty"`
}

// EvaluatorReport summarises the running assessment after the merge.
type EvaluatorReport struct {
	GradeEstimate   GradeEstimate `json:"grade_estimate"`
	GradeConfidence float64       `json:"grade_confidence"`
	SkillsConfirmed int           `json:"skills_confirmed_count"`
	SkillGaps       int           `json:"skills_gaps_count"`
	Reasoning       string        `json:"reasoning,omitempty"`
	Fallback        bool          `json:"fallback,omitempty"`
}

// QuestionReport records the candidate question and the reply given.
type QuestionReport struct {
	Question string `json:"question"`
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}

// RouterReport records the routing decision.
type RouterReport struct {
	Action     Action     `json:"action"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// HiringReport records the final decision.
type HiringReport struct {
	Grade          GradeEstimate  `json:"grade"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Reason         string         `json:"reason"`
	Fallback       bool           `json:"fallback,omitempty"`
}

func (PlannerReport) Step() Step     { return StepPlanner }
func (InterviewerReport) Step() Step { return StepInterviewer }
func (AnalyzerReport) Step() Step    { return StepAnalyzer }
func (FactCheckReport) Step() Step   { return StepFactChecker }
func (EvaluatorReport) Step() Step   { return StepEvaluator }
func (QuestionReport) Step() Step    { return StepQuestionHandler }
func (RouterReport) Step() Step      { return StepRouter }
func (HiringReport) Step() Step      { return StepHiringManager }

func (PlannerReport) stepReport()     {}
func (InterviewerReport) stepReport() {}
func (AnalyzerReport) stepReport()    {}
func (FactCheckReport) stepReport()   {}
func (EvaluatorReport) stepReport()   {}
func (QuestionReport) stepReport()    {}
func (RouterReport) stepReport()      {}
func (HiringReport) stepReport()      {}

// TurnRationale is the snapshot of what every step that ran reported during a
// turn. Steps that did not run leave their slot nil.
type TurnRationale struct {
	Planner         *PlannerReport     `json:"planner,omitempty"`
	Interviewer     *InterviewerReport `json:"interviewer,omitempty"`
	Analyzer        *AnalyzerReport    `json:"analyzer,omitempty"`
	FactChecker     *FactCheckReport   `json:"fact_checker,omitempty"`
	Evaluator       *EvaluatorReport   `json:"evaluator,omitempty"`
	QuestionHandler *QuestionReport    `json:"question_handler,omitempty"`
	Router          *RouterReport      `json:"router,omitempty"`
	HiringManager   *HiringReport      `json:"hiring_manager,omitempty"`
}

// Record stores r in its step's slot, replacing any earlier report.
func (t *TurnRationale) Record(r StepReport) {
	switch v := r.(type) {
	case PlannerReport:
		v.Topics = append([]string(nil), v.Topics...)
		t.Planner = &v
	case InterviewerReport:
		t.Interviewer = &v
	case AnalyzerReport:
		t.Analyzer = &v
	case FactCheckReport:
		t.FactChecker = &v
	case EvaluatorReport:
		t.Evaluator = &v
	case QuestionReport:
		t.QuestionHandler = &v
	case RouterReport:
		t.Router = &v
	case HiringReport:
		t.HiringManager = &v
	}
}

// Reports returns the recorded reports in workflow order.
func (t TurnRationale) Reports() []StepReport {
	var out []StepReport
	if t.Planner != nil {
		out = append(out, *t.Planner)
	}
	if t.Analyzer != nil {
		out = append(out, *t.Analyzer)
	}
	if t.FactChecker != nil {
		out = append(out, *t.FactChecker)
	}
	if t.Evaluator != nil {
		out = append(out, *t.Evaluator)
	}
	if t.QuestionHandler != nil {
		out = append(out, *t.QuestionHandler)
	}
	if t.Router != nil {
		out = append(out, *t.Router)
	}
	if t.Interviewer != nil {
		out = append(out, *t.Interviewer)
	}
	if t.HiringManager != nil {
		out = append(out, *t.HiringManager)
	}
	return out
}

// Empty reports whether no step recorded anything.
func (t TurnRationale) Empty() bool {
	return len(t.Reports()) == 0
}

// Clone returns a copy that shares no pointers with t.
func (t TurnRationale) Clone() TurnRationale {
	var out TurnRationale
	for _, r := range t.Reports() {
		out.Record(r)
	}
	return out
}
