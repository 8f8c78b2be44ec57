package interview

import (
	"fmt"
	"strings"
)

// RenderRationale formats the per-step rationale as readable text.
func RenderRationale(r *TurnRationale) string {
	if r == nil || r.Empty() {
		return "No internal rationale recorded."
	}
	var b strings.Builder
	for _, report := range r.Reports() {
		fmt.Fprintf(&b, "[%s] ", report.Step())
		switch v := report.(type) {
		case PlannerReport:
			fmt.Fprintf(&b, "%d topics: %s", v.TopicsCount, strings.Join(v.Topics, ", "))
		case AnalyzerReport:
			fmt.Fprintf(&b, "quality=%s off_topic=%t fact_check=%t question=%t", v.Quality, v.OffTopic, v.NeedsFactCheck, v.AskedQuestion)
			if v.Reasoning != "" {
				fmt.Fprintf(&b, " (%s)", v.Reasoning)
			}
		case FactCheckReport:
			fmt.Fprintf(&b, "checked=%d true=%d false=%d unverified=%d", v.ClaimsChecked, v.VerifiedTrue, v.VerifiedFalse, v.Unverified)
		case EvaluatorReport:
			fmt.Fprintf(&b, "grade=%s confidence=%.2f skills=%d gaps=%d", v.GradeEstimate, v.GradeConfidence, v.SkillsConfirmed, v.SkillGaps)
		case QuestionReport:
			fmt.Fprintf(&b, "question=%q", v.Question)
		case RouterReport:
			fmt.Fprintf(&b, "action=%s topic=%s difficulty=%s", v.Action, v.Topic, v.Difficulty)
			if v.Reasoning != "" {
				fmt.Fprintf(&b, " (%s)", v.Reasoning)
			}
		case InterviewerReport:
			if v.Greeting {
				b.WriteString("greeting")
			} else {
				fmt.Fprintf(&b, "action=%s topic=%s", v.Action, v.Topic)
			}
		case HiringReport:
			fmt.Fprintf(&b, "%s / %s (%.2f), reason=%s", v.Grade, v.Recommendation, v.Confidence, v.Reason)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFeedback formats the final report as readable text.
func RenderFeedback(f *FinalFeedback) string {
	if f == nil {
		return "Feedback is not available yet."
	}
	var b strings.Builder
	b.WriteString("FINAL FEEDBACK\n\n")
	fmt.Fprintf(&b, "Grade: %s\nRecommendation: %s\nConfidence: %.0f%%\n\n",
		f.Decision.Grade, f.Decision.Recommendation, f.Decision.Confidence*100)

	b.WriteString("Confirmed skills:\n")
	if len(f.TechnicalReview.ConfirmedSkills) == 0 {
		b.WriteString("  none\n")
	}
	for _, s := range f.TechnicalReview.ConfirmedSkills {
		fmt.Fprintf(&b, "  + %s\n", s)
	}

	b.WriteString("\nKnowledge gaps:\n")
	if len(f.TechnicalReview.KnowledgeGaps) == 0 {
		b.WriteString("  none\n")
	}
	for _, g := range f.TechnicalReview.KnowledgeGaps {
		fmt.Fprintf(&b, "  - %s", g.Topic)
		if g.CorrectAnswer != "" {
			fmt.Fprintf(&b, ": %s", g.CorrectAnswer)
		}
		b.WriteString("\n")
	}
	if len(f.TechnicalReview.UnverifiedClaims) > 0 {
		b.WriteString("\nUnverified claims:\n")
		for _, u := range f.TechnicalReview.UnverifiedClaims {
			fmt.Fprintf(&b, "  ? %s (%s)\n", u.Claim, u.Reason)
		}
	}

	fmt.Fprintf(&b, "\nSoft skills: clarity %.0f%%, honesty %.0f%%, engagement %.0f%%\n",
		f.SoftSkills.Clarity*100, f.SoftSkills.Honesty*100, f.SoftSkills.Engagement*100)

	if len(f.Roadmap) > 0 {
		b.WriteString("\nRoadmap:\n")
		for _, item := range f.Roadmap {
			fmt.Fprintf(&b, "  * %s", item.Topic)
			if len(item.Resources) > 0 {
				fmt.Fprintf(&b, ": %s", strings.Join(item.Resources, "; "))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nConfidence trend: %s", f.ConfidenceTrend)
	return b.String()
}
