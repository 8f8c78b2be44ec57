package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wolfman30/interview-coach/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var llmTracer = otel.Tracer("interview.internal.agents.llm")

var llmLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "interview",
		Subsystem: "agents",
		Name:      "llm_latency_seconds",
		Help:      "Latency of LLM completions by step",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30, 60},
	},
	[]string{"step", "status"},
)

var llmTokensTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "interview",
		Subsystem: "agents",
		Name:      "llm_tokens_total",
		Help:      "Tokens used by the LLM",
	},
	[]string{"step", "type"}, // type: input, output, total
)

var llmParseFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "interview",
		Subsystem: "agents",
		Name:      "llm_parse_failures_total",
		Help:      "LLM replies that did not contain the expected JSON object",
	},
	[]string{"step"},
)

func init() {
	prometheus.MustRegister(llmLatency, llmTokensTotal, llmParseFailures)
}

// RegisterMetrics registers agent metrics with a custom registry.
func RegisterMetrics(reg prometheus.Registerer) {
	if reg == nil || reg == prometheus.DefaultRegisterer {
		return
	}
	reg.MustRegister(llmLatency, llmTokensTotal, llmParseFailures)
}

// ErrNoJSON is returned when a reply holds no JSON object.
var ErrNoJSON = errors.New("agents: no JSON object in LLM reply")

// completer issues instrumented completions on behalf of every step.
type completer struct {
	client      LLMClient
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	logger      *logging.Logger
}

func (c *completer) text(ctx context.Context, step, system, user string) (string, error) {
	ctx, span := llmTracer.Start(ctx, "agents."+step)
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := LLMRequest{
		Model:       c.model,
		System:      []string{system},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if strings.TrimSpace(user) == "" {
		user = "Proceed."
	}
	req.Messages = []ChatMessage{{Role: ChatRoleUser, Content: user}}

	start := time.Now()
	resp, err := c.client.Complete(ctx, req)
	latency := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	llmLatency.WithLabelValues(step, status).Observe(latency.Seconds())
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("interview.llm.step", step),
			attribute.String("interview.llm.model", c.model),
			attribute.Float64("interview.llm.latency_ms", float64(latency.Milliseconds())),
			attribute.Int("interview.llm.input_tokens", int(resp.Usage.InputTokens)),
			attribute.Int("interview.llm.output_tokens", int(resp.Usage.OutputTokens)),
			attribute.String("interview.llm.stop_reason", resp.StopReason),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("agents: %s completion: %w", step, err)
	}
	if resp.Usage.InputTokens > 0 {
		llmTokensTotal.WithLabelValues(step, "input").Add(float64(resp.Usage.InputTokens))
	}
	if resp.Usage.OutputTokens > 0 {
		llmTokensTotal.WithLabelValues(step, "output").Add(float64(resp.Usage.OutputTokens))
	}
	if resp.Usage.TotalTokens > 0 {
		llmTokensTotal.WithLabelValues(step, "total").Add(float64(resp.Usage.TotalTokens))
	}

	c.logger.Debug("llm completion finished",
		"step", step,
		"latency_ms", latency.Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("agents: %s returned an empty reply", step)
	}
	return text, nil
}

// structured runs a completion and decodes the first JSON object of the reply into out.
func (c *completer) structured(ctx context.Context, step, system, user string, out any) error {
	text, err := c.text(ctx, step, system, user)
	if err != nil {
		return err
	}
	if err := decodeJSON(text, out); err != nil {
		llmParseFailures.WithLabelValues(step).Inc()
		return fmt.Errorf("agents: %s: %w", step, err)
	}
	return nil
}

// extractJSON returns the span between the first '{' and the last '}'.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeJSON(text string, out any) error {
	raw, ok := extractJSON(text)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

// looksLikeJSON reports whether a conversational reply leaked structured output.
func looksLikeJSON(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "```")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
