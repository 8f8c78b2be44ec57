package agents

import (
	"context"
	"errors"
	"io"

	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/internal/search"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

type stubLLMClient struct {
	response  LLMResponse
	err       error
	lastReq   LLMRequest
	requests  []LLMRequest
	responses []LLMResponse
	errs      []error
	calls     int
}

func (s *stubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.lastReq = req
	s.requests = append(s.requests, req)

	if s.calls < len(s.errs) && s.errs[s.calls] != nil {
		err := s.errs[s.calls]
		s.calls++
		return LLMResponse{}, err
	}
	if len(s.responses) > 0 {
		if s.calls >= len(s.responses) {
			s.calls++
			return LLMResponse{}, errors.New("no scripted response")
		}
		resp := s.responses[s.calls]
		s.calls++
		return resp, nil
	}
	s.calls++
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return s.response, nil
}

func (s *stubLLMClient) prompt() string {
	if len(s.lastReq.System) == 0 {
		return ""
	}
	return s.lastReq.System[0]
}

func scripted(texts ...string) *stubLLMClient {
	s := &stubLLMClient{}
	for _, t := range texts {
		s.responses = append(s.responses, LLMResponse{Text: t})
	}
	return s
}

type stubSearch struct {
	results map[string][]search.Result
	err     error
	queries []string
}

func (s *stubSearch) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func testProfile() interview.CandidateProfile {
	return interview.CandidateProfile{
		Name:        "Alex",
		Position:    "Backend Developer",
		TargetGrade: interview.GradeJunior,
		Experience:  "2 years of Go",
	}
}

func newTestCrew(client LLMClient, opts ...CrewOption) *Crew {
	return NewCrew(client, CrewConfig{Model: "test-model", Temperature: 0.2, MaxTokens: 500, MaxQuestionsPerTopic: 3}, testLogger(), opts...)
}
