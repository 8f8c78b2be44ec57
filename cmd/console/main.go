// Command console runs one interview in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/wolfman30/interview-coach/cmd/mainconfig"
	"github.com/wolfman30/interview-coach/internal/agents"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/internal/search"
	"github.com/wolfman30/interview-coach/internal/sessionlog"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// Options are interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Name          string `short:"n" long:"name" description:"candidate name" required:"true"`
	Position      string `short:"p" long:"position" description:"position applied for" required:"true"`
	Grade         string `short:"g" long:"grade" description:"target grade" choice:"Junior" choice:"Middle" choice:"Senior" default:"Middle"`
	Experience    string `short:"e" long:"experience" description:"free-form experience summary"`
	LogFile       string `short:"o" long:"log-file" description:"session log path (overrides LOG_FILE_PATH)"`
	HideRationale bool   `long:"hide-rationale" description:"do not print the per-turn step rationale"`
	NoSearch      bool   `long:"no-search" description:"disable web search during fact checking"`
}

func (o *Options) profile() *interview.CandidateProfile {
	return &interview.CandidateProfile{
		Name:        strings.TrimSpace(o.Name),
		Position:    strings.TrimSpace(o.Position),
		TargetGrade: interview.Grade(o.Grade),
		Experience:  strings.TrimSpace(o.Experience),
	}
}

func main() {
	_ = godotenv.Load()

	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := appconfig.Load()
	if opts.LogFile != "" {
		cfg.LogFilePath = opts.LogFile
	}
	if opts.NoSearch {
		cfg.SearchEnabled = false
	}
	// The terminal belongs to the interview; only warnings go to stderr.
	logger := logging.NewWithWriter(os.Stderr, "warn")

	ctx := context.Background()
	client, closeLLM, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	defer closeLLM()

	manager := newManager(cfg, client, logger)
	if err := run(ctx, manager, opts.profile(), os.Stdin, os.Stdout, !opts.HideRationale); err != nil {
		log.Fatal(err)
	}
}

func newManager(cfg *appconfig.Config, client agents.LLMClient, logger *logging.Logger) *interview.Manager {
	var crewOpts []agents.CrewOption
	if cfg.SearchEnabled {
		crewOpts = append(crewOpts, agents.WithSearch(search.NewDuckDuckGo(cfg.SearchBaseURL,
			search.WithLogger(logger),
			search.WithTimeout(cfg.SearchTimeout),
		)))
	}
	crew := agents.NewCrew(client, agents.CrewConfig{
		Model:                cfg.BedrockModelID,
		Temperature:          cfg.LLMTemperature,
		MaxTokens:            cfg.LLMMaxTokens,
		Timeout:              cfg.LLMTimeout,
		MaxQuestionsPerTopic: cfg.MaxQuestionsPerTopic,
	}, logger, crewOpts...)

	engine := interview.NewEngine(crew, logger,
		interview.WithSessionSink(sessionlog.NewFileSink(cfg.LogFilePath, cfg.TeamName, logger)),
		interview.WithQuestionLimit(cfg.TotalQuestionsLimit),
	)
	return interview.NewManager(engine, interview.NewMemoryStore(), logger)
}

// run drives one session: every line read from in is a candidate answer.
// EOF before completion sends the stop command.
func run(ctx context.Context, svc interview.Service, profile *interview.CandidateProfile, in io.Reader, out io.Writer, showRationale bool) error {
	state, err := svc.Start(ctx, profile)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}
	printTurn(out, state, showRationale)

	scanner := bufio.NewScanner(in)
	for !state.Completed() {
		fmt.Fprint(out, "\n> ")
		message := "stop"
		if scanner.Scan() {
			message = strings.TrimSpace(scanner.Text())
			if message == "" {
				continue
			}
		} else if err := scanner.Err(); err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		state, err = svc.Process(ctx, state.ID, message)
		if err != nil {
			return fmt.Errorf("process turn: %w", err)
		}
		printTurn(out, state, showRationale)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, interview.RenderFeedback(state.Session.FinalFeedback))
	return nil
}

func printTurn(out io.Writer, state *interview.SessionState, showRationale bool) {
	fmt.Fprintf(out, "\nInterviewer: %s\n", state.AgentMessage)
	if !showRationale || state.Session.LastRationale == nil {
		return
	}
	fmt.Fprintf(out, "\n--- rationale (turn %d) ---\n%s\n", state.TurnID, interview.RenderRationale(state.Session.LastRationale))
}
