// Command llmtest sends one interviewer prompt through the configured LLM
// providers so credentials and the fallback chain can be checked by hand.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/wolfman30/interview-coach/cmd/mainconfig"
	"github.com/wolfman30/interview-coach/internal/agents"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	req := agents.LLMRequest{
		Model:  cfg.BedrockModelID,
		System: []string{"You are a technical interviewer for a Middle Go Developer. Ask exactly one question."},
		Messages: []agents.ChatMessage{
			{Role: agents.ChatRoleUser, Content: "Hi, I'm ready to start."},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	}

	if cfg.GeminiAPIKey != "" {
		fmt.Println("[1] Gemini directly")
		gemini, err := agents.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			fmt.Printf("    failed to create client: %v\n", err)
		} else {
			report(ctx, gemini, req)
			_ = gemini.Close()
		}
	} else {
		fmt.Println("[1] Skipping Gemini (GEMINI_API_KEY not set)")
	}

	fmt.Printf("[2] Configured chain (LLM_PROVIDER=%s)\n", cfg.LLMProvider)
	client, closeFn, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("    failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()
	report(ctx, client, req)
}

func report(ctx context.Context, client agents.LLMClient, req agents.LLMRequest) {
	start := time.Now()
	resp, err := client.Complete(ctx, req)
	if err != nil {
		fmt.Printf("    error after %v: %v\n", time.Since(start).Round(time.Millisecond), err)
		return
	}
	fmt.Printf("    response in %v (stop=%s, in=%d, out=%d):\n    %s\n",
		time.Since(start).Round(time.Millisecond), resp.StopReason,
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Text)
}
