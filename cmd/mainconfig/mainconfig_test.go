package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wolfman30/interview-coach/internal/agents"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{AWSRegion: "eu-west-1", AWSAccessKeyID: "key", AWSSecretAccessKey: "secret"}

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if awsCfg.Region != "eu-west-1" {
		t.Fatalf("expected region eu-west-1, got %q", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "key" || creds.SecretAccessKey != "secret" {
		t.Fatalf("unexpected credentials %#v", creds)
	}
	if awsCfg.EndpointResolverWithOptions != nil {
		t.Fatalf("expected no endpoint override")
	}
}

func TestLoadAWSConfigEndpointOverride(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{
		AWSRegion:           "us-east-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "test",
		AWSEndpointOverride: "http://localhost:4566",
	}

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	for _, service := range []string{s3.ServiceID, bedrockruntime.ServiceID} {
		ep, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint(service, "us-east-1")
		if err != nil {
			t.Fatalf("%s: resolve endpoint: %v", service, err)
		}
		if ep.URL != "http://localhost:4566" {
			t.Fatalf("%s: expected override, got %q", service, ep.URL)
		}
	}
	if _, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint("sqs", "us-east-1"); err == nil {
		t.Fatalf("expected other services to use default resolution")
	} else if _, ok := err.(*aws.EndpointNotFoundError); !ok {
		t.Fatalf("expected EndpointNotFoundError, got %T", err)
	}

	if client := NewS3Client(awsCfg, cfg); client == nil {
		t.Fatalf("expected s3 client")
	}
}

func TestNewLLMClientGeminiRequiresKey(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{LLMProvider: "gemini"}

	if _, _, err := NewLLMClient(context.Background(), cfg, logger); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
}

func TestNewLLMClientBedrockWithoutFallback(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	logger := logging.New("error")
	cfg := &appconfig.Config{
		LLMProvider:        "bedrock",
		BedrockModelID:     "anthropic.test",
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
	}

	client, closeFn, err := NewLLMClient(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("setup llm: %v", err)
	}
	defer closeFn()
	if _, ok := client.(*agents.BedrockLLMClient); !ok {
		t.Fatalf("expected bedrock client, got %T", client)
	}
}
