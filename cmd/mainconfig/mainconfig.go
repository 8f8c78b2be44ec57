package mainconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wolfman30/interview-coach/internal/agents"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so the API server and the
// console share the same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case s3.ServiceID, bedrockruntime.ServiceID:
					return aws.Endpoint{
						URL:               endpoint,
						PartitionID:       "aws",
						SigningRegion:     cfg.AWSRegion,
						HostnameImmutable: true,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// NewS3Client returns an S3 client; path-style addressing is forced when an
// endpoint override is set so LocalStack buckets resolve.
func NewS3Client(awsCfg aws.Config, cfg *appconfig.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointOverride != "" {
			o.UsePathStyle = true
		}
	})
}

// NewLLMClient builds the configured provider. With bedrock as the primary and a
// Gemini key present, Gemini becomes the fallback.
func NewLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (agents.LLMClient, func(), error) {
	noop := func() {}

	var gemini *agents.GeminiLLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := agents.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			if cfg.LLMProvider == "gemini" {
				return nil, noop, fmt.Errorf("gemini client: %w", err)
			}
			logger.Warn("gemini fallback disabled", "error", err)
		} else {
			gemini = client
		}
	}
	closeGemini := func() {
		if gemini != nil {
			_ = gemini.Close()
		}
	}

	if cfg.LLMProvider == "gemini" {
		if gemini == nil {
			return nil, noop, fmt.Errorf("gemini provider selected without GEMINI_API_KEY")
		}
		logger.Info("llm configured", "primary", "gemini", "model", cfg.GeminiModelID)
		return gemini, closeGemini, nil
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		closeGemini()
		return nil, noop, fmt.Errorf("aws config: %w", err)
	}
	bedrock := agents.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
	if gemini == nil {
		logger.Info("llm configured", "primary", "bedrock", "model", cfg.BedrockModelID)
		return bedrock, noop, nil
	}
	logger.Info("llm configured", "primary", "bedrock", "model", cfg.BedrockModelID, "fallback", "gemini")
	return agents.NewFallbackLLMClient(bedrock, gemini, logger), closeGemini, nil
}
