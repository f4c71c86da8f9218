package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// errNoProvider is what every completion returns when no provider could be
// configured. Turns still run on the local field heuristics.
var errNoProvider = errors.New("bootstrap: no completion provider configured")

// BuildCompletionClient wires the configured provider, wrapped with the
// fallback provider when one is set.
func BuildCompletionClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (llm.Client, []func() error) {
	if logger == nil {
		logger = logging.Default()
	}

	var closers []func() error
	primary, closePrimary, err := buildProvider(ctx, cfg.LLMProvider, cfg, awsCfg)
	if err != nil {
		logger.Warn("completion provider unavailable; replies will degrade", "provider", cfg.LLMProvider, "error", err)
		primary = llm.ClientFunc(func(context.Context, llm.Request) (llm.Response, error) {
			return llm.Response{}, errNoProvider
		})
	} else if closePrimary != nil {
		closers = append(closers, closePrimary)
	}

	name := strings.TrimSpace(cfg.LLMFallbackProvider)
	if name == "" || name == cfg.LLMProvider {
		logger.Info("completion client ready", "provider", cfg.LLMProvider)
		return primary, closers
	}

	fallback, closeFallback, err := buildProvider(ctx, name, cfg, awsCfg)
	if err != nil {
		logger.Warn("fallback provider unavailable", "provider", name, "error", err)
		return primary, closers
	}
	if closeFallback != nil {
		closers = append(closers, closeFallback)
	}
	logger.Info("completion client ready", "provider", cfg.LLMProvider, "fallback", name)
	return llm.NewFallbackClient(primary, fallback, logger), closers
}

func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, awsCfg aws.Config) (llm.Client, func() error, error) {
	switch name {
	case "", "openai":
		client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	case "bedrock":
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for bedrock")
		}
		return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), nil, nil
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown completion provider %q", name)
	}
}
