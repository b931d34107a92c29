package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// Service generates text completions using the configured AI provider.
// It implements interfaces.ReasoningService and is safe for concurrent
// use; outbound calls pass a shared rate limiter.
type Service struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger
	limiter      *rate.Limiter
	retry        *RetryConfig
	geminiClient *genai.Client
	claudeClient anthropic.Client
	claudeReady  bool
}

// NewService creates a reasoning service for the configured default
// provider. Clients are created lazily on first use.
func NewService(cfg *common.Config, logger arbor.ILogger) *Service {
	provider := ProviderType(cfg.LLM.DefaultProvider)

	rateLimit := cfg.Gemini.RateLimit
	if provider == ProviderClaude {
		rateLimit = cfg.Claude.RateLimit
	}
	interval, err := time.ParseDuration(rateLimit)
	if err != nil || interval <= 0 {
		interval = time.Second
	}

	return &Service{
		geminiConfig: &cfg.Gemini,
		claudeConfig: &cfg.Claude,
		llmConfig:    &cfg.LLM,
		logger:       logger,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		retry:        NewDefaultRetryConfig(),
	}
}

// Provider returns the active provider type.
func (s *Service) Provider() ProviderType {
	provider := ProviderType(s.llmConfig.DefaultProvider)
	if provider != ProviderClaude && provider != ProviderGemini {
		provider = ProviderGemini
	}
	return provider
}

// Complete submits a prompt and returns the raw response text. The
// deadline carried by ctx bounds the whole attempt, including the rate
// limiter wait and retries.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	provider := s.Provider()

	s.logger.Debug().
		Str("provider", string(provider)).
		Int("prompt_length", len(prompt)).
		Msg("Submitting prompt to reasoning provider")

	switch provider {
	case ProviderClaude:
		return s.completeWithClaude(ctx, prompt)
	default:
		return s.completeWithGemini(ctx, prompt)
	}
}

// HealthCheck verifies the active provider is configured with an API key.
func (s *Service) HealthCheck(ctx context.Context) error {
	switch s.Provider() {
	case ProviderClaude:
		if s.claudeConfig.APIKey == "" {
			return fmt.Errorf("Anthropic API key is not configured (set ANTHROPIC_API_KEY or claude.api_key)")
		}
	default:
		if s.geminiConfig.APIKey == "" {
			return fmt.Errorf("Gemini API key is not configured (set GEMINI_API_KEY or gemini.api_key)")
		}
	}
	return nil
}

// Close releases provider clients.
func (s *Service) Close() error {
	s.geminiClient = nil
	s.claudeClient = anthropic.Client{}
	s.claudeReady = false
	return nil
}

// getClaudeClient returns a Claude client, creating one if necessary
func (s *Service) getClaudeClient() (anthropic.Client, error) {
	if s.claudeReady {
		return s.claudeClient, nil
	}

	if s.claudeConfig.APIKey == "" {
		return anthropic.Client{}, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	s.claudeClient = anthropic.NewClient(
		option.WithAPIKey(s.claudeConfig.APIKey),
	)
	s.claudeReady = true
	return s.claudeClient, nil
}

// getGeminiClient returns a Gemini client, creating one if necessary
func (s *Service) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	if s.geminiClient != nil {
		return s.geminiClient, nil
	}

	if s.geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s.geminiClient = client
	return client, nil
}

// completeWithClaude generates a completion using the Claude API
func (s *Service) completeWithClaude(ctx context.Context, prompt string) (string, error) {
	client, err := s.getClaudeClient()
	if err != nil {
		return "", err
	}

	maxTokens := s.claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.claudeConfig.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if s.claudeConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.claudeConfig.Temperature))
	}

	var resp *anthropic.Message
	var apiErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		resp, apiErr = client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}
		if attempt == s.retry.MaxRetries {
			break
		}

		backoff := s.retry.CalculateBackoff(attempt, 0)
		if IsRateLimitError(apiErr) {
			backoff = s.retry.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		}

		s.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Claude API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("Claude API call failed after %d retries: %w", s.retry.MaxRetries, apiErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Claude API")
	}

	return text.String(), nil
}

// completeWithGemini generates a completion using the Gemini API
func (s *Service) completeWithGemini(ctx context.Context, prompt string) (string, error) {
	client, err := s.getGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.geminiConfig.Temperature),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	var apiErr error
	for attempt := 0; attempt <= s.retry.MaxRetries; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, s.geminiConfig.Model, contents, config)
		if apiErr == nil {
			break
		}
		if attempt == s.retry.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = s.retry.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = s.retry.CalculateBackoff(attempt, 0)
		}

		s.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("Gemini API call failed after %d retries: %w", s.retry.MaxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return responseText, nil
}

// Interface guard
var _ interfaces.ReasoningService = (*Service)(nil)
