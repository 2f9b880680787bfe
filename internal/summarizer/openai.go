// Package summarizer sends sensor history to an OpenAI-compatible chat
// completion API and decodes the returned report.
package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-report-agent/internal/metrics"
	"github.com/i474232898/weather-report-agent/internal/report"
)

var (
	errNoAPIKey    = errors.New("openai api key is not configured")
	errNoChoices   = errors.New("model returned no choices")
	errInvalidJSON = errors.New("model output is not a JSON object")
)

// Config describes how to reach the chat completion API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that open the
	// circuit breaker. Zero disables it.
	BreakerFailures int
}

// OpenAI implements report.Summarizer against the chat completion API.
type OpenAI struct {
	client  *openai.Client
	model   string
	apiKey  string
	circuit *gobreaker.CircuitBreaker
}

var _ report.Summarizer = (*OpenAI)(nil)

// NewOpenAI builds a summarizer from cfg.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		circuit: newBreaker(cfg.BreakerFailures),
	}
}

// Summarize sends one chat completion request and parses the reply as a Report.
func (s *OpenAI) Summarize(ctx context.Context, history string) (report.Report, error) {
	rep, err := s.summarize(ctx, history)
	if err != nil {
		metrics.SummarizerRequests.WithLabelValues("error").Inc()
		return report.Report{}, err
	}
	metrics.SummarizerRequests.WithLabelValues("ok").Inc()
	return rep, nil
}

func (s *OpenAI) summarize(ctx context.Context, history string) (report.Report, error) {
	if s.apiKey == "" {
		return report.Report{}, errNoAPIKey
	}

	content, err := execute(s.circuit, func() (string, error) {
		return s.complete(ctx, buildPrompt(history))
	})
	if err != nil {
		return report.Report{}, err
	}

	return decodeReport(content)
}

func (s *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeReport parses the raw model output. Anything other than a single
// JSON object is rejected.
func decodeReport(content string) (report.Report, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return report.Report{}, fmt.Errorf("%w: %.80q", errInvalidJSON, trimmed)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(trimmed), &rep); err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return rep, nil
}
