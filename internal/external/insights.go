package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slopescout/internal/types"
)

// ResortIdentity is the minimal resort description an insight prompt needs.
type ResortIdentity struct {
	Name   string
	State  string
	Region types.Region
}

// InsightsGenerator produces a short natural-language blurb about skiing a
// resort on a given set of dates. The note carries optional free-text context
// from the caller, for example recent local reports. Implementations are
// injected so handlers never depend on a concrete provider.
type InsightsGenerator interface {
	ResortInsight(ctx context.Context, resort ResortIdentity, dates []string, conditions []types.Ridability, note string) (string, error)
}

// InsightsClientConfig holds construction parameters for InsightsHTTPClient.
type InsightsClientConfig struct {
	Endpoint string
	Model    string
	APIKey   types.SecretString
	Logger   *slog.Logger
}

// completionRequest is the chat-completion envelope for OpenAI-compatible
// inference endpoints.
type completionRequest struct {
	Model     string              `json:"model"`
	Messages  []completionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// InsightsHTTPClient implements InsightsGenerator against an
// OpenAI-compatible chat-completion endpoint, routed through BaseClient for
// circuit breaking and retries.
type InsightsHTTPClient struct {
	base     *BaseClient
	endpoint string
	model    string
	apiKey   types.SecretString
	logger   *slog.Logger
}

// NewInsightsClient creates an InsightsHTTPClient. The httpClient timeout
// should allow for model latency (30 seconds is a reasonable floor).
func NewInsightsClient(httpClient *http.Client, cfg InsightsClientConfig) *InsightsHTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := NewBaseClient(
		httpClient,
		"insights",
		RetryPolicy{
			MaxRetries: 1,
			MinWait:    1 * time.Second,
			MaxWait:    10 * time.Second,
		},
		"SlopeScout/1.0",
	)

	return &InsightsHTTPClient{
		base:     base,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		logger:   logger,
	}
}

// ResortInsight asks the model for a two-sentence local's take on the resort
// for the given dates.
func (c *InsightsHTTPClient) ResortInsight(ctx context.Context, resort ResortIdentity, dates []string, conditions []types.Ridability, note string) (string, error) {
	prompt := buildInsightPrompt(resort, dates, conditions, note)

	reqBody := completionRequest{
		Model: c.model,
		Messages: []completionMessage{
			{
				Role: "system",
				Content: "You are a concise ski-conditions analyst. Answer in at most " +
					"two sentences, no preamble, no markdown.",
			},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 160,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected,
			"serializing insight request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected,
			"creating insight request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Unmask())

	c.logger.InfoContext(ctx, "requesting resort insight",
		"resort", resort.Name,
		"model", c.model,
		"days", len(dates),
	)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamInsights,
			"insight provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", types.NewAppError(types.ErrCodeUpstreamInsights,
			fmt.Sprintf("insight provider returned %d", resp.StatusCode), nil)
	}

	var compResp completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&compResp); err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamInsights,
			"decoding insight response", err)
	}
	if len(compResp.Choices) == 0 || compResp.Choices[0].Message.Content == "" {
		return "", types.NewAppError(types.ErrCodeUpstreamInsights,
			"insight provider returned no content", nil)
	}

	return strings.TrimSpace(compResp.Choices[0].Message.Content), nil
}

func buildInsightPrompt(resort ResortIdentity, dates []string, conditions []types.Ridability, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resort: %s, %s (%s coast).\n", resort.Name, resort.State, resort.Region)
	if len(dates) > 0 {
		fmt.Fprintf(&b, "Trip dates: %s to %s.\n", dates[0], dates[len(dates)-1])
	}
	b.WriteString("Daily ridability scores:\n")
	for i, cond := range conditions {
		date := ""
		if i < len(dates) {
			date = dates[i]
		}
		fmt.Fprintf(&b, "- %s: %d/100 (%s)", date, cond.Score, cond.Label)
		if len(cond.Reasons) > 0 {
			fmt.Fprintf(&b, " because %s", strings.Join(cond.Reasons, "; "))
		}
		b.WriteString("\n")
	}
	if note != "" {
		fmt.Fprintf(&b, "Visitor context: %s\n", note)
	}
	b.WriteString("Summarize what a skier should expect and when to ride.")
	return b.String()
}
