package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIProducer calls the OpenAI chat completions API to generate
// plans and specs. Any failure, from transport errors to malformed
// model output, falls back to the deterministic producer so plan
// generation never hard-fails on the model.
type OpenAIProducer struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
	fallback    *FallbackProducer
}

// OpenAIOption configures an OpenAIProducer.
type OpenAIOption func(*OpenAIProducer)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) OpenAIOption {
	return func(p *OpenAIProducer) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) OpenAIOption {
	return func(p *OpenAIProducer) { p.httpClient = c }
}

// NewOpenAIProducer creates a producer backed by the given API key and
// model name (e.g. "gpt-4o-mini").
func NewOpenAIProducer(apiKey, model string, logger *slog.Logger, opts ...OpenAIOption) *OpenAIProducer {
	p := &OpenAIProducer{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		temperature: 0.2,
		maxTokens:   4096,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		logger:      logger,
		fallback:    NewFallbackProducer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan asks the model for a task breakdown and validates the
// result. Invalid or unreachable model output falls back to the
// deterministic plan.
func (p *OpenAIProducer) GeneratePlan(ctx context.Context, req *PlanRequest) (*Plan, error) {
	criteria := "N/A"
	if len(req.AcceptanceCriteria) > 0 {
		lines := make([]string, len(req.AcceptanceCriteria))
		for i, c := range req.AcceptanceCriteria {
			lines[i] = "- " + c
		}
		criteria = strings.Join(lines, "\n")
	}
	env := req.Environment
	if env == "" {
		env = "Not specified"
	}
	userPrompt := fmt.Sprintf(plannerUserTemplate, req.ProjectName, req.Goal, req.Description, criteria, env)

	raw, err := p.complete(ctx, plannerSystemPrompt, userPrompt)
	if err != nil {
		p.logger.Warn("plan generation failed, using fallback", "error", err)
		return p.fallback.GeneratePlan(ctx, req)
	}

	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		p.logger.Warn("plan response is not valid JSON, using fallback", "error", err)
		return p.fallback.GeneratePlan(ctx, req)
	}
	if err := plan.Validate(); err != nil {
		p.logger.Warn("plan response failed validation, using fallback", "error", err)
		return p.fallback.GeneratePlan(ctx, req)
	}
	return &plan, nil
}

// GenerateSpec asks the model for a task specification. Output missing
// the required top-level keys falls back to the skeleton spec.
func (p *OpenAIProducer) GenerateSpec(ctx context.Context, req *SpecRequest) (json.RawMessage, error) {
	userPrompt := fmt.Sprintf(specUserTemplate,
		req.TaskName, req.TaskDescription, req.ProjectContext,
		string(rawOrEmpty(req.Inputs)), string(rawOrEmpty(req.Outputs)), string(rawOrEmptyList(req.Tests)))

	raw, err := p.complete(ctx, specSystemPrompt, userPrompt)
	if err != nil {
		p.logger.Warn("spec generation failed, using fallback", "error", err)
		return p.fallback.GenerateSpec(ctx, req)
	}

	var spec map[string]json.RawMessage
	if err := json.Unmarshal(raw, &spec); err != nil {
		p.logger.Warn("spec response is not valid JSON, using fallback", "error", err)
		return p.fallback.GenerateSpec(ctx, req)
	}
	for _, key := range []string{"task_name", "objective", "inputs", "outputs", "test_cases"} {
		if _, ok := spec[key]; !ok {
			p.logger.Warn("spec response missing required key, using fallback", "key", key)
			return p.fallback.GenerateSpec(ctx, req)
		}
	}
	return raw, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProducer) complete(ctx context.Context, system, user string) (json.RawMessage, error) {
	body, err := json.Marshal(&chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat completion: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return json.RawMessage(stripCodeFences(parsed.Choices[0].Message.Content)), nil
}

// stripCodeFences removes a surrounding markdown code block, which
// models emit even when asked for bare JSON.
func stripCodeFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}
