// SPDX-License-Identifier: MIT
//
// File: client.go
// Role: OpenAI-compatible chat-completions client implementing Interpreter and Advisor.

package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

// maxResponseBytes caps how much of a provider answer is read.
const maxResponseBytes = 1 << 20

// LLMClient implements Interpreter and Advisor over an OpenAI-compatible API.
type LLMClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewLLMClient returns a client for cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewLLMClient(cfg Config, httpClient *http.Client) *LLMClient {
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &LLMClient{cfg: cfg, httpClient: httpClient}
}

// Interpret asks the model for a JSON Interpretation of text.
//
// Errors: ErrEmptyInput, ErrUpstream (transport, status, provider error),
// ErrMalformedResponse (answer is not the schema).
func (c *LLMClient) Interpret(ctx context.Context, text string) (Interpretation, error) {
	if strings.TrimSpace(text) == "" {
		return Interpretation{}, ErrEmptyInput
	}
	content, err := c.chat(ctx, SystemPrompt, text, true)
	if err != nil {
		return Interpretation{}, err
	}

	return parseInterpretation(content)
}

// Recommend asks the model for short advisory text about m.
func (c *LLMClient) Recommend(ctx context.Context, m metrics.Snapshot) (string, error) {
	content, err := c.chat(ctx, "", recommendationPrompt(m), false)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: empty recommendation", ErrMalformedResponse)
	}
	return content, nil
}

func (c *LLMClient) chat(ctx context.Context, system, user string, jsonOnly bool) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	payload := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
	}
	if jsonOnly {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("interpret: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var cr chatResponse
	if err = json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("%w: provider: %s", ErrUpstream, cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return cr.Choices[0].Message.Content, nil
}

// parseInterpretation decodes the model's JSON answer, tolerating a
// surrounding markdown code fence.
func parseInterpretation(content string) (Interpretation, error) {
	content = stripFence(content)
	var out struct {
		Actions   []policy.Record `json:"actions"`
		Reasoning string          `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Interpretation{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if out.Actions == nil {
		out.Actions = []policy.Record{}
	}

	return Interpretation{Actions: out.Actions, Reasoning: out.Reasoning}, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
