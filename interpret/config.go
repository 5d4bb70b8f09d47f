package interpret

import (
	"strings"
	"time"
)

// Config holds the connection settings for an OpenAI-compatible provider.
// It is embedded in the citytwin YAML configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1" or
	// "http://localhost:11434/v1" for Ollama. Empty disables the client.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIKey is sent as a Bearer token when non-empty.
	APIKey string `yaml:"api_key" json:"-"`

	Model       string        `yaml:"model" json:"model"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a disabled provider with sane request settings.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		Temperature: 0,
		Timeout:     30 * time.Second,
	}
}

// Enabled reports whether c points at a provider.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.Model) != ""
}

// Wire payloads of the chat-completions API.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
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
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
