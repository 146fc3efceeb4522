package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/provider/schema"
)

const defaultSystemMessage = "You are a helpful AI assistant."

// Client wraps Groq's OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey      string
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a chat completion request
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a chat completion response
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new Groq client from LLM configuration
func NewClient(cfg config.LLMConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		endpoint:    cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// GenerateText generates a plain text response for the given prompt
func (c *Client) GenerateText(ctx context.Context, prompt, systemMessage string) (string, error) {
	if systemMessage == "" {
		systemMessage = defaultSystemMessage
	}
	messages := []Message{
		{Role: "system", Content: systemMessage},
		{Role: "user", Content: prompt},
	}
	return c.sendRequest(ctx, messages)
}

// GenerateStructured requests JSON matching the target schema and decodes the
// validated response into out. The schema is embedded into the prompt and the
// response is cleaned of code fences before parsing; a parse or validation
// failure is a hard fault carrying a truncated excerpt of the raw response.
func (c *Client) GenerateStructured(ctx context.Context, prompt, systemMessage string, target schema.Target, out interface{}) error {
	if systemMessage == "" {
		systemMessage = defaultSystemMessage
	}

	fullPrompt := fmt.Sprintf(`%s

You must respond with valid JSON that matches this schema:
%s

Important: Respond with ONLY valid JSON, no other text or markdown.

User request: %s`, systemMessage, target.Raw, prompt)

	messages := []Message{
		{Role: "user", Content: fullPrompt},
	}

	raw, err := c.sendRequest(ctx, messages)
	if err != nil {
		return err
	}

	cleaned := schema.StripCodeFences(raw)
	return schema.DecodeAndValidate(cleaned, target, out)
}

// sendRequest sends a chat completion request to the Groq API
func (c *Client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(b))
	}

	var groqResp response
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return groqResp.Choices[0].Message.Content, nil
}
