package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/example/taskboard/domain/chat"
)

// ErrAssistantDisabled is returned when no API key is configured.
var ErrAssistantDisabled = errors.New("assistant is not configured")

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-4o-mini"

	systemPrompt = "You are a helpful productivity assistant for a task " +
		"management application. Help the user plan, prioritize and break " +
		"down their work. Keep answers short and practical."
)

// OpenAIAssistant calls an OpenAI-compatible chat completions endpoint.
type OpenAIAssistant struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

var _ chat.Assistant = (*OpenAIAssistant)(nil)

// NewOpenAIAssistantFromEnv builds an assistant from AI_API_KEY,
// AI_API_URL and AI_MODEL. Without an API key every Reply returns
// ErrAssistantDisabled.
func NewOpenAIAssistantFromEnv() *OpenAIAssistant {
	apiURL := os.Getenv("AI_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &OpenAIAssistant{
		apiKey: os.Getenv("AI_API_KEY"),
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Reply sends the conversation history to the model and returns its
// answer.
func (a *OpenAIAssistant) Reply(ctx context.Context, history []chat.Message) (string, error) {
	if a.apiKey == "" {
		return "", ErrAssistantDisabled
	}

	messages := make([]chatCompletionMessage, 0, len(history)+1)
	messages = append(messages, chatCompletionMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, chatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(chatCompletionRequest{Model: a.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call assistant API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read assistant response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("assistant API error (%d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("assistant API error: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("assistant returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
