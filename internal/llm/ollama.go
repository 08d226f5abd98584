package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quizverse_backend/pkg/apperror"
)

// OllamaProvider implements Provider against an Ollama-compatible chat API.
// Inference can take minutes on self-hosted hardware, so the client timeout is
// deliberately long.
type OllamaProvider struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaProvider(host, model string, timeout time.Duration) *OllamaProvider {
	if timeout == 0 {
		timeout = 600 * time.Second
	}
	return &OllamaProvider{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// GenerateText implements Provider
func (o *OllamaProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperror.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: ollama returned status %d", apperror.ErrUpstream, resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding ollama response: %v", apperror.ErrUpstream, err)
	}

	return chatResp.Message.Content, nil
}

// Close implements Provider
func (o *OllamaProvider) Close() {
	o.client.CloseIdleConnections()
}
