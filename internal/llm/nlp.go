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

// NLPClient wraps the NLP sidecar service: answer humanization and tag
// extraction. Non-2xx responses are hard failures for the current operation.
type NLPClient struct {
	host   string
	client *http.Client
}

func NewNLPClient(host string, timeout time.Duration) *NLPClient {
	if timeout == 0 {
		timeout = 600 * time.Second
	}
	return &NLPClient{
		host:   host,
		client: &http.Client{Timeout: timeout},
	}
}

// Humanize rewrites a model-generated answer so it reads like a human wrote it.
func (n *NLPClient) Humanize(ctx context.Context, answer string) (string, error) {
	var out struct {
		HumanizedResponse string `json:"humanized_response"`
	}
	err := n.post(ctx, "/humanize", map[string]interface{}{
		"llm_response": answer,
		"level":        4,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.HumanizedResponse, nil
}

// ExtractTags returns the tag string computed for a question.
func (n *NLPClient) ExtractTags(ctx context.Context, question string) (string, error) {
	var out struct {
		Tags string `json:"tags"`
	}
	err := n.post(ctx, "/tags", map[string]interface{}{
		"question": question,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Tags, nil
}

func (n *NLPClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.host+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: nlp service returned status %d for %s", apperror.ErrUpstream, resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding nlp response: %v", apperror.ErrUpstream, err)
	}
	return nil
}
