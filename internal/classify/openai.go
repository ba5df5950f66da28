package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"secondbrain/internal/model"
	"secondbrain/pkg/metrics"
)

const systemPrompt = `You are a GTD (Getting Things Done) expert. Classify the user's input.
Reply with a single JSON object:
{"type": "task|event|project|note|reference|question|chat|delete|unknown",
 "summary": "concise one-line summary",
 "confidence": 0.0-1.0,
 "reasoning": "why you chose this type",
 "due_date": "ISO date or null",
 "tags": ["optional", "tags"]}`

type OpenAIClient struct {
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
	httpClient     *http.Client
}

func NewOpenAIClient(baseURL, apiKey, chatModel, embeddingModel string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		baseURL:        baseURL,
		apiKey:         apiKey,
		model:          chatModel,
		embeddingModel: embeddingModel,
		httpClient: &http.Client{
			Timeout: 15 * time.Second, // bounded, the processor falls back on timeout
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify asks the chat model for a structured classification of text.
func (c *OpenAIClient) Classify(ctx context.Context, text string) (*model.Classification, error) {
	start := time.Now()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", body, &resp); err != nil {
		metrics.OracleCallLatency.WithLabelValues("classify", "error").Observe(float64(time.Since(start).Milliseconds()))
		return nil, err
	}
	metrics.OracleCallLatency.WithLabelValues("classify", "ok").Observe(float64(time.Since(start).Milliseconds()))

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("oracle returned no choices")
	}

	return ParseClassification(resp.Choices[0].Message.Content)
}

// Chat sends a single question under a caller-supplied system prompt and
// returns the raw reply text.
func (c *OpenAIClient) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	start := time.Now()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", body, &resp); err != nil {
		metrics.OracleCallLatency.WithLabelValues("chat", "error").Observe(float64(time.Since(start).Milliseconds()))
		return "", err
	}
	metrics.OracleCallLatency.WithLabelValues("chat", "ok").Observe(float64(time.Since(start).Milliseconds()))

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body := embeddingRequest{Model: c.embeddingModel, Input: text}

	var resp embeddingResponse
	if err := c.post(ctx, "/embeddings", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response is empty")
	}
	return resp.Data[0].Embedding, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("llm provider 5xx: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llm provider error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
