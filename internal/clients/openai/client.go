// Package openai is a minimal chat-completions client for OpenAI-compatible
// APIs. It carries exactly the two call shapes the backend needs: plain text
// and strict json_schema structured output, both with full turn history.
//
// Calls are not retried here. A tutoring turn has side effects (it appends
// to the transcript), so retries are the caller's decision.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schrodchat/schrodchat-backend/internal/logger"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn passed as model context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client interface {
	// GenerateText returns the model's plain-text reply to user, given the
	// system prompt and prior history.
	GenerateText(ctx context.Context, system string, history []Message, user string) (string, error)

	// GenerateJSON forces a strict json_schema response format and returns
	// the decoded object.
	GenerateJSON(ctx context.Context, system string, history []Message, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
	httpClient  *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeoutSec := 90
	if v := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	var tempPtr *float64
	if v := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			tempPtr = &f
		}
	}

	return &client{
		log:         log.With("service", "OpenAIClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: tempPtr,
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	Temperature    *float64       `json:"temperature,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *client) GenerateText(ctx context.Context, system string, history []Message, user string) (string, error) {
	req := c.buildRequest(system, history, user)
	return c.do(ctx, &req)
}

func (c *client) GenerateJSON(ctx context.Context, system string, history []Message, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, fmt.Errorf("schemaName required")
	}
	if schema == nil {
		return nil, fmt.Errorf("schema required")
	}
	req := c.buildRequest(system, history, user)
	req.ResponseFormat = map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   schemaName,
			"schema": schema,
			"strict": true,
		},
	}

	text, err := c.do(ctx, &req)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("parse model JSON: %w; text=%s", err, text)
	}
	return obj, nil
}

func (c *client) buildRequest(system string, history []Message, user string) chatRequest {
	messages := make([]Message, 0, len(history)+2)
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	messages = append(messages, history...)
	if user != "" {
		messages = append(messages, Message{Role: RoleUser, Content: user})
	}
	return chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	}
}

func (c *client) do(ctx context.Context, req *chatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	started := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("chat completion request failed", "model", req.Model, "error", err)
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		c.log.Warn("chat completion returned error status", "model", req.Model, "status", httpResp.StatusCode)
		return "", fmt.Errorf("openai status %d: %s", httpResp.StatusCode, msg)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	if refusal := resp.Choices[0].Message.Refusal; refusal != "" {
		return "", fmt.Errorf("model refused: %s", refusal)
	}

	c.log.Debug("chat completion ok", "model", req.Model, "elapsed", time.Since(started).String())
	return resp.Choices[0].Message.Content, nil
}
