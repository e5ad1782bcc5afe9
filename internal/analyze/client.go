package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Options configures the Azure OpenAI client.
type Options struct {
	Endpoint    string
	Deployment  string
	APIVersion  string
	APIKey      string
	Temperature float64
	Retries     int
	Timeout     time.Duration
}

// Client calls the Azure OpenAI chat completions API to analyze bug
// documents. Transient failures are retried with backoff up to the
// configured attempt count.
type Client struct {
	opts       Options
	log        *slog.Logger
	httpClient *http.Client
}

func NewClient(opts Options, log *slog.Logger) *Client {
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		opts: opts,
		log:  log,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze analyzes a single bug document. Empty or whitespace-only
// content short-circuits to a deterministic no-content result without
// touching the network.
func (c *Client) Analyze(ctx context.Context, bugID, content string) (Result, error) {
	if strings.TrimSpace(content) == "" {
		c.log.Warn("bug has no content", "bug_id", bugID)
		return noContentResult(bugID), nil
	}

	start := time.Now()
	var text string
	var err error
	for attempt := 0; attempt < c.opts.Retries; attempt++ {
		text, err = c.complete(ctx, bugID, content)
		if err == nil || !isRetryable(err) {
			break
		}
		c.log.Warn("retryable analysis error", "bug_id", bugID, "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return Result{}, &Error{Op: "request", Err: ctx.Err()}
		}
	}
	if err != nil {
		return Result{}, &Error{Op: "request", Err: err}
	}

	res, err := parseResult([]byte(extractJSON(text)))
	if err != nil {
		c.log.Error("malformed analysis response", "bug_id", bugID, "raw", truncate(text, 200))
		return Result{}, &Error{Op: "decode", Err: fmt.Errorf("invalid JSON response: %w", err)}
	}

	res.BugID = bugID
	c.log.Info("bug analysis completed", "bug_id", bugID, "urgent", res.Urgent,
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// complete performs one chat completion round trip and returns the
// raw assistant text.
func (c *Client) complete(ctx context.Context, bugID, content string) (string, error) {
	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(bugID, content)},
		},
		Temperature: c.opts.Temperature,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(c.opts.Endpoint, "/"),
		url.PathEscape(c.opts.Deployment),
		url.QueryEscape(c.opts.APIVersion))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.opts.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("openai error: %s: %s", apiResp.Error.Code, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
