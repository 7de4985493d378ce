package ai

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

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Failure classes for a generate call. Callers branch on these with
// errors.Is; everything the transport or the API can do wrong collapses
// into exactly one of them.
var (
	// ErrMissingCredential means the client was built without an API key.
	// This is a configuration problem, not a runtime one.
	ErrMissingCredential = errors.New("gemini: missing API key")

	// ErrServiceUnavailable covers transport failures and 5xx responses.
	ErrServiceUnavailable = errors.New("gemini: service unavailable")

	// ErrServiceUnauthenticated covers 401 and 403 responses.
	ErrServiceUnauthenticated = errors.New("gemini: unauthenticated")

	// ErrServiceQuotaExceeded covers 429 responses.
	ErrServiceQuotaExceeded = errors.New("gemini: quota exceeded")

	// ErrServiceTimeout means the call exceeded its deadline.
	ErrServiceTimeout = errors.New("gemini: request timed out")

	// ErrEmptyCompletion means the API answered 200 with no usable text.
	ErrEmptyCompletion = errors.New("gemini: empty completion")
)

// GeminiClient is a minimal client for the Gemini generateContent API
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewGeminiClient creates a Gemini client using values from the provided
// config. Pass a nil config to fall back to environment variables. Returns
// ErrMissingCredential when no API key can be resolved.
func NewGeminiClient(cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GEMINI_API_URL")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
	}

	model := "gemini-1.5-flash"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	timeout := 20 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// generateRequest is the shape for generateContent requests
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is a minimal response shape
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt to Gemini and returns the raw model text.
// One attempt, no retry: the caller decides whether a failure is worth
// retrying or should go down the fallback path instead.
func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.generate(ctx, prompt)

	fields := []zap.Field{
		zap.String("model", g.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		g.logger.Warn("gemini call failed", append(fields, zap.Error(err))...)
	} else {
		g.logger.Info("gemini call completed", append(fields, zap.Int("response_chars", len(text)))...)
	}
	return text, err
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %v", ErrServiceTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		// Drain a little so the connection can be reused.
		io.CopyN(io.Discard, resp.Body, 4096)
		return "", err
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyCompletion, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func classifyStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrServiceUnauthenticated, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrServiceQuotaExceeded, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, code)
	default:
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, code)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
