// Package ai talks to a Gemini-style generative endpoint for ticket triage
// and conversation. Every method degrades cleanly: callers are expected to
// check Available and fall back to the deterministic triage rules when the
// provider is unreachable.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/triage"
)

// ErrUnavailable is returned by every generation method when no provider is
// configured.
var ErrUnavailable = errors.New("ai: provider not configured")

// Suggestion is the provider's triage verdict for a new ticket.
type Suggestion struct {
	Category           string
	CategoryConfidence float64
	Priority           domain.TicketPriority
	SentimentScore     float64
}

// Escalation is the provider's handoff verdict when the conversation budget
// is spent.
type Escalation struct {
	Message    string
	Department string
}

// Client is the provider surface the services depend on.
type Client interface {
	Available() bool
	SuggestFields(ctx context.Context, title, description string) (*Suggestion, error)
	GenerateInitialResponse(ctx context.Context, t *domain.Ticket, category string) (string, error)
	GenerateConversationReply(ctx context.Context, t *domain.Ticket, comments []domain.TicketComment, authors map[string]string) (string, error)
	GenerateEscalation(ctx context.Context, t *domain.Ticket, comments []domain.TicketComment, authors map[string]string) (*Escalation, error)
	DetectResolution(ctx context.Context, message string) (bool, error)
}

// GeminiClient calls the generateContent REST endpoint directly over HTTP.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewGeminiClient(cfg config.AIConfig, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryBaseDelay,
		logger:     logger,
	}
}

func (c *GeminiClient) Available() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) SuggestFields(ctx context.Context, title, description string) (*Suggestion, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(suggestFieldsPrompt, title, description))
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Category           string  `json:"category"`
		CategoryConfidence float64 `json:"category_confidence"`
		Priority           string  `json:"priority"`
		SentimentScore     float64 `json:"sentiment_score"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("ai: decode suggestion: %w", err)
	}
	s := &Suggestion{
		Category:           parsed.Category,
		CategoryConfidence: clamp(parsed.CategoryConfidence, 0, 1),
		SentimentScore:     clamp(parsed.SentimentScore, -1, 1),
	}
	if s.Category == "" {
		s.Category = triage.DefaultCategory
	}
	p := domain.TicketPriority(strings.ToLower(parsed.Priority))
	if !domain.ValidPriority(p) {
		p = domain.TicketPriorityMedium
	}
	s.Priority = p
	return s, nil
}

func (c *GeminiClient) GenerateInitialResponse(ctx context.Context, t *domain.Ticket, category string) (string, error) {
	if category == "" {
		category = triage.DefaultCategory
	}
	return c.generate(ctx, fmt.Sprintf(initialResponsePrompt,
		t.Code, t.Title, t.Description, category, t.Priority))
}

func (c *GeminiClient) GenerateConversationReply(ctx context.Context, t *domain.Ticket, comments []domain.TicketComment, authors map[string]string) (string, error) {
	return c.generate(ctx, fmt.Sprintf(conversationReplyPrompt,
		t.Code, t.Title, t.Description, renderTranscript(comments, authors)))
}

func (c *GeminiClient) GenerateEscalation(ctx context.Context, t *domain.Ticket, comments []domain.TicketComment, authors map[string]string) (*Escalation, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(escalationPrompt,
		strings.Join(triage.EscalationDepartments, ", "),
		t.Code, t.Title, t.Description, renderTranscript(comments, authors)))
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Message    string `json:"message"`
		Department string `json:"department"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("ai: decode escalation: %w", err)
	}
	if parsed.Message == "" {
		parsed.Message = FallbackEscalationMessage(t)
	}
	if !knownDepartment(parsed.Department) {
		parsed.Department = triage.DefaultEscalationDepartment
	}
	return &Escalation{Message: parsed.Message, Department: parsed.Department}, nil
}

func (c *GeminiClient) DetectResolution(ctx context.Context, message string) (bool, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(resolutionDetectPrompt, message))
	if err != nil {
		return false, err
	}
	answer := strings.ToUpper(strings.TrimSpace(raw))
	return strings.HasPrefix(answer, "YES"), nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// generate performs one generateContent call with bounded retries on rate
// limiting. Delay doubles per attempt starting from the configured base.
func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config:   genConfig{Temperature: 0.2, MaxOutputTokens: 1024},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			c.logger.Warn("ai provider rate limited, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, retryable, err := c.doRequest(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("ai: retries exhausted: %w", lastErr)
}

func (c *GeminiClient) doRequest(ctx context.Context, url string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false, fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("ai: rate limited (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("ai: unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false, fmt.Errorf("ai: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", false, fmt.Errorf("ai: provider error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", false, errors.New("ai: empty completion")
	}
	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), false, nil
}

// extractJSON tolerates models that wrap their JSON answer in markdown code
// fences or surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func knownDepartment(name string) bool {
	for _, d := range triage.EscalationDepartments {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
