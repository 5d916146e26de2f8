// Package grading classifies clothing-donation photos with the Gemini API.
// Grading is advisory: the client absorbs every failure and reports the
// Unavailable grade instead of returning errors, so a submission can always
// proceed to recording.
package grading

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"greencycle/internal/domain"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second

	systemPrompt = "You are a clothing grader for a recycling charity. Analyze the image and classify it into one of two categories. Respond with ONLY the text 'Grade A' or 'Grade B/C'."
	userPrompt   = "Grade this clothing based on its condition. 'Grade A' means like-new, wearable, no stains, and no holes. 'Grade B/C' means visibly worn, stained, torn, or only good for recycling."
)

// Options controls how the grading client is configured.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds a single attempt when no HTTPClient is supplied.
	Timeout     time.Duration
	MaxAttempts int
	// BackoffBase is the wait before the first retry; each further retry
	// doubles it. Defaults to one second.
	BackoffBase time.Duration
	Sleep       func(time.Duration)
	Logger      zerolog.Logger
}

// Client calls the Gemini generateContent endpoint with a fixed grading
// rubric and maps the textual verdict onto a domain.Grade.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	client      *http.Client
	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)
	logger      zerolog.Logger
}

// NewClient builds a grading client, applying defaults for anything unset.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Client{
		apiKey:      opts.APIKey,
		model:       model,
		baseURL:     baseURL,
		client:      client,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		sleep:       sleep,
		logger:      opts.Logger,
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Grade classifies the image bytes. It never returns an error: transport
// failures are retried with exponential backoff up to the attempt budget and
// anything unrecoverable degrades to GradeUnavailable.
func (c *Client) Grade(ctx context.Context, imageData []byte, mimeType string) domain.Grade {
	if len(imageData) == 0 {
		return domain.GradeUnavailable
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: userPrompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.GradeUnavailable
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(c.backoffBase << (attempt - 1))
		}
		grade, retry := c.attempt(ctx, body)
		if !retry {
			return grade
		}
		c.logger.Warn().Int("attempt", attempt+1).Msg("grading: transport failure")
	}
	c.logger.Warn().Int("attempts", c.maxAttempts).Msg("grading: giving up, grade unavailable")
	return domain.GradeUnavailable
}

// attempt performs a single call. retry reports whether the failure was a
// transport-level one worth another attempt.
func (c *Client) attempt(ctx context.Context, body []byte) (grade domain.Grade, retry bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return domain.GradeUnavailable, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.GradeUnavailable, false
		}
		return domain.GradeUnavailable, true
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return domain.GradeUnavailable, true
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.GradeUnavailable, true
	}
	return parseGrade(extractText(out)), false
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func extractText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text
		}
	}
	return ""
}

// parseGrade maps the model's free text onto a grade. An answer that names
// neither category is uninterpretable, and retrying would not change it.
func parseGrade(text string) domain.Grade {
	switch {
	case strings.Contains(text, "Grade A"):
		return domain.GradeA
	case strings.Contains(text, "Grade B/C"):
		return domain.GradeBC
	default:
		return domain.GradeUnavailable
	}
}
