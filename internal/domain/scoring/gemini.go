// Package scoring talks to the LLM that judges a (prompt, response) pair and
// classifies everything that can go wrong on the way.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 15 * time.Second
	maxScore       = 10
	// maxErrorBody caps how much of a failed reply ends up in an error.
	maxErrorBody = 512
)

// Scorer scores a (prompt, response) pair.
type Scorer interface {
	// Score returns the verdict or an *Error describing the failure.
	Score(ctx context.Context, prompt, response string) (model.ScoreResult, error)
}

// PromptGenerator produces the shared word of a multiplayer round.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context) string
}

// GeminiScorer calls the Gemini generateContent REST endpoint.
type GeminiScorer struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    logger.Logger
	fallbacks []string

	missingKeyOnce sync.Once
}

// NewGeminiScorer creates a scorer. Callers normally pass WithAPIKey.
func NewGeminiScorer(opts ...Option) *GeminiScorer {
	s := &GeminiScorer{
		model:     defaultModel,
		baseURL:   defaultBaseURL,
		client:    &http.Client{},
		timeout:   defaultTimeout,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		logger:    logger.Nop(),
		fallbacks: DefaultFallbackPrompts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the scorer has credentials.
func (s *GeminiScorer) Configured() bool { return s.apiKey != "" }

// Score asks the model for a verdict.
func (s *GeminiScorer) Score(ctx context.Context, prompt, response string) (model.ScoreResult, error) {
	const op = "scoring.Score"

	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(response) == "" {
		return model.ScoreResult{}, newError(ErrInvalidRequest, op, errors.New("prompt and response are required"))
	}
	if err := s.checkConfigured(ctx, op); err != nil {
		return model.ScoreResult{}, err
	}

	start := time.Now()
	text, err := s.generate(ctx, op, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: scoringInstruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: userTurn(prompt, response)}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   verdictSchema,
		},
	})
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := parseVerdict(op, text)
	if err != nil {
		return s.fail(ctx, err)
	}
	metrics.RecordScorerCall("ok")
	return res, nil
}

// GeneratePrompt asks the model for one evocative word. Any failure falls
// back to a random word from the fallback list, so the round can always start.
func (s *GeminiScorer) GeneratePrompt(ctx context.Context) string {
	const op = "scoring.GeneratePrompt"

	if err := s.checkConfigured(ctx, op); err != nil {
		return s.fallbackPrompt()
	}
	text, err := s.generate(ctx, op, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: creativeInstruction}}}},
	})
	if err != nil {
		s.logger.Warn(ctx, "creative prompt failed, using fallback", logger.Error(err))
		return s.fallbackPrompt()
	}
	word := firstWord(text)
	if word == "" {
		return s.fallbackPrompt()
	}
	return word
}

func (s *GeminiScorer) checkConfigured(ctx context.Context, op string) error {
	if s.Configured() {
		return nil
	}
	s.missingKeyOnce.Do(func() {
		s.logger.Error(ctx, "gemini api key is not configured, scoring disabled")
	})
	metrics.RecordScorerError(KindName(ErrConfiguration))
	return newError(ErrConfiguration, op, errors.New("missing api key"))
}

func (s *GeminiScorer) fail(ctx context.Context, err error) (model.ScoreResult, error) {
	kind := KindName(err)
	metrics.RecordScorerCall("error")
	metrics.RecordScorerError(kind)
	s.logger.Warn(ctx, "scorer call failed", logger.String("kind", kind), logger.Error(err))
	return model.ScoreResult{}, err
}

func (s *GeminiScorer) fallbackPrompt() string {
	return s.fallbacks[rand.IntN(len(s.fallbacks))] //nolint:gosec // cosmetic choice
}

// generate performs one generateContent call and returns the concatenated
// text of the first candidate.
func (s *GeminiScorer) generate(ctx context.Context, op string, body generateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", newError(ErrUpstream, op, fmt.Errorf("rate limit wait: %w", err))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", newError(ErrUpstream, op, err)
	}

	url := strings.TrimRight(s.baseURL, "/") + "/models/" + s.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", newError(ErrUpstream, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", newError(ErrUpstream, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(ErrUpstream, op, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", newError(ErrUpstream, op, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, maxErrorBody)))
	}

	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", newError(ErrUpstream, op, fmt.Errorf("decode envelope: %w", err))
	}
	if len(envelope.Candidates) == 0 {
		return "", newError(ErrUpstream, op, errors.New("no candidates in reply"))
	}
	var sb strings.Builder
	for _, p := range envelope.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// parseVerdict decodes the model's JSON verdict. Non-JSON text is an upstream
// failure; JSON without both fields, or a score outside [0,10], is a parse
// failure.
func parseVerdict(op, text string) (model.ScoreResult, error) {
	var v struct {
		Score   *float64 `json:"score"`
		Comment *string  `json:"comment"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return model.ScoreResult{}, newError(ErrUpstream, op, fmt.Errorf("reply is not JSON: %w", err))
	}
	if v.Score == nil || v.Comment == nil {
		return model.ScoreResult{}, newError(ErrParse, op, errors.New("reply lacks score or comment"))
	}
	if *v.Score < 0 || *v.Score > maxScore {
		return model.ScoreResult{}, newError(ErrParse, op, fmt.Errorf("score %v outside [0,%d]", *v.Score, maxScore))
	}
	return model.ScoreResult{Score: *v.Score, Comment: *v.Comment}, nil
}

// firstWord keeps the first token of text without quotes or dots, uppercased.
func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	w := strings.NewReplacer(`"`, "", ".", "").Replace(fields[0])
	return strings.ToUpper(w)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
