package scoring

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// Option applies a configuration option to the GeminiScorer.
type Option func(*GeminiScorer)

// WithAPIKey sets the Gemini API key. Without a key every call fails with
// ErrConfiguration.
func WithAPIKey(key string) Option {
	return func(s *GeminiScorer) {
		s.apiKey = key
	}
}

// WithModel sets the Gemini model name.
func WithModel(model string) Option {
	return func(s *GeminiScorer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL sets the API root, e.g. https://generativelanguage.googleapis.com/v1beta.
func WithBaseURL(url string) Option {
	return func(s *GeminiScorer) {
		if url != "" {
			s.baseURL = url
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *GeminiScorer) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each scorer call. A timeout is reported as ErrUpstream.
func WithTimeout(d time.Duration) Option {
	return func(s *GeminiScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *GeminiScorer) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *GeminiScorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFallbackPrompts replaces the words used when prompt generation fails.
func WithFallbackPrompts(words []string) Option {
	return func(s *GeminiScorer) {
		if len(words) > 0 {
			s.fallbacks = append([]string(nil), words...)
		}
	}
}
