package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/telemetry"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// GeminiClient wraps the Google Generative AI SDK for both text generation
// and embeddings, guarded by a circuit breaker and a client-side rate
// limiter. A nil *GeminiClient means the credential was never configured;
// callers degrade to fallback values instead of failing.
type GeminiClient struct {
	client      *genai.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics

	embeddingModel string
	generateModel  string
}

type RateLimits struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
	RPD int // Requests per day
}

// NewGeminiClient builds a Gemini client from config. Returns (nil, nil)
// when GOOGLE_API_KEY is unset: the service still starts, generative
// features degrade.
func NewGeminiClient(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (*GeminiClient, error) {
	if cfg.GoogleAPIKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GoogleAPIKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(cfg.GeminiTier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10)

	return &GeminiClient{
		client:         client,
		breaker:        breaker,
		rateLimiter:    rateLimiter,
		metrics:        metrics,
		embeddingModel: cfg.EmbeddingModel,
		generateModel:  cfg.GenerateModel,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// GenerateText issues a single generation call and returns the raw text of
// the first candidate.
func (gc *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_text")
	defer span.End()

	span.SetAttributes(
		attribute.Int("gemini.prompt_chars", len(prompt)),
		attribute.String("gemini.model", gc.generateModel),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.generateModel)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	resp := result.(*genai.GenerateContentResponse)
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text += string(textPart)
		}
	}

	if gc.metrics != nil {
		gc.metrics.RecordTokensUsed(int64(extractTokenUsage(resp)), gc.generateModel)
	}
	span.SetAttributes(attribute.Int("gemini.response_chars", len(text)))

	return text, nil
}

// Extract token usage from Gemini response
func extractTokenUsage(resp *genai.GenerateContentResponse) int {
	if resp.UsageMetadata != nil {
		return int(resp.UsageMetadata.TotalTokenCount)
	}

	// Fallback: estimate from response text, ~4 characters per token
	totalText := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					totalText += string(text)
				}
			}
		}
	}

	estimated := len(totalText) / 4
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc != nil && gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
