package classify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultModel = "gpt-4.1-mini"
	systemPrompt       = "You are an expert audiobook producer who analyzes " +
		"manuscripts for narration planning. Answer only with the requested JSON."
)

// OpenAIConfig holds configuration for the AI-assisted classifier.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string // override for testing
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// OpenAI implements Classifier against the OpenAI chat completions API.
type OpenAI struct {
	client     openai.Client
	model      string
	maxRetries uint
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewOpenAI creates the AI-assisted classifier.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0), // retry-go owns the retry policy
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		maxRetries: uint(cfg.MaxRetries),
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

func (c *OpenAI) Name() string { return "openai" }

// AnalyzeBook asks the model for genre/tone/audience/pacing over the
// bounded sample and validates the structured answer.
func (c *OpenAI) AnalyzeBook(ctx context.Context, sample string) (*BookAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this book excerpt sampled from several locations in the manuscript.

Excerpt:
%s

Respond with a single JSON object:
{"genre": "...", "tone": "...", "audience": "...", "pacing": "slow|moderate|fast", "style": "first-person|third-person", "accent": "...", "narrator_gender": "male|female|either"}`, sample)

	raw, err := c.complete(ctx, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var analysis BookAnalysis
	if err := validateAndDecode(bookAnalysisValidator, raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// LocateEpilogue asks the closed yes/no/location question over the tail
// pages and validates the structured answer.
func (c *OpenAI) LocateEpilogue(ctx context.Context, tail string, tailPages int) (*EpilogueAnswer, error) {
	if len(tail) > 8000 {
		tail = tail[:8000]
	}
	prompt := fmt.Sprintf(`The following text is the last %d pages of a book, with pages separated by form feed characters.

Does it contain an epilogue section? If yes, give the 0-indexed offset of the page where it starts, counted from the first submitted page.

Text:
%s

Respond with a single JSON object:
{"has_epilogue": true|false, "start_page_offset": <int>, "confidence": <0-100>}`, tailPages, tail)

	raw, err := c.complete(ctx, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	var answer EpilogueAnswer
	if err := validateAndDecode(epilogueAnswerValidator, raw, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// complete sends a chat completion with bounded retries and extracts the
// JSON object from the response.
func (c *OpenAI) complete(ctx context.Context, prompt string, temperature float64) ([]byte, error) {
	var content string
	err := retry.Do(
		func() error {
			resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(c.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(systemPrompt),
					openai.UserMessage(prompt),
				},
				Temperature: openai.Float(temperature),
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("empty completion response")
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Attempts(c.maxRetries+1),
		retry.Delay(c.retryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("classifier request failed, retrying",
				"attempt", n+1,
				"error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	return extractJSON(content)
}
