package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Цены gpt-4o-mini за 1М токенов в USD; используются для оценочной метрики.
const (
	pricePerMillionInputTokensUSD  = 0.15
	pricePerMillionOutputTokensUSD = 0.60
)

// ErrAIGenerationFailed - ошибка при генерации текста AI
var ErrAIGenerationFailed = errors.New("AI text generation failed")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefing_server_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "briefing_server_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "briefing_server_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "briefing_server_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
	aiEstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefing_server_ai_estimated_cost_usd_total",
			Help: "Estimated total cost of AI requests in USD.",
		},
		[]string{"model"},
	)
)

// TextGenerator интерфейс для получения одного завершения от модели.
type TextGenerator interface {
	// GenerateText выполняет один запрос к модели: системный промпт плюс
	// пользовательский ввод. Повторов нет: сбой шага прерывает весь запуск.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config содержит конфигурацию для клиента нейросети.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Client реализует TextGenerator поверх OpenAI-совместимого API.
type Client struct {
	client      *openaigo.Client
	model       string
	timeout     time.Duration
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// New создает новый экземпляр клиента нейросети.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("AI API key is not set")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}

	openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:      openaigo.NewClientWithConfig(openaiConfig),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		logger:      logger.Named("AIClient"),
	}, nil
}

// GenerateText генерирует текст на основе системного промпта и ввода пользователя.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: system prompt is empty", ErrAIGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userPrompt,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	c.logger.Debug("Sending request to AI API",
		zap.String("model", c.model),
		zap.Int("systemPromptBytes", len(systemPrompt)),
		zap.Int("userPromptBytes", len(userPrompt)))

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("AI API request failed", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("AI API returned an empty response", zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	c.logger.Info("AI API response received",
		zap.Duration("duration", duration),
		zap.Int("responseChars", len(generatedText)))

	if resp.Usage.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(resp.Usage.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(resp.Usage.CompletionTokens))

		cost := calculateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		if cost > 0 {
			aiEstimatedCostUSD.With(prometheus.Labels{"model": c.model}).Add(cost)
		}
		c.logger.Debug("AI usage",
			zap.Int("promptTokens", resp.Usage.PromptTokens),
			zap.Int("completionTokens", resp.Usage.CompletionTokens),
			zap.Float64("estimatedCostUSD", cost))
	}

	return generatedText, nil
}

// calculateCost рассчитывает оценочную стоимость запроса на основе токенов.
func calculateCost(promptTokens, completionTokens int) float64 {
	inputCost := float64(promptTokens) * pricePerMillionInputTokensUSD / 1_000_000.0
	outputCost := float64(completionTokens) * pricePerMillionOutputTokensUSD / 1_000_000.0
	return inputCost + outputCost
}
