package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"briefing-server/internal/ai"
	"briefing-server/internal/domain"
	"briefing-server/internal/prompts"
	"briefing-server/internal/search"
)

var (
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "briefing_server_stage_duration_seconds",
			Help:    "Histogram of pipeline stage durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	stagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefing_server_stages_total",
			Help: "Total number of executed pipeline stages.",
		},
		[]string{"stage", "status"},
	)
)

// StageError описывает сбой конкретного шага и сохраняет исходную причину.
type StageError struct {
	Stage domain.StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ProgressEvent — событие хода выполнения, отправляемое в браузер сессии.
type ProgressEvent struct {
	SessionID string           `json:"-"`
	RunID     uuid.UUID        `json:"runId"`
	Stage     domain.StageName `json:"stage"`
	Status    string           `json:"status"` // running | completed | failed
}

// Notifier получает события хода выполнения. Доставка best-effort: ошибка
// уведомления не влияет на запуск.
type Notifier interface {
	Notify(event ProgressEvent)
}

// Runner выполняет четыре шага строго по порядку. Частичного восстановления
// нет: сбой любого шага прерывает запуск целиком, последующие шаги не
// выполняются.
type Runner struct {
	generator   ai.TextGenerator
	searcher    search.Provider
	prompts     *prompts.Set
	notifier    Notifier
	logger      *zap.Logger
	model       string
	tokenBudget int
	now         func() time.Time
}

// Config содержит зависимости и параметры конвейера.
type Config struct {
	Generator   ai.TextGenerator
	Searcher    search.Provider
	Prompts     *prompts.Set
	Notifier    Notifier // может быть nil
	Model       string
	TokenBudget int
	Now         func() time.Time // nil → time.Now
}

// New создает Runner.
func New(cfg Config, logger *zap.Logger) *Runner {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		generator:   cfg.Generator,
		searcher:    cfg.Searcher,
		prompts:     cfg.Prompts,
		notifier:    cfg.Notifier,
		logger:      logger.Named("Pipeline"),
		model:       cfg.Model,
		tokenBudget: cfg.TokenBudget,
		now:         now,
	}
}

// Run выполняет подготовку брифинга для уже валидированного запроса.
// Выход каждого шага добавляется в транскрипт и передаётся следующим шагам.
func (r *Runner) Run(ctx context.Context, sessionID string, runID uuid.UUID, req domain.MeetingRequest) (domain.BriefingDocument, error) {
	outputs := make([]domain.StageOutput, 0, len(domain.StageOrder))
	prior := make(map[string]string, len(domain.StageOrder))

	for _, stage := range domain.StageOrder {
		r.notify(ProgressEvent{SessionID: sessionID, RunID: runID, Stage: stage, Status: "running"})

		startTime := r.now()
		text, err := r.runStage(ctx, stage, req, prior)
		stageDuration.With(prometheus.Labels{"stage": string(stage)}).Observe(time.Since(startTime).Seconds())

		if err != nil {
			stagesTotal.With(prometheus.Labels{"stage": string(stage), "status": "error"}).Inc()
			r.notify(ProgressEvent{SessionID: sessionID, RunID: runID, Stage: stage, Status: "failed"})
			r.logger.Error("Pipeline stage failed",
				zap.String("stage", string(stage)),
				zap.String("runId", runID.String()),
				zap.Error(err))
			return domain.BriefingDocument{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, &StageError{Stage: stage, Err: err})
		}

		stagesTotal.With(prometheus.Labels{"stage": string(stage), "status": "success"}).Inc()
		outputs = append(outputs, domain.StageOutput{Stage: stage, Text: text, GeneratedAt: r.now()})
		prior[string(stage)] = text
		r.notify(ProgressEvent{SessionID: sessionID, RunID: runID, Stage: stage, Status: "completed"})

		r.logger.Info("Pipeline stage completed",
			zap.String("stage", string(stage)),
			zap.String("runId", runID.String()),
			zap.Int("outputChars", len(text)))
	}

	return domain.NewBriefingDocument(req, outputs, r.now()), nil
}

// runStage выполняет один шаг: для исследовательских шагов — поиск плюс
// завершение, для синтезирующих — только завершение.
func (r *Runner) runStage(ctx context.Context, stage domain.StageName, req domain.MeetingRequest, prior map[string]string) (string, error) {
	data := prompts.StageData{Request: req, Prior: prior}

	if query, ok := r.searchQuery(stage, req); ok {
		results, err := r.searcher.Search(ctx, query)
		if err != nil {
			return "", err
		}
		formatted := search.FormatResults(results)
		data.SearchResults = ai.TruncateToTokenBudget(r.model, formatted, r.tokenBudget)
	}

	userPrompt, err := prompts.UserPrompt(stage, data)
	if err != nil {
		return "", err
	}

	return r.generator.GenerateText(ctx, r.prompts.System(stage), userPrompt)
}

// searchQuery возвращает поисковый запрос шага; синтезирующие шаги внешних
// вызовов, кроме модели, не делают.
func (r *Runner) searchQuery(stage domain.StageName, req domain.MeetingRequest) (string, bool) {
	switch stage {
	case domain.StageContext:
		return prompts.ContextSearchQuery(req.CompanyName), true
	case domain.StageIndustry:
		return prompts.IndustrySearchQuery(req.CompanyName), true
	default:
		return "", false
	}
}

func (r *Runner) notify(event ProgressEvent) {
	if r.notifier != nil {
		r.notifier.Notify(event)
	}
}
