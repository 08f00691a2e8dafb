package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefing-server/internal/domain"
	"briefing-server/internal/runtracker"
	"briefing-server/internal/session"
)

// PipelineRunner выполняет четыре шага подготовки для валидированного запроса.
type PipelineRunner interface {
	Run(ctx context.Context, sessionID string, runID uuid.UUID, req domain.MeetingRequest) (domain.BriefingDocument, error)
}

// BriefingService связывает валидацию, учёт запусков и конвейер.
type BriefingService struct {
	runner  PipelineRunner
	store   *session.Store
	tracker *runtracker.Tracker
	logger  *zap.Logger
}

// NewBriefingService создает BriefingService.
func NewBriefingService(runner PipelineRunner, store *session.Store, tracker *runtracker.Tracker, logger *zap.Logger) *BriefingService {
	return &BriefingService{
		runner:  runner,
		store:   store,
		tracker: tracker,
		logger:  logger.Named("BriefingService"),
	}
}

// Prepare выполняет полный цикл подготовки брифинга для сессии. Запрос
// отклоняется до любых внешних вызовов, если он невалиден или если в сессии
// уже есть выполняющийся запуск.
func (s *BriefingService) Prepare(ctx context.Context, sessionID string, req domain.MeetingRequest) (session.Run, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return session.Run{}, err
	}

	release, err := s.tracker.Acquire()
	if err != nil {
		return session.Run{}, err
	}
	defer release()

	run, err := s.store.StartRun(sessionID, req)
	if err != nil {
		return session.Run{}, err
	}

	s.logger.Info("Briefing run started",
		zap.String("sessionId", sessionID),
		zap.String("runId", run.ID.String()),
		zap.String("company", req.CompanyName))

	doc, err := s.runner.Run(ctx, sessionID, run.ID, req)
	if err != nil {
		s.store.FailRun(sessionID, run.ID, err.Error())
		s.logger.Error("Briefing run failed",
			zap.String("runId", run.ID.String()),
			zap.Error(err))
		return s.mustGetRun(sessionID, run.ID), err
	}

	s.store.CompleteRun(sessionID, run.ID, doc)
	s.logger.Info("Briefing run completed",
		zap.String("runId", run.ID.String()),
		zap.Int("documentChars", len(doc.Markdown)))

	return s.mustGetRun(sessionID, run.ID), nil
}

// GetRun возвращает состояние запуска сессии.
func (s *BriefingService) GetRun(sessionID string, runID uuid.UUID) (session.Run, error) {
	return s.store.GetRun(sessionID, runID)
}

// GetDocument возвращает готовый документ запуска для скачивания.
func (s *BriefingService) GetDocument(sessionID string, runID uuid.UUID) (domain.BriefingDocument, error) {
	run, err := s.store.GetRun(sessionID, runID)
	if err != nil {
		return domain.BriefingDocument{}, err
	}
	if run.Status != session.RunStatusCompleted || run.Document == nil {
		return domain.BriefingDocument{}, fmt.Errorf("%w: briefing is not completed", domain.ErrRunNotFound)
	}
	return *run.Document, nil
}

// mustGetRun возвращает актуальную копию запуска; запись создана этим же
// вызовом, поэтому её отсутствие невозможно.
func (s *BriefingService) mustGetRun(sessionID string, runID uuid.UUID) session.Run {
	run, err := s.store.GetRun(sessionID, runID)
	if err != nil {
		return session.Run{ID: runID, SessionID: sessionID}
	}
	return run
}
