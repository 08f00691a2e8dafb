package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefing-server/internal/domain"
)

// RunStatus — статус запуска подготовки. Переходы только вперёд:
// running → completed | failed.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run — состояние одного запуска подготовки в рамках сессии браузера.
type Run struct {
	ID           uuid.UUID                `json:"id"`
	SessionID    string                   `json:"-"`
	Status       RunStatus                `json:"status"`
	Request      domain.MeetingRequest    `json:"request"`
	CurrentStage domain.StageName         `json:"currentStage,omitempty"`
	Document     *domain.BriefingDocument `json:"document,omitempty"`
	Error        string                   `json:"error,omitempty"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// Store хранит состояние сессий в памяти процесса. Персистентности нет:
// состояние живёт в пределах одной сессии браузера и теряется при рестарте.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]*Run // ключ — ID сессии; хранится только последний запуск
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore создает хранилище сессий с заданным временем жизни записей.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		runs:   make(map[string]*Run),
		ttl:    ttl,
		logger: logger.Named("SessionStore"),
	}
}

// StartRun регистрирует новый запуск в сессии. Если запуск уже выполняется,
// возвращается ErrSessionBusy: в сессии допустим один запрос в полёте.
func (s *Store) StartRun(sessionID string, req domain.MeetingRequest) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.runs[sessionID]; ok && existing.Status == RunStatusRunning {
		return Run{}, domain.ErrSessionBusy
	}

	now := time.Now()
	run := &Run{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    RunStatusRunning,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.runs[sessionID] = run
	return *run, nil
}

// SetStage обновляет текущий шаг выполняющегося запуска.
func (s *Store) SetStage(sessionID string, runID uuid.UUID, stage domain.StageName) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[sessionID]
	if !ok || run.ID != runID || run.Status != RunStatusRunning {
		return
	}
	run.CurrentStage = stage
	run.UpdatedAt = time.Now()
}

// CompleteRun фиксирует успешное завершение запуска и итоговый документ.
func (s *Store) CompleteRun(sessionID string, runID uuid.UUID, doc domain.BriefingDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[sessionID]
	if !ok || run.ID != runID || run.Status != RunStatusRunning {
		return
	}
	run.Status = RunStatusCompleted
	run.Document = &doc
	run.UpdatedAt = time.Now()
}

// FailRun фиксирует сбой запуска с текстом причины.
func (s *Store) FailRun(sessionID string, runID uuid.UUID, cause string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[sessionID]
	if !ok || run.ID != runID || run.Status != RunStatusRunning {
		return
	}
	run.Status = RunStatusFailed
	run.Error = cause
	run.UpdatedAt = time.Now()
}

// GetRun возвращает копию запуска сессии по идентификатору.
func (s *Store) GetRun(sessionID string, runID uuid.UUID) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[sessionID]
	if !ok || run.ID != runID {
		return Run{}, domain.ErrRunNotFound
	}
	return *run, nil
}

// Cleanup удаляет записи сессий, не обновлявшиеся дольше TTL. Выполняющиеся
// запуски не трогаем независимо от возраста.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for sessionID, run := range s.runs {
		if run.Status != RunStatusRunning && run.UpdatedAt.Before(cutoff) {
			delete(s.runs, sessionID)
		}
	}
}

// StartJanitor запускает периодическую очистку до закрытия stop-канала.
func (s *Store) StartJanitor(stop <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
