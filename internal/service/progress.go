package service

import (
	"briefing-server/internal/pipeline"
	"briefing-server/internal/session"
)

// ProgressRecorder обновляет текущий шаг запуска в хранилище сессий и
// пересылает событие дальше (обычно в WebSocket-менеджер).
type ProgressRecorder struct {
	store   *session.Store
	forward pipeline.Notifier // может быть nil
}

// NewProgressRecorder создает ProgressRecorder.
func NewProgressRecorder(store *session.Store, forward pipeline.Notifier) *ProgressRecorder {
	return &ProgressRecorder{store: store, forward: forward}
}

// Notify реализует pipeline.Notifier.
func (r *ProgressRecorder) Notify(event pipeline.ProgressEvent) {
	if event.Status == "running" {
		r.store.SetStage(event.SessionID, event.RunID, event.Stage)
	}
	if r.forward != nil {
		r.forward.Notify(event)
	}
}
