package runtracker

import (
	"context"
	"errors"
	"sync"
)

// ErrShuttingDown возвращается при попытке начать запуск во время остановки.
var ErrShuttingDown = errors.New("server is shutting down")

// Tracker учитывает выполняющиеся запуски конвейера, чтобы при остановке
// сервера дождаться их завершения, а не обрывать на полпути.
type Tracker struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	closing bool
}

// New создает новый Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Acquire регистрирует начало запуска. Возвращённую функцию нужно вызвать
// по завершении (обычно через defer).
func (t *Tracker) Acquire() (release func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closing {
		return nil, ErrShuttingDown
	}
	t.wg.Add(1)
	var once sync.Once
	return func() { once.Do(t.wg.Done) }, nil
}

// Drain запрещает новые запуски и ждёт завершения активных либо истечения
// контекста.
func (t *Tracker) Drain(ctx context.Context) error {
	t.mu.Lock()
	t.closing = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
