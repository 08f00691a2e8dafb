package domain

import "errors"

// Базовые ошибки сервиса. Обработчики HTTP сопоставляют их со статус-кодами.
var (
	// ErrValidation — некорректный ввод пользователя; конвейер не запускался.
	ErrValidation = errors.New("validation failed")
	// ErrGenerationFailed — сбой любого шага конвейера; запуск прерван целиком.
	ErrGenerationFailed = errors.New("briefing generation failed")
	// ErrSessionBusy — в рамках сессии уже выполняется подготовка.
	ErrSessionBusy = errors.New("a briefing run is already in progress for this session")
	// ErrRunNotFound — запрошенный запуск не найден в сессии.
	ErrRunNotFound = errors.New("briefing run not found")
)
