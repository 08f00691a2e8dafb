package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки логгера сервера.
type Config struct {
	Level      string // debug | info | warn | error; пусто → info
	Encoding   string // json | console; пусто → json
	OutputPath string // путь к файлу лога; пусто → stdout
}

// New создает zap.Logger по конфигурации. Каждый компонент сервера получает
// свой срез через logger.Named("Component"). Некорректный уровень — ошибка
// конфигурации, а не тихий откат: сервер не должен стартовать с непонятным
// уровнем логирования.
func New(cfg Config) (*zap.Logger, error) {
	levelText := strings.ToLower(strings.TrimSpace(cfg.Level))
	if levelText == "" {
		levelText = "info"
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(cfg.Encoding)) {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("invalid log encoding %q (want json or console)", cfg.Encoding)
	}

	sink := zapcore.Lock(os.Stdout)
	if cfg.OutputPath != "" {
		file, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.OutputPath, err)
		}
		sink = zapcore.Lock(file)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core), nil
}
