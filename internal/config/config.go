package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервера подготовки брифингов.
// Читается один раз при старте; по ходу работы не перечитывается.
type Config struct {
	// Настройки HTTP сервера
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout        time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout       time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"600s"` // конвейер выполняется синхронно в обработчике
	IdleTimeout        time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Логирование
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки AI (OpenAI-совместимый API)
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	AIModel       string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AITemperature float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	AIMaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"2000"`
	// Секретное поле без default: обязательно к заполнению
	AIAPIKey string `envconfig:"AI_API_KEY"`

	// Промпты шагов конвейера
	PromptsDir string `envconfig:"PROMPTS_DIR" default:"prompts"`

	// Настройки веб-поиска
	SearchTimeout           time.Duration `envconfig:"SEARCH_TIMEOUT" default:"15s"`
	SearchProviderOrder     []string      `envconfig:"SEARCH_PROVIDER_ORDER" default:"serpapi,brave"`
	SearchResultTokenBudget int           `envconfig:"SEARCH_RESULT_TOKEN_BUDGET" default:"1500"`
	SerpAPIKey              string        `envconfig:"SERPAPI_API_KEY"`
	BraveAPIKey             string        `envconfig:"BRAVE_API_KEY"`

	// Сессии
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// Load читает конфигурацию из переменных окружения и проверяет обязательные
// секреты. Отсутствие секрета — фатальная ошибка конфигурации: сервер не
// должен стартовать без доступа к внешним сервисам.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if strings.TrimSpace(cfg.AIAPIKey) == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.SerpAPIKey) == "" && strings.TrimSpace(cfg.BraveAPIKey) == "" {
		return nil, fmt.Errorf("at least one search API key is required (SERPAPI_API_KEY or BRAVE_API_KEY)")
	}
	for _, name := range cfg.SearchProviderOrder {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "serpapi", "brave":
		default:
			return nil, fmt.Errorf("unknown search provider %q in SEARCH_PROVIDER_ORDER", name)
		}
	}
	if cfg.SearchResultTokenBudget <= 0 {
		return nil, fmt.Errorf("SEARCH_RESULT_TOKEN_BUDGET must be positive")
	}

	return &cfg, nil
}
