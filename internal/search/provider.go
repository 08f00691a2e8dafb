package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrSearchFailed - ошибка при выполнении веб-поиска
var ErrSearchFailed = errors.New("web search failed")

// Result — один результат поиска (сниппет с источником).
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider выполняет один поисковый запрос и возвращает ранжированные сниппеты.
type Provider interface {
	// Search выполняет один запрос без пагинации и переформулирования.
	Search(ctx context.Context, query string) ([]Result, error)
	// Name возвращает имя провайдера для логов и метрик.
	Name() string
}

// Chain пробует провайдеров по порядку и возвращает результат первого
// успешного. Сбой одного провайдера переключает на следующий; если не
// ответил ни один, возвращается совокупная ошибка.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain создает цепочку провайдеров. Порядок аргументов определяет
// порядок опроса.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger.Named("SearchChain")}
}

// Name возвращает имя цепочки провайдеров.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, ",")
}

// Search опрашивает провайдеров по порядку до первого успеха.
func (c *Chain) Search(ctx context.Context, query string) ([]Result, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("%w: no search providers configured", ErrSearchFailed)
	}

	var errs []error
	for _, p := range c.providers {
		results, err := p.Search(ctx, query)
		if err != nil {
			c.logger.Warn("Search provider failed, trying next",
				zap.String("provider", p.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		return results, nil
	}

	return nil, fmt.Errorf("%w: all providers failed: %w", ErrSearchFailed, errors.Join(errs...))
}

// FormatResults преобразует результаты в текстовый блок для промпта.
func FormatResults(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s\n%s\n%s", i+1, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}
