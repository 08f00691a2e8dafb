package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TruncateToTokenBudget обрезает текст до заданного числа токенов модели.
// Сниппеты поиска могут быть произвольно длинными, а место в контексте шага
// ограничено. Если токенизатор для модели недоступен, используется грубая
// оценка в четыре символа на токен.
func TruncateToTokenBudget(model, text string, budget int) string {
	if budget <= 0 || text == "" {
		return ""
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback: приблизительная оценка по символам. Срез байтовый,
		// поэтому граница откатывается к началу руны, чтобы не порвать UTF-8.
		approx := budget * 4
		if len(text) <= approx {
			return text
		}
		for approx > 0 && !utf8.RuneStart(text[approx]) {
			approx--
		}
		return strings.TrimSpace(text[:approx])
	}

	tokens := tke.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return strings.TrimSpace(tke.Decode(tokens[:budget]))
}
