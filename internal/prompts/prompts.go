package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"briefing-server/internal/domain"
)

// Имена файлов системных промптов в каталоге промптов.
var stageFiles = map[domain.StageName]string{
	domain.StageContext:  "context_analyzer.md",
	domain.StageIndustry: "industry_analyzer.md",
	domain.StageStrategy: "strategy_builder.md",
	domain.StageBriefing: "briefing_compiler.md",
}

// Set хранит загруженные системные промпты всех четырёх шагов.
type Set struct {
	system map[domain.StageName]string
}

// Load читает системные промпты из каталога. Отсутствие любого файла —
// ошибка конфигурации: сервер не должен стартовать с неполным набором.
func Load(dir string) (*Set, error) {
	system := make(map[domain.StageName]string, len(stageFiles))
	for stage, filename := range stageFiles {
		path := filepath.Join(dir, filename)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return nil, fmt.Errorf("prompt file %s is empty", path)
		}
		system[stage] = string(content)
	}
	return &Set{system: system}, nil
}

// System возвращает системный промпт шага.
func (s *Set) System(stage domain.StageName) string {
	return s.system[stage]
}

// ContextSearchQuery строит поисковый запрос шага анализа контекста.
// Шаблон фиксированный, без динамического планирования запросов.
func ContextSearchQuery(companyName string) string {
	return fmt.Sprintf("%q recent news, products and services", companyName)
}

// IndustrySearchQuery строит поисковый запрос шага анализа индустрии.
func IndustrySearchQuery(companyName string) string {
	return fmt.Sprintf("market analysis and industry trends for %q", companyName)
}

// StageData — данные для рендеринга пользовательского промпта шага.
type StageData struct {
	Request       domain.MeetingRequest
	SearchResults string
	// Prior содержит тексты уже завершённых шагов по имени шага; шаблоны
	// поздних шагов ссылаются на них через index.
	Prior map[string]string
}

var userTemplates = template.Must(template.New("stages").Funcs(template.FuncMap{
	"attendees": func(req domain.MeetingRequest) string { return req.AttendeeList() },
	"join":      strings.Join,
}).Parse(`
{{define "context" -}}
MEETING DETAILS:
- Company: {{.Request.CompanyName}}
- Objective: {{.Request.Objective}}
- Attendees:
{{attendees .Request}}
- Duration: {{.Request.DurationMinutes}} minutes

WEB SEARCH RESULTS:
{{.SearchResults}}

Based on the data above, produce a concise context analysis of the company.
{{- end}}

{{define "industry" -}}
MEETING CONTEXT:
- Company: {{.Request.CompanyName}}
- Objective: {{.Request.Objective}}

COMPANY CONTEXT ANALYSIS:
{{index .Prior "context"}}

MARKET DATA (WEB SEARCH RESULTS):
{{.SearchResults}}

Based on the data above, produce an industry and market analysis.
{{- end}}

{{define "strategy" -}}
COMPANY CONTEXT ANALYSIS:
{{index .Prior "context"}}

INDUSTRY ANALYSIS:
{{index .Prior "industry"}}

MEETING PARAMETERS:
- Objective: {{.Request.Objective}}
- Duration: {{.Request.DurationMinutes}} minutes
- Attendees:
{{attendees .Request}}
{{- if .Request.FocusAreas}}
- Focus areas: {{join .Request.FocusAreas ", "}}
{{- end}}

Develop a meeting strategy with a timeboxed agenda (total: {{.Request.DurationMinutes}} minutes) and talking points.
{{- end}}

{{define "briefing" -}}
COMPILED DATA for the meeting with {{.Request.CompanyName}}:

CONTEXT:
{{index .Prior "context"}}

INDUSTRY:
{{index .Prior "industry"}}

STRATEGY:
{{index .Prior "strategy"}}

MEETING SUMMARY:
- Objective: {{.Request.Objective}}
- Attendees:
{{attendees .Request}}
- Duration: {{.Request.DurationMinutes}} minutes

Compile the final executive briefing in well-structured Markdown.
{{- end}}
`))

// UserPrompt рендерит пользовательский промпт шага из данных запуска.
func UserPrompt(stage domain.StageName, data StageData) (string, error) {
	var b strings.Builder
	if err := userTemplates.ExecuteTemplate(&b, string(stage), data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", stage, err)
	}
	return strings.TrimSpace(b.String()), nil
}
