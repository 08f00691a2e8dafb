package domain

import (
	"fmt"
	"strings"
	"time"
)

// Attendee описывает одного участника встречи.
type Attendee struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// MeetingRequest содержит входные данные, собранные перед запуском подготовки.
// После успешной валидации запрос считается неизменяемым.
type MeetingRequest struct {
	CompanyName     string     `json:"companyName"`
	Objective       string     `json:"objective"`
	Attendees       []Attendee `json:"attendees"`
	DurationMinutes int        `json:"durationMinutes"`
	FocusAreas      []string   `json:"focusAreas"`
}

// Validate проверяет запрос до любых внешних вызовов. Правила повторяют
// требования формы: компания и цель обязательны, имя компании не короче
// двух символов, нужен хотя бы один участник с непустым именем.
func (r *MeetingRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", ErrValidation)
	}
	if len(strings.TrimSpace(r.CompanyName)) < 2 {
		return fmt.Errorf("%w: company name must be at least 2 characters", ErrValidation)
	}
	if strings.TrimSpace(r.Objective) == "" {
		return fmt.Errorf("%w: meeting objective is required", ErrValidation)
	}
	if len(r.Attendees) == 0 {
		return fmt.Errorf("%w: at least one attendee is required", ErrValidation)
	}
	for i, a := range r.Attendees {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: attendee #%d has an empty name", ErrValidation, i+1)
		}
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	return nil
}

// Normalize приводит поля к каноническому виду: обрезает пробелы и убирает
// дубликаты областей фокуса, сохраняя порядок первого появления. Стабильный
// порядок нужен, чтобы сборка документа была детерминированной.
func (r *MeetingRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Objective = strings.TrimSpace(r.Objective)
	for i := range r.Attendees {
		r.Attendees[i].Name = strings.TrimSpace(r.Attendees[i].Name)
		r.Attendees[i].Role = strings.TrimSpace(r.Attendees[i].Role)
	}

	seen := make(map[string]struct{}, len(r.FocusAreas))
	areas := make([]string, 0, len(r.FocusAreas))
	for _, area := range r.FocusAreas {
		area = strings.TrimSpace(area)
		if area == "" {
			continue
		}
		key := strings.ToLower(area)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		areas = append(areas, area)
	}
	r.FocusAreas = areas
}

// AttendeeList возвращает участников в виде маркированного списка для промптов
// и заголовка документа.
func (r *MeetingRequest) AttendeeList() string {
	var b strings.Builder
	for i, a := range r.Attendees {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(a.Name)
		if a.Role != "" {
			b.WriteString(" — ")
			b.WriteString(a.Role)
		}
	}
	return b.String()
}

// CompanySlug возвращает имя компании в виде, пригодном для имени файла.
func (r *MeetingRequest) CompanySlug() string {
	slug := strings.ToLower(strings.TrimSpace(r.CompanyName))
	slug = strings.Join(strings.Fields(slug), "_")
	return slug
}

// StageName идентифицирует один из четырёх шагов конвейера.
type StageName string

const (
	StageContext  StageName = "context"
	StageIndustry StageName = "industry"
	StageStrategy StageName = "strategy"
	StageBriefing StageName = "briefing"
)

// StageOrder задаёт фиксированный порядок выполнения шагов.
var StageOrder = []StageName{StageContext, StageIndustry, StageStrategy, StageBriefing}

// Title возвращает заголовок раздела документа для шага.
func (s StageName) Title() string {
	switch s {
	case StageContext:
		return "Company Context"
	case StageIndustry:
		return "Industry Analysis"
	case StageStrategy:
		return "Meeting Strategy"
	case StageBriefing:
		return "Executive Briefing"
	default:
		return string(s)
	}
}

// StageOutput — результат одного шага конвейера (Markdown-текст).
type StageOutput struct {
	Stage       StageName `json:"stage"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
}
