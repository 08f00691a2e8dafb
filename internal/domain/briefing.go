package domain

import (
	"fmt"
	"strings"
	"time"
)

// BriefingDocument — итоговый документ подготовки. Создаётся один раз после
// успешного завершения всех шагов и далее не изменяется.
type BriefingDocument struct {
	Request   MeetingRequest `json:"request"`
	Outputs   []StageOutput  `json:"outputs"`
	Markdown  string         `json:"markdown"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewBriefingDocument собирает Markdown-документ из запроса и результатов
// шагов. Тело документа зависит только от запроса и текстов шагов, поэтому
// при одинаковых входах результат побайтово совпадает.
func NewBriefingDocument(req MeetingRequest, outputs []StageOutput, now time.Time) BriefingDocument {
	var b strings.Builder

	fmt.Fprintf(&b, "# Meeting Briefing: %s\n\n", req.CompanyName)
	fmt.Fprintf(&b, "- **Objective:** %s\n", req.Objective)
	fmt.Fprintf(&b, "- **Duration:** %d minutes\n", req.DurationMinutes)
	b.WriteString("- **Attendees:**\n")
	for _, a := range req.Attendees {
		if a.Role != "" {
			fmt.Fprintf(&b, "  - %s — %s\n", a.Name, a.Role)
		} else {
			fmt.Fprintf(&b, "  - %s\n", a.Name)
		}
	}
	if len(req.FocusAreas) > 0 {
		fmt.Fprintf(&b, "- **Focus areas:** %s\n", strings.Join(req.FocusAreas, ", "))
	}

	for _, out := range outputs {
		fmt.Fprintf(&b, "\n## %s\n\n", out.Stage.Title())
		b.WriteString(strings.TrimSpace(out.Text))
		b.WriteString("\n")
	}

	return BriefingDocument{
		Request:   req,
		Outputs:   outputs,
		Markdown:  b.String(),
		CreatedAt: now,
	}
}

// Filename возвращает имя файла для скачивания документа.
func (d *BriefingDocument) Filename() string {
	return fmt.Sprintf("briefing_%s.md", d.Request.CompanySlug())
}
