package handler

import "briefing-server/internal/domain"

// attendeeDTO — участник встречи в теле запроса.
type attendeeDTO struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// prepareBriefingRequest — тело POST /api/briefings. Содержательная
// валидация выполняется в домене, чтобы отклонять запрос до внешних вызовов
// с понятным сообщением.
type prepareBriefingRequest struct {
	CompanyName     string        `json:"companyName"`
	Objective       string        `json:"objective"`
	Attendees       []attendeeDTO `json:"attendees"`
	DurationMinutes int           `json:"durationMinutes"`
	FocusAreas      []string      `json:"focusAreas"`
}

// toDomain преобразует DTO в доменный запрос.
func (r *prepareBriefingRequest) toDomain() domain.MeetingRequest {
	attendees := make([]domain.Attendee, 0, len(r.Attendees))
	for _, a := range r.Attendees {
		attendees = append(attendees, domain.Attendee{Name: a.Name, Role: a.Role})
	}
	return domain.MeetingRequest{
		CompanyName:     r.CompanyName,
		Objective:       r.Objective,
		Attendees:       attendees,
		DurationMinutes: r.DurationMinutes,
		FocusAreas:      r.FocusAreas,
	}
}

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}
