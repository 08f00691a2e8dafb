package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"briefing-server/internal/domain"
)

func validRequest() domain.MeetingRequest {
	return domain.MeetingRequest{
		CompanyName:     "Acme Corp",
		Objective:       "Negotiate renewal",
		Attendees:       []domain.Attendee{{Name: "Jane Doe", Role: "CFO"}},
		DurationMinutes: 30,
		FocusAreas:      []string{"pricing"},
	}
}

func TestMeetingRequest_Validate(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		req := validRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("empty company name is rejected", func(t *testing.T) {
		req := validRequest()
		req.CompanyName = "   "
		err := req.Validate()
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "company name is required")
	})

	t.Run("single character company name is rejected", func(t *testing.T) {
		req := validRequest()
		req.CompanyName = "A"
		assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
	})

	t.Run("empty objective is rejected", func(t *testing.T) {
		req := validRequest()
		req.Objective = ""
		assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
	})

	t.Run("missing attendees are rejected", func(t *testing.T) {
		req := validRequest()
		req.Attendees = nil
		assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
	})

	t.Run("attendee with empty name is rejected", func(t *testing.T) {
		req := validRequest()
		req.Attendees = append(req.Attendees, domain.Attendee{Name: "  ", Role: "CTO"})
		err := req.Validate()
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "attendee #2")
	})

	t.Run("non-positive duration is rejected", func(t *testing.T) {
		req := validRequest()
		req.DurationMinutes = 0
		assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
	})
}

func TestMeetingRequest_Normalize(t *testing.T) {
	t.Run("trims fields and deduplicates focus areas preserving order", func(t *testing.T) {
		req := domain.MeetingRequest{
			CompanyName:     "  Acme Corp ",
			Objective:       " Negotiate renewal ",
			Attendees:       []domain.Attendee{{Name: " Jane Doe ", Role: " CFO "}},
			DurationMinutes: 30,
			FocusAreas:      []string{" pricing ", "Roadmap", "", "PRICING", "roadmap", "security"},
		}
		req.Normalize()

		assert.Equal(t, "Acme Corp", req.CompanyName)
		assert.Equal(t, "Negotiate renewal", req.Objective)
		assert.Equal(t, "Jane Doe", req.Attendees[0].Name)
		assert.Equal(t, "CFO", req.Attendees[0].Role)
		assert.Equal(t, []string{"pricing", "Roadmap", "security"}, req.FocusAreas)
	})

	t.Run("normalization is stable across identical inputs", func(t *testing.T) {
		a := validRequest()
		a.FocusAreas = []string{"b", "a", "B"}
		b := validRequest()
		b.FocusAreas = []string{"b", "a", "B"}
		a.Normalize()
		b.Normalize()
		assert.Equal(t, a.FocusAreas, b.FocusAreas)
	})
}

func TestMeetingRequest_CompanySlug(t *testing.T) {
	req := validRequest()
	req.CompanyName = "  Acme  Corp Holdings "
	assert.Equal(t, "acme_corp_holdings", req.CompanySlug())
}

func TestMeetingRequest_AttendeeList(t *testing.T) {
	req := validRequest()
	req.Attendees = append(req.Attendees, domain.Attendee{Name: "John Smith"})
	list := req.AttendeeList()
	assert.Equal(t, "- Jane Doe — CFO\n- John Smith", list)
}
