package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"briefing-server/internal/domain"
	"briefing-server/internal/service"
)

// MockPipelineRunner is a mock type for the service.PipelineRunner type
type MockPipelineRunner struct {
	mock.Mock
}

// Run provides a mock function with given fields: ctx, sessionID, runID, req
func (_m *MockPipelineRunner) Run(ctx context.Context, sessionID string, runID uuid.UUID, req domain.MeetingRequest) (domain.BriefingDocument, error) {
	ret := _m.Called(ctx, sessionID, runID, req)

	var r0 domain.BriefingDocument
	if rf, ok := ret.Get(0).(func(context.Context, string, uuid.UUID, domain.MeetingRequest) domain.BriefingDocument); ok {
		r0 = rf(ctx, sessionID, runID, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(domain.BriefingDocument)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, uuid.UUID, domain.MeetingRequest) error); ok {
		r1 = rf(ctx, sessionID, runID, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockPipelineRunner creates a new instance of MockPipelineRunner. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockPipelineRunner(t interface {
	mock.TestingT
	Helper()
}) *MockPipelineRunner {
	m := &MockPipelineRunner{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.PipelineRunner = (*MockPipelineRunner)(nil)
