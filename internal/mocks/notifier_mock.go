package mocks

import (
	"github.com/stretchr/testify/mock"

	"briefing-server/internal/pipeline"
)

// MockNotifier is a mock type for the pipeline.Notifier type
type MockNotifier struct {
	mock.Mock
}

// Notify provides a mock function with given fields: event
func (_m *MockNotifier) Notify(event pipeline.ProgressEvent) {
	_m.Called(event)
}

// NewMockNotifier creates a new instance of MockNotifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotifier(t interface {
	mock.TestingT
	Helper()
}) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ pipeline.Notifier = (*MockNotifier)(nil)
