package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"briefing-server/internal/ai"
)

// MockTextGenerator is a mock type for the ai.TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, systemPrompt, userPrompt
func (_m *MockTextGenerator) GenerateText(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	ret := _m.Called(ctx, systemPrompt, userPrompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, string) string); ok {
		r0 = rf(ctx, systemPrompt, userPrompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, systemPrompt, userPrompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTextGenerator creates a new instance of MockTextGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ ai.TextGenerator = (*MockTextGenerator)(nil)
