package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"briefing-server/internal/search"
)

// MockSearchProvider is a mock type for the search.Provider type
type MockSearchProvider struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, query
func (_m *MockSearchProvider) Search(ctx context.Context, query string) ([]search.Result, error) {
	ret := _m.Called(ctx, query)

	var r0 []search.Result
	if rf, ok := ret.Get(0).(func(context.Context, string) []search.Result); ok {
		r0 = rf(ctx, query)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]search.Result)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, query)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Name provides a mock function
func (_m *MockSearchProvider) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// NewMockSearchProvider creates a new instance of MockSearchProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockSearchProvider(t interface {
	mock.TestingT
	Helper()
}) *MockSearchProvider {
	m := &MockSearchProvider{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ search.Provider = (*MockSearchProvider)(nil)
