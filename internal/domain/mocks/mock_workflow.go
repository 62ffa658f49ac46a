// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/mouse-blink/pyintroduce/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockWorkflow is a mock type for the Workflow type.
type MockWorkflow struct {
	mock.Mock
}

// MockWorkflow_Expecter wraps MockWorkflow with typed expectations.
type MockWorkflow_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockWorkflow) EXPECT() *MockWorkflow_Expecter {
	return &MockWorkflow_Expecter{mock: &_m.Mock}
}

// Introduce provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Introduce(ctx context.Context, args domain.IntroduceArgs) error {
	ret := _m.Called(ctx, args)

	if len(ret) == 0 {
		panic("no return value specified for Introduce")
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.IntroduceArgs) error); ok {
		return rf(ctx, args)
	}

	return ret.Error(0)
}

// MockWorkflow_Introduce_Call is the typed expectation of Introduce.
type MockWorkflow_Introduce_Call struct {
	*mock.Call
}

// Introduce is a helper method to define mock.On call.
func (_e *MockWorkflow_Expecter) Introduce(ctx interface{}, args interface{}) *MockWorkflow_Introduce_Call {
	return &MockWorkflow_Introduce_Call{Call: _e.mock.On("Introduce", ctx, args)}
}

// Run sets a function called with the call arguments.
func (_c *MockWorkflow_Introduce_Call) Run(run func(ctx context.Context, args domain.IntroduceArgs)) *MockWorkflow_Introduce_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.IntroduceArgs))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockWorkflow_Introduce_Call) Return(_a0 error) *MockWorkflow_Introduce_Call {
	_c.Call.Return(_a0)
	return _c
}

// Suggest provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Suggest(ctx context.Context, args domain.SuggestArgs) error {
	ret := _m.Called(ctx, args)

	if len(ret) == 0 {
		panic("no return value specified for Suggest")
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.SuggestArgs) error); ok {
		return rf(ctx, args)
	}

	return ret.Error(0)
}

// MockWorkflow_Suggest_Call is the typed expectation of Suggest.
type MockWorkflow_Suggest_Call struct {
	*mock.Call
}

// Suggest is a helper method to define mock.On call.
func (_e *MockWorkflow_Expecter) Suggest(ctx interface{}, args interface{}) *MockWorkflow_Suggest_Call {
	return &MockWorkflow_Suggest_Call{Call: _e.mock.On("Suggest", ctx, args)}
}

// Run sets a function called with the call arguments.
func (_c *MockWorkflow_Suggest_Call) Run(run func(ctx context.Context, args domain.SuggestArgs)) *MockWorkflow_Suggest_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.SuggestArgs))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockWorkflow_Suggest_Call) Return(_a0 error) *MockWorkflow_Suggest_Call {
	_c.Call.Return(_a0)
	return _c
}

// Scan provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Scan(ctx context.Context, args domain.ScanArgs) error {
	ret := _m.Called(ctx, args)

	if len(ret) == 0 {
		panic("no return value specified for Scan")
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.ScanArgs) error); ok {
		return rf(ctx, args)
	}

	return ret.Error(0)
}

// MockWorkflow_Scan_Call is the typed expectation of Scan.
type MockWorkflow_Scan_Call struct {
	*mock.Call
}

// Scan is a helper method to define mock.On call.
func (_e *MockWorkflow_Expecter) Scan(ctx interface{}, args interface{}) *MockWorkflow_Scan_Call {
	return &MockWorkflow_Scan_Call{Call: _e.mock.On("Scan", ctx, args)}
}

// Run sets a function called with the call arguments.
func (_c *MockWorkflow_Scan_Call) Run(run func(ctx context.Context, args domain.ScanArgs)) *MockWorkflow_Scan_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.ScanArgs))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockWorkflow_Scan_Call) Return(_a0 error) *MockWorkflow_Scan_Call {
	_c.Call.Return(_a0)
	return _c
}

// NewMockWorkflow creates a new instance of MockWorkflow. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	m := &MockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
