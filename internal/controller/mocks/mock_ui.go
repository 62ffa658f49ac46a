// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	m "github.com/mouse-blink/pyintroduce/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockUI is a mock type for the UI type.
type MockUI struct {
	mock.Mock
}

// MockUI_Expecter wraps MockUI with typed expectations.
type MockUI_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockUI) EXPECT() *MockUI_Expecter {
	return &MockUI_Expecter{mock: &_m.Mock}
}

// Choose provides a mock function with given fields: req.
func (_m *MockUI) Choose(req m.ChoiceRequest) (m.Choice, error) {
	ret := _m.Called(req)

	if len(ret) == 0 {
		panic("no return value specified for Choose")
	}

	if rf, ok := ret.Get(0).(func(m.ChoiceRequest) (m.Choice, error)); ok {
		return rf(req)
	}

	return ret.Get(0).(m.Choice), ret.Error(1)
}

// MockUI_Choose_Call is the typed expectation of Choose.
type MockUI_Choose_Call struct {
	*mock.Call
}

// Choose is a helper method to define mock.On call.
func (_e *MockUI_Expecter) Choose(req interface{}) *MockUI_Choose_Call {
	return &MockUI_Choose_Call{Call: _e.mock.On("Choose", req)}
}

// Return sets the values returned by the call.
func (_c *MockUI_Choose_Call) Return(_a0 m.Choice, _a1 error) *MockUI_Choose_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// RunAndReturn answers the call with run.
func (_c *MockUI_Choose_Call) RunAndReturn(run func(m.ChoiceRequest) (m.Choice, error)) *MockUI_Choose_Call {
	_c.Call.Return(run)
	return _c
}

// DisplayResult provides a mock function with given fields: result, dryRun.
func (_m *MockUI) DisplayResult(result m.IntroduceResult, dryRun bool) error {
	ret := _m.Called(result, dryRun)

	if len(ret) == 0 {
		panic("no return value specified for DisplayResult")
	}

	if rf, ok := ret.Get(0).(func(m.IntroduceResult, bool) error); ok {
		return rf(result, dryRun)
	}

	return ret.Error(0)
}

// MockUI_DisplayResult_Call is the typed expectation of DisplayResult.
type MockUI_DisplayResult_Call struct {
	*mock.Call
}

// DisplayResult is a helper method to define mock.On call.
func (_e *MockUI_Expecter) DisplayResult(result interface{}, dryRun interface{}) *MockUI_DisplayResult_Call {
	return &MockUI_DisplayResult_Call{Call: _e.mock.On("DisplayResult", result, dryRun)}
}

// Run sets a function called with the call arguments.
func (_c *MockUI_DisplayResult_Call) Run(run func(result m.IntroduceResult, dryRun bool)) *MockUI_DisplayResult_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(m.IntroduceResult), args[1].(bool))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockUI_DisplayResult_Call) Return(_a0 error) *MockUI_DisplayResult_Call {
	_c.Call.Return(_a0)
	return _c
}

// DisplaySuggestions provides a mock function with given fields: suggestion.
func (_m *MockUI) DisplaySuggestions(suggestion m.Suggestion) error {
	ret := _m.Called(suggestion)

	if len(ret) == 0 {
		panic("no return value specified for DisplaySuggestions")
	}

	if rf, ok := ret.Get(0).(func(m.Suggestion) error); ok {
		return rf(suggestion)
	}

	return ret.Error(0)
}

// MockUI_DisplaySuggestions_Call is the typed expectation of DisplaySuggestions.
type MockUI_DisplaySuggestions_Call struct {
	*mock.Call
}

// DisplaySuggestions is a helper method to define mock.On call.
func (_e *MockUI_Expecter) DisplaySuggestions(suggestion interface{}) *MockUI_DisplaySuggestions_Call {
	return &MockUI_DisplaySuggestions_Call{Call: _e.mock.On("DisplaySuggestions", suggestion)}
}

// Run sets a function called with the call arguments.
func (_c *MockUI_DisplaySuggestions_Call) Run(run func(suggestion m.Suggestion)) *MockUI_DisplaySuggestions_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(m.Suggestion))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockUI_DisplaySuggestions_Call) Return(_a0 error) *MockUI_DisplaySuggestions_Call {
	_c.Call.Return(_a0)
	return _c
}

// DisplayScan provides a mock function with given fields: reports, format.
func (_m *MockUI) DisplayScan(reports []m.ScanReport, format string) error {
	ret := _m.Called(reports, format)

	if len(ret) == 0 {
		panic("no return value specified for DisplayScan")
	}

	if rf, ok := ret.Get(0).(func([]m.ScanReport, string) error); ok {
		return rf(reports, format)
	}

	return ret.Error(0)
}

// MockUI_DisplayScan_Call is the typed expectation of DisplayScan.
type MockUI_DisplayScan_Call struct {
	*mock.Call
}

// DisplayScan is a helper method to define mock.On call.
func (_e *MockUI_Expecter) DisplayScan(reports interface{}, format interface{}) *MockUI_DisplayScan_Call {
	return &MockUI_DisplayScan_Call{Call: _e.mock.On("DisplayScan", reports, format)}
}

// Run sets a function called with the call arguments.
func (_c *MockUI_DisplayScan_Call) Run(run func(reports []m.ScanReport, format string)) *MockUI_DisplayScan_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].([]m.ScanReport), args[1].(string))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockUI_DisplayScan_Call) Return(_a0 error) *MockUI_DisplayScan_Call {
	_c.Call.Return(_a0)
	return _c
}

// StartScan provides a mock function with given fields: files, workers.
func (_m *MockUI) StartScan(files int, workers int) {
	_m.Called(files, workers)
}

// MockUI_StartScan_Call is the typed expectation of StartScan.
type MockUI_StartScan_Call struct {
	*mock.Call
}

// StartScan is a helper method to define mock.On call.
func (_e *MockUI_Expecter) StartScan(files interface{}, workers interface{}) *MockUI_StartScan_Call {
	return &MockUI_StartScan_Call{Call: _e.mock.On("StartScan", files, workers)}
}

// Return marks the call as expected.
func (_c *MockUI_StartScan_Call) Return() *MockUI_StartScan_Call {
	_c.Call.Return()
	return _c
}

// DisplayScanningFile provides a mock function with given fields: path, worker.
func (_m *MockUI) DisplayScanningFile(path m.Path, worker int) {
	_m.Called(path, worker)
}

// MockUI_DisplayScanningFile_Call is the typed expectation of DisplayScanningFile.
type MockUI_DisplayScanningFile_Call struct {
	*mock.Call
}

// DisplayScanningFile is a helper method to define mock.On call.
func (_e *MockUI_Expecter) DisplayScanningFile(path interface{}, worker interface{}) *MockUI_DisplayScanningFile_Call {
	return &MockUI_DisplayScanningFile_Call{Call: _e.mock.On("DisplayScanningFile", path, worker)}
}

// Return marks the call as expected.
func (_c *MockUI_DisplayScanningFile_Call) Return() *MockUI_DisplayScanningFile_Call {
	_c.Call.Return()
	return _c
}

// DisplayScannedFile provides a mock function with given fields: report, worker.
func (_m *MockUI) DisplayScannedFile(report m.ScanReport, worker int) {
	_m.Called(report, worker)
}

// MockUI_DisplayScannedFile_Call is the typed expectation of DisplayScannedFile.
type MockUI_DisplayScannedFile_Call struct {
	*mock.Call
}

// DisplayScannedFile is a helper method to define mock.On call.
func (_e *MockUI_Expecter) DisplayScannedFile(report interface{}, worker interface{}) *MockUI_DisplayScannedFile_Call {
	return &MockUI_DisplayScannedFile_Call{Call: _e.mock.On("DisplayScannedFile", report, worker)}
}

// Run sets a function called with the call arguments.
func (_c *MockUI_DisplayScannedFile_Call) Run(run func(report m.ScanReport, worker int)) *MockUI_DisplayScannedFile_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(m.ScanReport), args[1].(int))
	})

	return _c
}

// Return marks the call as expected.
func (_c *MockUI_DisplayScannedFile_Call) Return() *MockUI_DisplayScannedFile_Call {
	_c.Call.Return()
	return _c
}

// FinishScan provides a mock function with no fields.
func (_m *MockUI) FinishScan() {
	_m.Called()
}

// MockUI_FinishScan_Call is the typed expectation of FinishScan.
type MockUI_FinishScan_Call struct {
	*mock.Call
}

// FinishScan is a helper method to define mock.On call.
func (_e *MockUI_Expecter) FinishScan() *MockUI_FinishScan_Call {
	return &MockUI_FinishScan_Call{Call: _e.mock.On("FinishScan")}
}

// Return marks the call as expected.
func (_c *MockUI_FinishScan_Call) Return() *MockUI_FinishScan_Call {
	_c.Call.Return()
	return _c
}

// NewMockUI creates a new instance of MockUI. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	m := &MockUI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
