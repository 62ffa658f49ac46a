// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	"os"

	"github.com/mouse-blink/pyintroduce/internal/adapter"
	m "github.com/mouse-blink/pyintroduce/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockSourceFSAdapter is a mock type for the SourceFSAdapter type.
type MockSourceFSAdapter struct {
	mock.Mock
}

// MockSourceFSAdapter_Expecter wraps MockSourceFSAdapter with typed
// expectations.
type MockSourceFSAdapter_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockSourceFSAdapter) EXPECT() *MockSourceFSAdapter_Expecter {
	return &MockSourceFSAdapter_Expecter{mock: &_m.Mock}
}

// Get provides a mock function with given fields: roots, exclude.
func (_m *MockSourceFSAdapter) Get(roots []m.Path, exclude []string) ([]m.Path, error) {
	ret := _m.Called(roots, exclude)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	if rf, ok := ret.Get(0).(func([]m.Path, []string) ([]m.Path, error)); ok {
		return rf(roots, exclude)
	}

	var r0 []m.Path
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]m.Path)
	}

	return r0, ret.Error(1)
}

// MockSourceFSAdapter_Get_Call is the typed expectation of Get.
type MockSourceFSAdapter_Get_Call struct {
	*mock.Call
}

// Get is a helper method to define mock.On call.
func (_e *MockSourceFSAdapter_Expecter) Get(roots interface{}, exclude interface{}) *MockSourceFSAdapter_Get_Call {
	return &MockSourceFSAdapter_Get_Call{Call: _e.mock.On("Get", roots, exclude)}
}

// Return sets the values returned by the call.
func (_c *MockSourceFSAdapter_Get_Call) Return(_a0 []m.Path, _a1 error) *MockSourceFSAdapter_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Walk provides a mock function with given fields: root, recursive, fn.
func (_m *MockSourceFSAdapter) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	ret := _m.Called(root, recursive, fn)

	if len(ret) == 0 {
		panic("no return value specified for Walk")
	}

	if rf, ok := ret.Get(0).(func(m.Path, bool, adapter.FilepathWalkFunc) error); ok {
		return rf(root, recursive, fn)
	}

	return ret.Error(0)
}

// MockSourceFSAdapter_Walk_Call is the typed expectation of Walk.
type MockSourceFSAdapter_Walk_Call struct {
	*mock.Call
}

// Walk is a helper method to define mock.On call.
func (_e *MockSourceFSAdapter_Expecter) Walk(root interface{}, recursive interface{}, fn interface{}) *MockSourceFSAdapter_Walk_Call {
	return &MockSourceFSAdapter_Walk_Call{Call: _e.mock.On("Walk", root, recursive, fn)}
}

// Return sets the values returned by the call.
func (_c *MockSourceFSAdapter_Walk_Call) Return(_a0 error) *MockSourceFSAdapter_Walk_Call {
	_c.Call.Return(_a0)
	return _c
}

// ReadFile provides a mock function with given fields: path.
func (_m *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := _m.Called(path)

	if len(ret) == 0 {
		panic("no return value specified for ReadFile")
	}

	if rf, ok := ret.Get(0).(func(m.Path) ([]byte, error)); ok {
		return rf(path)
	}

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// MockSourceFSAdapter_ReadFile_Call is the typed expectation of ReadFile.
type MockSourceFSAdapter_ReadFile_Call struct {
	*mock.Call
}

// ReadFile is a helper method to define mock.On call.
func (_e *MockSourceFSAdapter_Expecter) ReadFile(path interface{}) *MockSourceFSAdapter_ReadFile_Call {
	return &MockSourceFSAdapter_ReadFile_Call{Call: _e.mock.On("ReadFile", path)}
}

// Return sets the values returned by the call.
func (_c *MockSourceFSAdapter_ReadFile_Call) Return(_a0 []byte, _a1 error) *MockSourceFSAdapter_ReadFile_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// WriteFile provides a mock function with given fields: path, content.
func (_m *MockSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	ret := _m.Called(path, content)

	if len(ret) == 0 {
		panic("no return value specified for WriteFile")
	}

	if rf, ok := ret.Get(0).(func(m.Path, []byte) error); ok {
		return rf(path, content)
	}

	return ret.Error(0)
}

// MockSourceFSAdapter_WriteFile_Call is the typed expectation of WriteFile.
type MockSourceFSAdapter_WriteFile_Call struct {
	*mock.Call
}

// WriteFile is a helper method to define mock.On call.
func (_e *MockSourceFSAdapter_Expecter) WriteFile(path interface{}, content interface{}) *MockSourceFSAdapter_WriteFile_Call {
	return &MockSourceFSAdapter_WriteFile_Call{Call: _e.mock.On("WriteFile", path, content)}
}

// Run sets a function called with the call arguments.
func (_c *MockSourceFSAdapter_WriteFile_Call) Run(run func(path m.Path, content []byte)) *MockSourceFSAdapter_WriteFile_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(m.Path), args[1].([]byte))
	})

	return _c
}

// Return sets the values returned by the call.
func (_c *MockSourceFSAdapter_WriteFile_Call) Return(_a0 error) *MockSourceFSAdapter_WriteFile_Call {
	_c.Call.Return(_a0)
	return _c
}

// FileInfo provides a mock function with given fields: path.
func (_m *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := _m.Called(path)

	if len(ret) == 0 {
		panic("no return value specified for FileInfo")
	}

	if rf, ok := ret.Get(0).(func(m.Path) (os.FileInfo, error)); ok {
		return rf(path)
	}

	var r0 os.FileInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(os.FileInfo)
	}

	return r0, ret.Error(1)
}

// MockSourceFSAdapter_FileInfo_Call is the typed expectation of FileInfo.
type MockSourceFSAdapter_FileInfo_Call struct {
	*mock.Call
}

// FileInfo is a helper method to define mock.On call.
func (_e *MockSourceFSAdapter_Expecter) FileInfo(path interface{}) *MockSourceFSAdapter_FileInfo_Call {
	return &MockSourceFSAdapter_FileInfo_Call{Call: _e.mock.On("FileInfo", path)}
}

// Return sets the values returned by the call.
func (_c *MockSourceFSAdapter_FileInfo_Call) Return(_a0 os.FileInfo, _a1 error) *MockSourceFSAdapter_FileInfo_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// NewMockSourceFSAdapter creates a new instance of MockSourceFSAdapter. It also
// registers a testing interface on the mock and a cleanup function to assert
// the mocks expectations.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	m := &MockSourceFSAdapter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
