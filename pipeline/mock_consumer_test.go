// Hand-authored equivalent of what `go generate` (see the directive in
// pipeline_suite_test.go) would produce via mockgen for FrameConsumer,
// matching the same gomock shape zeonica/api uses for MockPort/MockDevice.

package pipeline

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockFrameConsumer is a mock of the FrameConsumer interface.
type MockFrameConsumer struct {
	ctrl     *gomock.Controller
	recorder *MockFrameConsumerMockRecorder
}

// MockFrameConsumerMockRecorder is the mock recorder for MockFrameConsumer.
type MockFrameConsumerMockRecorder struct {
	mock *MockFrameConsumer
}

// NewMockFrameConsumer creates a new mock instance.
func NewMockFrameConsumer(ctrl *gomock.Controller) *MockFrameConsumer {
	mock := &MockFrameConsumer{ctrl: ctrl}
	mock.recorder = &MockFrameConsumerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockFrameConsumer) EXPECT() *MockFrameConsumerMockRecorder {
	return m.recorder
}

// ConsumeFrame mocks base method.
func (m *MockFrameConsumer) ConsumeFrame(commands []DrawCommand, liveLinkCount uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ConsumeFrame", commands, liveLinkCount)
}

// ConsumeFrame indicates an expected call of ConsumeFrame.
func (mr *MockFrameConsumerMockRecorder) ConsumeFrame(commands, liveLinkCount interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ConsumeFrame", reflect.TypeOf((*MockFrameConsumer)(nil).ConsumeFrame), commands, liveLinkCount)
}
