package authflow_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authflow "github.com/safecheck/go-authflow"
)

// MockTransport implements authflow.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SendOTP(ctx context.Context, email string) authflow.Result[authflow.OTPDispatch] {
	args := m.Called(ctx, email)
	return args.Get(0).(authflow.Result[authflow.OTPDispatch])
}

func (m *MockTransport) VerifyOTP(ctx context.Context, email, otp string) authflow.Result[authflow.Identity] {
	args := m.Called(ctx, email, otp)
	return args.Get(0).(authflow.Result[authflow.Identity])
}

func (m *MockTransport) Signup(ctx context.Context, req authflow.SignupRequest) authflow.Result[authflow.Identity] {
	args := m.Called(ctx, req)
	return args.Get(0).(authflow.Result[authflow.Identity])
}

// MockHistoryRecorder implements authflow.HistoryRecorder
type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) SaveHistory(ctx context.Context, entry authflow.HistoryEntry) authflow.Result[authflow.HistoryReceipt] {
	args := m.Called(ctx, entry)
	return args.Get(0).(authflow.Result[authflow.HistoryReceipt])
}

// blockingTransport lets tests park an operation mid-flight and release it
// once the session has moved on. Only the legs listed in block wait on the
// release channel; everything else returns immediately.
type blockingTransport struct {
	release chan struct{}
	started chan struct{}
	block   map[string]bool
	verify  authflow.Result[authflow.Identity]
	send    authflow.Result[authflow.OTPDispatch]
}

func newBlockingTransport(block ...string) *blockingTransport {
	blocked := map[string]bool{}
	for _, leg := range block {
		blocked[leg] = true
	}
	return &blockingTransport{
		release: make(chan struct{}),
		started: make(chan struct{}, 2),
		block:   blocked,
	}
}

func (t *blockingTransport) wait(leg string) {
	if t.block[leg] {
		t.started <- struct{}{}
		<-t.release
	}
}

func (t *blockingTransport) SendOTP(ctx context.Context, email string) authflow.Result[authflow.OTPDispatch] {
	t.wait("send")
	return t.send
}

func (t *blockingTransport) VerifyOTP(ctx context.Context, email, otp string) authflow.Result[authflow.Identity] {
	t.wait("verify")
	return t.verify
}

func (t *blockingTransport) Signup(ctx context.Context, req authflow.SignupRequest) authflow.Result[authflow.Identity] {
	t.wait("signup")
	return t.verify
}
