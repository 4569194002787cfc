package authflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authflow "github.com/safecheck/go-authflow"
)

func TestRemoteActivitySinkForwardsEntry(t *testing.T) {
	ctx := context.Background()
	recorder := &MockHistoryRecorder{}
	recorder.On("SaveHistory", ctx, mock.MatchedBy(func(entry authflow.HistoryEntry) bool {
		return entry.UserID == "1" &&
			entry.Action == "auth.login.success" &&
			entry.Details["email"] == "a@x.com"
	})).Return(authflow.Ok(authflow.HistoryReceipt{ID: "h1"}, ""))

	sink := authflow.NewRemoteActivitySink(recorder)

	err := sink.Record(ctx, authflow.ActivityEvent{
		EventType:  authflow.ActivityEventLoginSuccess,
		UserID:     "1",
		Email:      "a@x.com",
		OccurredAt: time.Now(),
	})

	assert.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestRemoteActivitySinkSkipsAnonymousEvents(t *testing.T) {
	recorder := &MockHistoryRecorder{}
	sink := authflow.NewRemoteActivitySink(recorder)

	err := sink.Record(context.Background(), authflow.ActivityEvent{
		EventType: authflow.ActivityEventOTPRejected,
		Email:     "a@x.com",
	})

	assert.NoError(t, err)
	recorder.AssertNotCalled(t, "SaveHistory", mock.Anything, mock.Anything)
}

func TestRemoteActivitySinkSurfacesRemoteFailure(t *testing.T) {
	ctx := context.Background()
	recorder := &MockHistoryRecorder{}
	recorder.On("SaveHistory", ctx, mock.Anything).
		Return(authflow.Fail[authflow.HistoryReceipt]("No matching plans found"))

	sink := authflow.NewRemoteActivitySink(recorder)

	err := sink.Record(ctx, authflow.ActivityEvent{
		EventType: authflow.ActivityEventLogout,
		UserID:    "1",
	})

	assert.Error(t, err)
}

func TestManagerEmitsToSink(t *testing.T) {
	ctx := context.Background()

	var events []authflow.ActivityEvent
	sink := authflow.ActivitySinkFunc(func(ctx context.Context, event authflow.ActivityEvent) error {
		events = append(events, event)
		return nil
	})

	transport := &MockTransport{}
	transport.On("SendOTP", ctx, "a@x.com").Return(okSend("a@x.com"))
	transport.On("VerifyOTP", ctx, "a@x.com", "123456").
		Return(authflow.Ok(testIdentity(), ""))

	store := authflow.NewMemoryStore()
	m := authflow.NewManager(transport, store, authflow.WithManagerActivitySink(sink))
	m.Restore(ctx)

	m.Login(ctx, "a@x.com")
	m.Verify(ctx, "123456")
	m.Logout(ctx)

	types := make([]authflow.ActivityEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}

	assert.Equal(t, []authflow.ActivityEventType{
		authflow.ActivityEventOTPRequested,
		authflow.ActivityEventLoginSuccess,
		authflow.ActivityEventLogout,
	}, types)
}

func TestSinkFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()

	sink := authflow.ActivitySinkFunc(func(ctx context.Context, event authflow.ActivityEvent) error {
		return assert.AnError
	})

	transport := &MockTransport{}
	transport.On("SendOTP", ctx, "a@x.com").Return(okSend("a@x.com"))

	m := authflow.NewManager(transport, authflow.NewMemoryStore(),
		authflow.WithManagerActivitySink(sink))
	m.Restore(ctx)

	res := m.Login(ctx, "a@x.com")
	assert.True(t, res.Success)
}
