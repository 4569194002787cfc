package authflow

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventOTPRequested  ActivityEventType = "auth.otp.requested"
	ActivityEventOTPRejected   ActivityEventType = "auth.otp.rejected"
	ActivityEventLoginSuccess  ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure  ActivityEventType = "auth.login.failure"
	ActivityEventSignupSuccess ActivityEventType = "auth.signup.success"
	ActivityEventSignupFailure ActivityEventType = "auth.signup.failure"
	ActivityEventLogout        ActivityEventType = "auth.logout"
	ActivityEventRestore       ActivityEventType = "auth.session.restored"
)

// ActivityEvent captures audit-friendly information about an auth action.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Email      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort; the Manager logs failures and moves on.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

// RemoteActivitySink forwards activity events to the service's history
// endpoint through a HistoryRecorder (typically the Client).
type RemoteActivitySink struct {
	recorder HistoryRecorder
}

var _ ActivitySink = (*RemoteActivitySink)(nil)

func NewRemoteActivitySink(recorder HistoryRecorder) *RemoteActivitySink {
	return &RemoteActivitySink{recorder: recorder}
}

// Record implements ActivitySink. Events without a user ID are skipped: the
// history endpoint only accepts entries tied to an account.
func (s *RemoteActivitySink) Record(ctx context.Context, event ActivityEvent) error {
	if s.recorder == nil || event.UserID == "" {
		return nil
	}

	details := map[string]any{}
	for k, v := range event.Metadata {
		details[k] = v
	}
	if event.Email != "" {
		details["email"] = event.Email
	}
	if !event.OccurredAt.IsZero() {
		details["occurred_at"] = event.OccurredAt.Format(time.RFC3339)
	}

	res := s.recorder.SaveHistory(ctx, HistoryEntry{
		UserID:  event.UserID,
		Action:  string(event.EventType),
		Details: details,
	})
	if !res.Success {
		return ErrServiceUnhealthy.WithMetadata(map[string]any{
			"action":  string(event.EventType),
			"message": res.Message,
		})
	}

	return nil
}
