package authflow

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Transport issues the remote auth operations. Implementations never return
// Go errors for remote or network failures; every outcome is folded into the
// Result envelope so callers have a single failure shape to deal with.
type Transport interface {
	SendOTP(ctx context.Context, email string) Result[OTPDispatch]
	VerifyOTP(ctx context.Context, email, otp string) Result[Identity]
	Signup(ctx context.Context, req SignupRequest) Result[Identity]
}

// HistoryRecorder forwards audit entries to the remote history endpoint.
type HistoryRecorder interface {
	SaveHistory(ctx context.Context, entry HistoryEntry) Result[HistoryReceipt]
}

// Store is the durable surface for at most one session record. Read returns
// (nil, nil) for an empty store; implementations must treat unparsable data
// the same as no data.
type Store interface {
	Read(ctx context.Context) (*Identity, error)
	Write(ctx context.Context, identity *Identity) error
	Clear(ctx context.Context) error
}

// Config holds authflow options
type Config interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetStorePath() string
	GetValidateOnRestore() bool
}

// RestoreValidator decides whether a restored identity is still acceptable.
// Only consulted when the validate-on-restore policy is enabled.
type RestoreValidator func(ctx context.Context, identity Identity) error

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHFLOW "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHFLOW "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
