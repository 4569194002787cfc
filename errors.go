package authflow

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeNoPendingAuth      = "NO_PENDING_AUTH"
	textCodeOperationInFlight  = "OPERATION_IN_FLIGHT"
	textCodeStaleResponse      = "STALE_AUTH_RESPONSE"
	textCodeInvalidTransition  = "INVALID_SESSION_TRANSITION"
	textCodeRestoreRejected    = "RESTORE_VALIDATION_REJECTED"
	textCodeSessionUnavailable = "SESSION_STORE_UNAVAILABLE"
	textCodeServiceUnhealthy   = "AUTH_SERVICE_UNHEALTHY"
)

// ErrNoPendingAuth is returned when Verify runs with no code request on file.
var ErrNoPendingAuth = goerrors.New("no pending code request", goerrors.CategoryValidation).
	WithTextCode(textCodeNoPendingAuth).
	WithCode(goerrors.CodeBadRequest)

// ErrOperationInFlight is returned when a second operation starts while one
// is still awaiting the remote service.
var ErrOperationInFlight = goerrors.New("another auth operation is in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeOperationInFlight).
	WithCode(goerrors.CodeConflict)

// ErrStaleResponse marks a remote response that arrived after the session
// moved on; its payload is discarded rather than applied.
var ErrStaleResponse = goerrors.New("auth response no longer applies", goerrors.CategoryConflict).
	WithTextCode(textCodeStaleResponse).
	WithCode(goerrors.CodeConflict)

// ErrInvalidTransition is returned when a requested session state change is
// not in the transition graph.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrRestoreRejected is returned when the restore validator refuses a stored
// identity.
var ErrRestoreRejected = goerrors.New("stored session failed validation", goerrors.CategoryAuth).
	WithTextCode(textCodeRestoreRejected)

// ErrStoreUnavailable wraps session store failures surfaced to callers.
var ErrStoreUnavailable = goerrors.New("session store unavailable", goerrors.CategoryInternal).
	WithTextCode(textCodeSessionUnavailable)

// ErrServiceUnhealthy is returned by health checks when the remote service
// does not answer with a 2xx.
var ErrServiceUnhealthy = goerrors.New("auth service unhealthy", goerrors.CategoryOperation).
	WithTextCode(textCodeServiceUnhealthy)
