package authflow

import (
	"context"
	"sync"
	"time"
)

// Manager owns the in-progress login attempt: it sequences transport calls,
// commits successful verifications to the Store, and exposes the current
// session state to consumers. Construct one per installation at startup and
// inject it; there is no package-level instance.
type Manager struct {
	transport         Transport
	store             Store
	logger            Logger
	sink              ActivitySink
	validateOnRestore bool
	restoreValidator  RestoreValidator
	now               func() time.Time

	mu           sync.Mutex
	state        SessionState
	pendingEmail string
	identity     *Identity
	busy         bool
	initializing bool
	// epoch invalidates in-flight responses once the session moves on.
	epoch        uint64
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerActivitySink sets the sink that receives auth audit events.
func WithManagerActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithManagerClock injects a custom clock (useful for tests).
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithRestoreValidation enables the validate-on-restore policy: a stored
// identity is handed to validator before being trusted at startup, and a
// rejection falls back to an anonymous session with the store cleared.
// Without this option restored sessions are trusted as read.
func WithRestoreValidation(validator RestoreValidator) ManagerOption {
	return func(m *Manager) {
		m.validateOnRestore = validator != nil
		m.restoreValidator = validator
	}
}

// NewManager returns a Manager in the initializing state. Call Restore once
// to load any persisted session before serving consumers.
func NewManager(transport Transport, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		transport:    transport,
		store:        store,
		logger:       defLogger{},
		sink:         noopActivitySink{},
		now:          time.Now,
		state:        StateAnonymous,
		initializing: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Restore performs the one-time startup read of the Store. A well-formed
// record moves the session straight to authenticated without contacting the
// remote service (unless restore validation is enabled); anything else lands
// in anonymous. Restore never fails: a broken store reads as empty.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	if !m.initializing {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	identity, err := m.store.Read(ctx)
	if err != nil {
		m.logger.Warn("session restore read failed: %v", err)
		identity = nil
	}

	if identity != nil && m.validateOnRestore && m.restoreValidator != nil {
		if err := m.restoreValidator(ctx, *identity); err != nil {
			m.logger.Warn("restored session rejected: %v", err)
			if cerr := m.store.Clear(ctx); cerr != nil {
				m.logger.Error("clearing rejected session: %v", cerr)
			}
			identity = nil
		}
	}

	m.mu.Lock()
	if identity != nil {
		m.state = StateAuthenticated
		m.identity = identity
	} else {
		m.state = StateAnonymous
		m.identity = nil
	}
	m.initializing = false
	m.mu.Unlock()

	if identity != nil {
		m.emit(ctx, ActivityEventRestore, identity.ID, identity.Email, nil)
	}
}

// Login requests a one-time code for email. On success the session enters
// otp-pending for that email, replacing any previous pending request; the
// prior identity, if any, is left untouched until the new login completes.
func (m *Manager) Login(ctx context.Context, email string) Result[OTPDispatch] {
	if err := (loginPayload{Email: email}).Validate(); err != nil {
		return FailErr[OTPDispatch](err, msgSendOTPFailed)
	}

	epoch, ok := m.begin()
	if !ok {
		return Fail[OTPDispatch](ErrOperationInFlight.Error())
	}
	defer m.end()

	res := m.transport.SendOTP(ctx, email)
	if !res.Success {
		m.emit(ctx, ActivityEventOTPRejected, "", email, map[string]any{
			"message": res.MessageOr(msgSendOTPFailed),
		})
		return Fail[OTPDispatch](res.MessageOr(msgSendOTPFailed))
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.logger.Debug("discarding stale send-otp response for %s", email)
		return Fail[OTPDispatch](ErrStaleResponse.Error())
	}
	if !canTransition(m.state, StateOTPPending) {
		m.mu.Unlock()
		return Fail[OTPDispatch](ErrInvalidTransition.Error())
	}
	m.state = StateOTPPending
	m.pendingEmail = email
	m.mu.Unlock()

	dispatch := OTPDispatch{Email: email}
	if res.Data != nil {
		dispatch = *res.Data
		if dispatch.Email == "" {
			dispatch.Email = email
		}
	}

	m.emit(ctx, ActivityEventOTPRequested, dispatch.UserID, email, nil)

	return Ok(dispatch, res.Message)
}

// Verify submits the code for the pending email. Success commits the
// returned identity to the Store and enters authenticated; failure keeps the
// pending request so the user can retry with a fresh code.
func (m *Manager) Verify(ctx context.Context, otp string) Result[Identity] {
	if err := (verifyPayload{OTP: otp}).Validate(); err != nil {
		return FailErr[Identity](err, msgVerifyFailed)
	}

	epoch, ok := m.begin()
	if !ok {
		return Fail[Identity](ErrOperationInFlight.Error())
	}
	defer m.end()

	m.mu.Lock()
	email := m.pendingEmail
	pending := m.state == StateOTPPending && email != ""
	m.mu.Unlock()

	if !pending {
		return Fail[Identity](ErrNoPendingAuth.Error())
	}

	res := m.transport.VerifyOTP(ctx, email, otp)
	if !res.Success {
		m.emit(ctx, ActivityEventLoginFailure, "", email, map[string]any{
			"message": res.MessageOr(msgVerifyFailed),
		})
		return Fail[Identity](res.MessageOr(msgVerifyFailed))
	}

	if res.Data == nil {
		m.logger.Error("verify succeeded without an identity payload")
		return Fail[Identity](msgMalformedReply)
	}

	identity := *res.Data
	if identity.Email == "" {
		identity.Email = email
	}

	// Commit under lock so a logout racing the store write cannot leave a
	// record behind for a session that no longer exists.
	m.mu.Lock()
	if m.epoch != epoch || m.state != StateOTPPending || m.pendingEmail != email {
		m.mu.Unlock()
		m.logger.Debug("discarding stale verify response for %s", email)
		return Fail[Identity](ErrStaleResponse.Error())
	}

	if err := m.store.Write(ctx, &identity); err != nil {
		// The code is already consumed remotely; keep the session usable and
		// accept that it will not survive a restart.
		m.logger.Error("persisting session record: %v", err)
	}

	m.state = StateAuthenticated
	m.identity = &identity
	m.pendingEmail = ""
	m.mu.Unlock()

	m.emit(ctx, ActivityEventLoginSuccess, identity.ID, identity.Email, nil)

	return Ok(identity, res.Message)
}

// Signup registers a new account. It never changes session state: a fresh
// account still has to run Login/Verify to be signed in.
func (m *Manager) Signup(ctx context.Context, req SignupRequest) Result[Identity] {
	if err := req.Validate(); err != nil {
		return FailErr[Identity](err, msgSignupFailed)
	}

	_, ok := m.begin()
	if !ok {
		return Fail[Identity](ErrOperationInFlight.Error())
	}
	defer m.end()

	res := m.transport.Signup(ctx, req)
	if !res.Success {
		res.Data = nil
		m.emit(ctx, ActivityEventSignupFailure, "", req.Email, map[string]any{
			"message": res.MessageOr(msgSignupFailed),
		})
		return Fail[Identity](res.MessageOr(msgSignupFailed))
	}

	userID := ""
	if res.Data != nil {
		userID = res.Data.ID
	}
	m.emit(ctx, ActivityEventSignupSuccess, userID, req.Email, nil)

	return res
}

// Logout drops the session: in-memory state, pending request, and the
// persisted record. It is local-only and cannot fail; any response still in
// flight when Logout runs is discarded on arrival.
func (m *Manager) Logout(ctx context.Context) Result[Identity] {
	m.mu.Lock()
	previous := m.identity
	m.epoch++
	m.state = StateAnonymous
	m.pendingEmail = ""
	m.identity = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("clearing session store on logout: %v", err)
	}

	userID, email := "", ""
	if previous != nil {
		userID, email = previous.ID, previous.Email
	}
	m.emit(ctx, ActivityEventLogout, userID, email, nil)

	return Result[Identity]{Success: true, Message: "Signed out"}
}

// State returns the current session state.
func (m *Manager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (m *Manager) Identity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil {
		return nil
	}
	cp := *m.identity
	return &cp
}

// PendingEmail returns the email awaiting verification, or "".
func (m *Manager) PendingEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingEmail
}

// Busy reports whether a login/verify/signup call is in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Initializing reports whether the startup Restore has yet to complete, so
// consumers can defer rendering until the session is known.
func (m *Manager) Initializing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initializing
}

func (m *Manager) begin() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy {
		return 0, false
	}
	m.busy = true
	return m.epoch, true
}

func (m *Manager) end() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

func (m *Manager) emit(ctx context.Context, eventType ActivityEventType, userID, email string, metadata map[string]any) {
	sink := normalizeActivitySink(m.sink)
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Email:      email,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}
