package authflow

// SessionState is the Manager's position in the login flow.
type SessionState string

const (
	// StateAnonymous means no pending code request and no identity.
	StateAnonymous SessionState = "anonymous"
	// StateOTPPending means a code was dispatched and verification is awaited.
	StateOTPPending SessionState = "otp_pending"
	// StateAuthenticated means an identity is held and persisted.
	StateAuthenticated SessionState = "authenticated"
)

// sessionTransitions is the legal transition graph. Logout is representable
// from every state, a code request from every state (a signed-in user starting
// a new login implicitly abandons the old session), and authentication only
// from a pending request.
var sessionTransitions = map[SessionState]map[SessionState]struct{}{
	StateAnonymous: {
		StateOTPPending: {},
		StateAnonymous:  {},
	},
	StateOTPPending: {
		StateOTPPending:    {},
		StateAuthenticated: {},
		StateAnonymous:     {},
	},
	StateAuthenticated: {
		StateOTPPending: {},
		StateAnonymous:  {},
	},
}

func canTransition(from, to SessionState) bool {
	if allowed, ok := sessionTransitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
