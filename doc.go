// Package authflow implements the client side of SafeCheck's passwordless
// login protocol: request a one-time code for an email address, verify the
// code, and keep the resulting identity around between process restarts.
//
// Session lifecycle:
//   - A Manager owns a small state machine (anonymous, otp-pending,
//     authenticated). Login moves anonymous -> otp-pending, Verify moves
//     otp-pending -> authenticated and persists the identity, Logout always
//     returns to anonymous and clears the store. Signup registers an account
//     remotely without touching session state; a fresh account still has to
//     complete the code flow before it is signed in.
//   - Operations are serialized per Manager: a second Login/Verify/Signup
//     while one is in flight is rejected locally. Responses that arrive after
//     the session moved on (logout, a new login) are discarded.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter fed by the Manager for
//     login, verification, signup and logout outcomes. RemoteActivitySink
//     forwards events to the service's history endpoint; sink errors are
//     logged and never fail the triggering operation.
//
// Persistence:
//   - Store is a one-record surface. The bun/sqlite implementation survives
//     restarts within the same installation; MemoryStore backs tests and
//     ephemeral processes. A store read that cannot be parsed is treated as
//     an empty store, so startup always lands in a defined state.
package authflow
