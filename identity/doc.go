// Package identity is a reference goOnboard.IdentityManager. It exchanges an
// authentication code at an OAuth token endpoint, verifies the returned id token,
// persists the session and tracks the current user.
//
// # Architecture boundaries
//
// The exchange itself sits behind [Exchanger]; [HTTPExchanger] is the production
// implementation. Sessions go to a session.Store and failed exchanges are counted
// per client in Redis when a client is configured with [WithRedis].
//
// # What this package must NOT do
//
//   - Call the completion passed to ValidateAuthCode on the caller's goroutine.
//   - Log token values or authentication codes.
package identity
