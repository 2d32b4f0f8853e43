// Package session persists the identity session created when an authentication
// code is exchanged, so a restarted client can restore the signed-in user.
//
// # Binary encoding
//
// Sessions are stored as a compact binary blob led by a schema version byte.
// Blobs carrying any other version are rejected rather than guessed at.
//
// # Architecture boundaries
//
// This package owns the [Store] implementations and the [Session] model. It does
// NOT exchange codes, verify tokens or decide who the current user is; those belong
// to the identity package.
//
// # What this package must NOT do
//
//   - Import goOnboard, identity or jwt (no upward imports).
//   - Log or otherwise expose token values.
package session
