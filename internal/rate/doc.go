// Package rate throttles authentication-code exchanges per client with Redis
// fixed-window counters.
//
// # Window semantics
//
// INCR + EXPIRE on the first failure of a window. Once MaxAttempts failures are
// recorded, Check refuses further exchanges until the window key expires or Reset
// is called after a success. Keys are <prefix>:ax:<client>.
//
// # What this package must NOT do
//
//   - Decide what a client key is; callers pass it in.
//   - Be imported outside the goOnboard module.
package rate
