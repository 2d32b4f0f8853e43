// Package goOnboard provides the validation and presentation core of an identity SDK's
// onboarding screens: authentication-code validation and the required profile fields
// (given name, family name, birthday) a backend can demand before account completion.
//
// An [Engine] is built once through [Builder.Build] and then vends short-lived,
// per-screen units: [RequiredFields], [AuthCodeValidator] and [CheckInbox]. Those units
// hold immutable configuration and are dropped together with the screen.
//
// # Architecture boundaries
//
// goOnboard owns validation rules, localized labels and the privacy-notice template with
// its two link spans. It does NOT perform network I/O itself: the code exchange is
// delegated to an [IdentityManager] (see package identity for a reference
// implementation), string lookup to a [Localizer] (see package i18n) and the minimum age
// to an [AgePolicy].
//
// # What this package must NOT do
//
//   - Retry, back off or time out the code exchange; that is the identity manager's policy.
//   - Surface templating problems as errors; the privacy notice degrades to plain text.
//   - Render views or depend on a UI toolkit.
package goOnboard
