// Package i18n loads the onboarding message catalogs and resolves keys for a locale.
//
// Catalogs are YAML files named locales/<BCP 47 tag>.yaml, embedded at build time.
// A lookup matches the requested locale against the available catalogs with
// golang.org/x/text/language and falls back to [BaseLocale] per key.
//
// [Bundle] satisfies goOnboard.Localizer.
package i18n
