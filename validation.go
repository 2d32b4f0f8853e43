package goOnboard

import (
	"strings"

	"github.com/rivo/uniseg"
)

// ValidationError is the reason a required field value is rejected. It is recoverable
// and scoped to one field.
type ValidationError uint8

const (
	ValidationMissing ValidationError = iota + 1
	ValidationLessThanThree
	ValidationDateInvalid
	ValidationNumberInvalid
	ValidationTooYoung
)

// minNameLength is the shortest accepted given or family name, in runes.
const minNameLength = 3

func (e ValidationError) Error() string {
	switch e {
	case ValidationMissing:
		return "value missing"
	case ValidationLessThanThree:
		return "value shorter than three characters"
	case ValidationDateInvalid:
		return "date invalid"
	case ValidationNumberInvalid:
		return "number invalid"
	case ValidationTooYoung:
		return "below minimum age"
	}
	return "unknown validation error"
}

// messageKey returns the localization key for e. No two variants share a key.
func (e ValidationError) messageKey() string {
	switch e {
	case ValidationMissing:
		return "RequiredField.error.missing"
	case ValidationLessThanThree:
		return "RequiredField.error.lessThanThree"
	case ValidationDateInvalid:
		return "RequiredField.error.birthdateInvalid"
	case ValidationNumberInvalid:
		return "RequiredField.error.numberInvalid"
	case ValidationTooYoung:
		return "PasswordScreenString.ageLimit"
	}
	panic("goOnboard: unknown ValidationError")
}

// ValidateName checks a given or family name. Missing wins over length, which
// counts user-perceived characters (grapheme clusters), not runes.
func ValidateName(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ValidationMissing
	}
	if uniseg.GraphemeClusterCount(trimmed) < minNameLength {
		return ValidationLessThanThree
	}
	return nil
}
