package goOnboard

// RequiredField is a profile attribute id as sent by the backend.
type RequiredField string

const (
	RequiredGivenName  RequiredField = "names.givenName"
	RequiredFamilyName RequiredField = "names.familyName"
	RequiredBirthday   RequiredField = "birthday"
)

// SupportedRequiredField is a required field this package knows how to render and
// validate. Every switch over it is exhaustive.
type SupportedRequiredField uint8

const (
	FieldGivenName SupportedRequiredField = iota
	FieldFamilyName
	FieldBirthday
)

// Supported maps f to its supported counterpart.
func (f RequiredField) Supported() (SupportedRequiredField, bool) {
	switch f {
	case RequiredGivenName:
		return FieldGivenName, true
	case RequiredFamilyName:
		return FieldFamilyName, true
	case RequiredBirthday:
		return FieldBirthday, true
	}
	return 0, false
}

// RawValue returns the backend id of the field.
func (f SupportedRequiredField) RawValue() string {
	switch f {
	case FieldGivenName:
		return string(RequiredGivenName)
	case FieldFamilyName:
		return string(RequiredFamilyName)
	case FieldBirthday:
		return string(RequiredBirthday)
	}
	panic("goOnboard: unknown SupportedRequiredField")
}

func (f SupportedRequiredField) String() string { return f.RawValue() }

// SupportedFields keeps the fields of required this package supports, in their
// original order. Unknown fields are dropped silently.
func SupportedFields(required []RequiredField) []SupportedRequiredField {
	out := make([]SupportedRequiredField, 0, len(required))
	for _, f := range required {
		if s, ok := f.Supported(); ok {
			out = append(out, s)
		}
	}
	return out
}
