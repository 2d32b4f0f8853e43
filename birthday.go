package goOnboard

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// BirthdayLayout is the input format of the birthday field.
const BirthdayLayout = "2006-01-02"

// MinBirthYear is the earliest birth year accepted as a real date.
const MinBirthYear = 1900

// AgePolicy supplies the minimum age a user must have to complete onboarding.
type AgePolicy interface {
	MinimumAge(locale language.Tag) int
}

// FixedAgePolicy applies the same minimum age everywhere.
type FixedAgePolicy int

func (p FixedAgePolicy) MinimumAge(language.Tag) int { return int(p) }

// RegionalAgePolicy picks a minimum age by the locale's explicit region, falling
// back to Default for unknown or absent regions. Regions x/text only guesses from
// the language ("nb" → NO) do not count.
type RegionalAgePolicy struct {
	Default  int
	ByRegion map[string]int
}

func (p RegionalAgePolicy) MinimumAge(locale language.Tag) int {
	region, conf := locale.Region()
	if conf == language.Exact || conf == language.High {
		if age, ok := p.ByRegion[region.String()]; ok {
			return age
		}
	}
	return p.Default
}

// BirthdayRules validates birthday input against an age policy.
type BirthdayRules struct {
	Policy AgePolicy
	Locale language.Tag
	Now    func() time.Time
}

// Validate checks value in order: missing, number format, calendar date, age.
func (r BirthdayRules) Validate(value string) error {
	date, err := ParseBirthday(value)
	if err != nil {
		return err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	minAge := 0
	if r.Policy != nil {
		minAge = r.Policy.MinimumAge(r.Locale)
	}
	if AgeAt(date, now()) < minAge {
		return ValidationTooYoung
	}
	return nil
}

// ParseBirthday parses a YYYY-MM-DD date. It returns ValidationMissing for blank
// input, ValidationNumberInvalid for non-numeric or partial input and
// ValidationDateInvalid for anything that is not a real calendar date.
func ParseBirthday(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, ValidationMissing
	}
	for _, r := range trimmed {
		if (r < '0' || r > '9') && r != '-' {
			return time.Time{}, ValidationNumberInvalid
		}
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) > 3 {
		return time.Time{}, ValidationDateInvalid
	}
	if len(parts) < 3 {
		return time.Time{}, ValidationNumberInvalid
	}
	for _, p := range parts {
		if p == "" {
			return time.Time{}, ValidationNumberInvalid
		}
	}

	date, err := time.Parse(BirthdayLayout, trimmed)
	if err != nil || date.Year() < MinBirthYear {
		return time.Time{}, ValidationDateInvalid
	}
	return date, nil
}

// AgeAt returns the number of whole years between birth and now. A birth date in
// the future yields a negative age.
func AgeAt(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}
