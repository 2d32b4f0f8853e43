package goOnboard

import (
	"errors"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		value string
		want  error
	}{
		{value: "", want: ValidationMissing},
		{value: "   ", want: ValidationMissing},
		{value: "\t\n", want: ValidationMissing},
		{value: "A", want: ValidationLessThanThree},
		{value: " Al ", want: ValidationLessThanThree},
		{value: "Øy", want: ValidationLessThanThree},
		{value: "e\u0301\u0301e", want: ValidationLessThanThree},
		{value: "A\U0001F1F3\U0001F1F4", want: ValidationLessThanThree},
		{value: "Zoe\u0301", want: nil},
		{value: "Ada", want: nil},
		{value: "  Åse  ", want: nil},
		{value: "Bjørnstjerne", want: nil},
	}
	for _, tt := range tests {
		if got := ValidateName(tt.value); got != tt.want {
			t.Fatalf("ValidateName(%q): expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		value string
		want  error
	}{
		{value: "", want: ValidationMissing},
		{value: "  ", want: ValidationMissing},
		{value: "abcd-ef-gh", want: ValidationNumberInvalid},
		{value: "1990/01/02", want: ValidationNumberInvalid},
		{value: "1990-01", want: ValidationNumberInvalid},
		{value: "1990-01-", want: ValidationNumberInvalid},
		{value: "1990", want: ValidationNumberInvalid},
		{value: "1990-01-02-03", want: ValidationDateInvalid},
		{value: "1990-13-01", want: ValidationDateInvalid},
		{value: "1990-02-30", want: ValidationDateInvalid},
		{value: "1990-1-2", want: ValidationDateInvalid},
		{value: "0000-01-01", want: ValidationDateInvalid},
		{value: "1899-12-31", want: ValidationDateInvalid},
		{value: "1990-01-02", want: nil},
		{value: " 2000-02-29 ", want: nil},
	}
	for _, tt := range tests {
		_, err := ParseBirthday(tt.value)
		if err != tt.want {
			t.Fatalf("ParseBirthday(%q): expected %v, got %v", tt.value, tt.want, err)
		}
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		now  time.Time
		want int
	}{
		{now: time.Date(2015, time.June, 14, 12, 0, 0, 0, time.UTC), want: 14},
		{now: time.Date(2015, time.June, 15, 0, 0, 0, 0, time.UTC), want: 15},
		{now: time.Date(2015, time.December, 1, 0, 0, 0, 0, time.UTC), want: 15},
		{now: time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC), want: -2},
	}
	for _, tt := range tests {
		if got := AgeAt(birth, tt.now); got != tt.want {
			t.Fatalf("AgeAt(%v): expected %d, got %d", tt.now, tt.want, got)
		}
	}
}

func TestBirthdayRulesAgeThreshold(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	rules := BirthdayRules{Policy: FixedAgePolicy(15), Locale: mustTag("nb-NO"), Now: fixedClock(now)}

	tests := []struct {
		value string
		want  error
	}{
		{value: "2009-03-10", want: nil},
		{value: "2009-03-11", want: ValidationTooYoung},
		{value: "1980-01-01", want: nil},
		{value: "2030-01-01", want: ValidationTooYoung},
		{value: "2009-02-31", want: ValidationDateInvalid},
		{value: "", want: ValidationMissing},
	}
	for _, tt := range tests {
		if got := rules.Validate(tt.value); got != tt.want {
			t.Fatalf("Validate(%q): expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestRegionalAgePolicy(t *testing.T) {
	p := RegionalAgePolicy{Default: 16, ByRegion: map[string]int{"NO": 15, "SE": 13}}

	if got := p.MinimumAge(mustTag("nb-NO")); got != 15 {
		t.Fatalf("expected 15 for NO, got %d", got)
	}
	if got := p.MinimumAge(mustTag("sv-SE")); got != 13 {
		t.Fatalf("expected 13 for SE, got %d", got)
	}
	if got := p.MinimumAge(mustTag("de-DE")); got != 16 {
		t.Fatalf("expected default 16, got %d", got)
	}
	// nb and sv imply NO and SE but name no region.
	for _, locale := range []string{"nb", "sv", "en"} {
		if got := p.MinimumAge(mustTag(locale)); got != 16 {
			t.Fatalf("expected default 16 for regionless %q, got %d", locale, got)
		}
	}
}

func TestRegionlessLocaleUsesDefaultAge(t *testing.T) {
	rules := BirthdayRules{
		Policy: RegionalAgePolicy{Default: 16, ByRegion: map[string]int{"NO": 13, "US": 13}},
		Locale: mustTag("en"),
		Now:    fixedClock(time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)),
	}
	if got := rules.Validate("2012-01-01"); got != ValidationTooYoung {
		t.Fatalf("expected ValidationTooYoung for a 14 year old under default 16, got %v", got)
	}
	rules.Locale = mustTag("en-US")
	if got := rules.Validate("2012-01-01"); got != nil {
		t.Fatalf("expected en-US to use its regional minimum, got %v", got)
	}
}

func TestValidationErrorsAreErrors(t *testing.T) {
	var err error = ValidationTooYoung
	var ve ValidationError
	if !errors.As(err, &ve) || ve != ValidationTooYoung {
		t.Fatalf("expected errors.As to recover ValidationTooYoung, got %v", ve)
	}
}

func TestValidationErrorKeysAreDistinct(t *testing.T) {
	all := []ValidationError{
		ValidationMissing,
		ValidationLessThanThree,
		ValidationDateInvalid,
		ValidationNumberInvalid,
		ValidationTooYoung,
	}
	seen := map[string]ValidationError{}
	for _, e := range all {
		key := e.messageKey()
		if other, dup := seen[key]; dup {
			t.Fatalf("%v and %v share key %q", e, other, key)
		}
		seen[key] = e
	}
}
