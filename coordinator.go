package goOnboard

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"
)

type requiredFieldsOptions struct {
	privacy   PrivacyConfig
	agePolicy AgePolicy
	now       func() time.Time
	metrics   *Metrics
	logger    *slog.Logger
}

// RequiredFields drives the required-fields screen: which fields to show, their
// labels, per-field validation and the privacy notice. It is immutable after
// construction and safe for concurrent reads.
type RequiredFields struct {
	fields   []SupportedRequiredField
	l10n     LocalizationContext
	birthday BirthdayRules
	privacy  PrivacyConfig
	metrics  *Metrics
	logger   *slog.Logger
}

// NewRequiredFields builds a coordinator outside an Engine. A zero privacy config
// selects the default documents, a nil policy accepts any valid date and a nil now
// defaults to time.Now.
func NewRequiredFields(fields []RequiredField, l10n LocalizationContext, privacy PrivacyConfig, policy AgePolicy, now func() time.Time) *RequiredFields {
	if privacy == (PrivacyConfig{}) {
		privacy = defaultConfig().Privacy
	}
	return newRequiredFields(fields, l10n, requiredFieldsOptions{
		privacy:   privacy,
		agePolicy: policy,
		now:       now,
	})
}

func newRequiredFields(fields []RequiredField, l10n LocalizationContext, opts requiredFieldsOptions) *RequiredFields {
	logger := opts.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RequiredFields{
		fields: SupportedFields(fields),
		l10n:   l10n,
		birthday: BirthdayRules{
			Policy: opts.agePolicy,
			Locale: l10n.Locale(),
			Now:    opts.now,
		},
		privacy: opts.privacy,
		metrics: opts.metrics,
		logger:  logger,
	}
}

// Count returns the number of supported fields.
func (r *RequiredFields) Count() int { return len(r.fields) }

// FieldAt returns the i-th supported field. Callers bound i by Count; an out-of-range
// index panics like a slice access.
func (r *RequiredFields) FieldAt(i int) SupportedRequiredField { return r.fields[i] }

// Fields returns a copy of the supported fields in display order.
func (r *RequiredFields) Fields() []SupportedRequiredField {
	out := make([]SupportedRequiredField, len(r.fields))
	copy(out, r.fields)
	return out
}

// RequiredFieldID returns the backend id of FieldAt(i).
func (r *RequiredFields) RequiredFieldID(i int) string { return r.fields[i].RawValue() }

// Locale returns the locale labels are rendered in.
func (r *RequiredFields) Locale() language.Tag { return r.l10n.Locale() }

func (r *RequiredFields) Title() string   { return r.l10n.text("RequiredFieldsScreenString.title") }
func (r *RequiredFields) Proceed() string { return r.l10n.text("RequiredFieldsScreenString.proceed") }
func (r *RequiredFields) Done() string    { return r.l10n.text("GlobalString.done") }

// TitleFor returns the localized label of f.
func (r *RequiredFields) TitleFor(f SupportedRequiredField) string {
	var key string
	switch f {
	case FieldGivenName:
		key = "RequiredField.givenName.title"
	case FieldFamilyName:
		key = "RequiredField.familyName.title"
	case FieldBirthday:
		key = "RequiredField.birthday.title"
	default:
		panic("goOnboard: unknown SupportedRequiredField")
	}
	return r.l10n.text(key)
}

// PlaceholderFor returns the input hint of f. Only the birthday has one.
func (r *RequiredFields) PlaceholderFor(f SupportedRequiredField) (string, bool) {
	switch f {
	case FieldBirthday:
		return r.l10n.text("RequiredField.birthday.placeholder"), true
	case FieldGivenName, FieldFamilyName:
		return "", false
	}
	panic("goOnboard: unknown SupportedRequiredField")
}

// Validate checks value for field f and returns nil or a ValidationError.
func (r *RequiredFields) Validate(f SupportedRequiredField, value string) error {
	var err error
	switch f {
	case FieldGivenName, FieldFamilyName:
		err = ValidateName(value)
	case FieldBirthday:
		err = r.birthday.Validate(value)
	default:
		panic("goOnboard: unknown SupportedRequiredField")
	}
	if err != nil {
		r.metrics.Inc(MetricFieldValidationFailed)
	}
	return err
}

// ValidateAll validates each supported field against values, keyed by field. Absent
// values count as empty. Only failing fields appear in the result.
func (r *RequiredFields) ValidateAll(values map[SupportedRequiredField]string) map[SupportedRequiredField]error {
	out := make(map[SupportedRequiredField]error)
	for _, f := range r.fields {
		if err := r.Validate(f, values[f]); err != nil {
			out[f] = err
		}
	}
	return out
}

// MessageFor returns the localized text for a validation error.
func (r *RequiredFields) MessageFor(err ValidationError) string {
	return r.l10n.text(err.messageKey())
}

// PrivacyNotice returns the localized notice with its two privacy links. When a
// token is missing from the template or a link cannot be built, the template is
// returned as plain text without spans.
func (r *RequiredFields) PrivacyNotice() StyledText {
	text := r.l10n.text(privacyTemplateKey)
	link0 := r.l10n.text(privacyLink0Key)
	link1 := r.l10n.text(privacyLink1Key)

	notice, ok := r.linkPrivacyNotice(text, link0, link1)
	if !ok {
		r.metrics.Inc(MetricPrivacyNoticeFallback)
		r.logger.Debug("goOnboard: privacy notice rendered without links", "locale", r.l10n.Locale().String())
		return StyledText{Text: text}
	}
	return notice
}

func (r *RequiredFields) linkPrivacyNotice(text, link0, link1 string) (StyledText, bool) {
	segment := r.privacy.RegionOverride
	if segment == "" {
		segment = PrivacySegment(r.l10n.Locale())
	}
	controlURL, err := privacyURL(r.privacy.BaseURL, segment, r.privacy.ControlPrivacyDoc)
	if err != nil {
		return StyledText{}, false
	}
	dataURL, err := privacyURL(r.privacy.BaseURL, segment, r.privacy.DataAndYouDoc)
	if err != nil {
		return StyledText{}, false
	}

	buf := newTemplateBuffer(text)
	if !buf.link(privacyToken0, link0, controlURL) || !buf.link(privacyToken1, link1, dataURL) {
		return StyledText{}, false
	}
	return buf.styled(), true
}
