package internaldefs

import (
	goOnboard "github.com/MrEthical07/goOnboard"
)

// CounterDef binds an engine counter to its exported name.
type CounterDef struct {
	ID   goOnboard.MetricID
	Name string
	Help string
}

// HistogramDef binds an engine histogram to its exported name.
type HistogramDef struct {
	ID   goOnboard.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goOnboard.MetricAuthCodeAccepted, Name: "goonboard_auth_code_accepted_total", Help: "Authentication codes accepted by the identity manager."},
	{ID: goOnboard.MetricAuthCodeRejected, Name: "goonboard_auth_code_rejected_total", Help: "Authentication codes rejected by the identity manager."},
	{ID: goOnboard.MetricAuthCodeRateLimited, Name: "goonboard_auth_code_rate_limited_total", Help: "Rejected authentication codes of kind rate_limited."},
	{ID: goOnboard.MetricAuthCodeDiscarded, Name: "goonboard_auth_code_discarded_total", Help: "Code validations completed after their screen was discarded."},
	{ID: goOnboard.MetricRequiredFieldsPresented, Name: "goonboard_required_fields_presented_total", Help: "Required-fields screens prepared."},
	{ID: goOnboard.MetricFieldValidationFailed, Name: "goonboard_field_validation_failed_total", Help: "Required-field values rejected by validation."},
	{ID: goOnboard.MetricPrivacyNoticeFallback, Name: "goonboard_privacy_notice_fallback_total", Help: "Privacy notices rendered without links."},
}

var HistogramDefs = []HistogramDef{
	{ID: goOnboard.MetricAuthCodeLatency, Name: "goonboard_auth_code_latency_seconds", Help: "Authentication code exchange latency."},
}

// HistogramBounds are the upper bounds of the engine's latency buckets, in seconds.
var HistogramBounds = []string{
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"2.5",
	"5",
	"+Inf",
}

// HistogramBoundSuffix names the bounds where "." is not allowed.
var HistogramBoundSuffix = []string{
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"2_5",
	"5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array; missing buckets are zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
