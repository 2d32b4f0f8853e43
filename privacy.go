package goOnboard

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

const (
	privacyTemplateKey = "RequiredFieldsScreenString.subtext"
	privacyLink0Key    = "RequiredFieldsScreenString.subtext.link0"
	privacyLink1Key    = "RequiredFieldsScreenString.subtext.link1"

	privacyToken0 = "$0"
	privacyToken1 = "$1"
)

var errPrivacyURL = errors.New("privacy url cannot be built")

// privacySegmentsByRegion and privacySegmentsByLanguage map a locale onto the path
// segment the privacy site uses. Region wins over language.
var (
	privacySegmentsByRegion = map[string]string{
		"NO": "no",
		"SE": "se",
		"FI": "fi",
		"DK": "dk",
	}
	privacySegmentsByLanguage = map[string]string{
		"nb": "no",
		"nn": "no",
		"no": "no",
		"sv": "se",
		"fi": "fi",
		"da": "dk",
	}
)

const defaultPrivacySegment = "en"

// PrivacySegment returns the privacy-site path segment for locale.
func PrivacySegment(locale language.Tag) string {
	if region, conf := locale.Region(); conf == language.Exact || conf == language.High {
		if seg, ok := privacySegmentsByRegion[region.String()]; ok {
			return seg
		}
	}
	if base, conf := locale.Base(); conf != language.No {
		if seg, ok := privacySegmentsByLanguage[base.String()]; ok {
			return seg
		}
	}
	return defaultPrivacySegment
}

func validSegment(seg string) bool {
	if len(seg) < 2 || len(seg) > 3 {
		return false
	}
	for _, r := range seg {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// privacyURL builds <base>/<segment>/<doc>.
func privacyURL(base, segment, doc string) (string, error) {
	if !validSegment(segment) || strings.TrimSpace(doc) == "" {
		return "", errPrivacyURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", errPrivacyURL
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", errPrivacyURL
	}
	return u.JoinPath(strings.ToLower(segment), doc).String(), nil
}
