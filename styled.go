package goOnboard

import "strings"

// LinkSpan marks Text[Start:Start+Length] as a hyperlink to URL.
// Offsets are byte offsets into the owning StyledText.
type LinkSpan struct {
	Start     int
	Length    int
	URL       string
	Underline bool
}

// End returns the offset just past the span.
func (s LinkSpan) End() int { return s.Start + s.Length }

// StyledText is plain text plus the link spans attached to it.
type StyledText struct {
	Text  string
	Links []LinkSpan
}

// Plain reports whether no span is attached.
func (t StyledText) Plain() bool { return len(t.Links) == 0 }

// LinkText returns the substring covered by span i.
func (t StyledText) LinkText(i int) string {
	s := t.Links[i]
	return t.Text[s.Start:s.End()]
}

// templateBuffer replaces tokens in place and keeps previously attached spans
// pointing at the same characters.
type templateBuffer struct {
	text  string
	spans []LinkSpan
}

func newTemplateBuffer(text string) *templateBuffer {
	return &templateBuffer{text: text}
}

// link replaces the first occurrence of token with value and attaches a link span
// over value. It reports false, leaving the buffer untouched, when token is absent.
func (b *templateBuffer) link(token, value, url string) bool {
	start := b.index(token)
	if start < 0 {
		return false
	}
	end := start + len(token)
	delta := len(value) - len(token)

	for i := range b.spans {
		if b.spans[i].Start >= end {
			b.spans[i].Start += delta
		}
	}

	b.text = b.text[:start] + value + b.text[end:]
	b.spans = append(b.spans, LinkSpan{
		Start:     start,
		Length:    len(value),
		URL:       url,
		Underline: true,
	})
	return true
}

// index finds the first occurrence of token that does not overlap an attached
// span, so text inserted by an earlier replacement is never rewritten.
func (b *templateBuffer) index(token string) int {
	from := 0
	for from <= len(b.text) {
		i := strings.Index(b.text[from:], token)
		if i < 0 {
			return -1
		}
		i += from
		overlap := false
		for _, s := range b.spans {
			if i < s.End() && i+len(token) > s.Start {
				overlap = true
				from = s.End()
				break
			}
		}
		if !overlap {
			return i
		}
	}
	return -1
}

func (b *templateBuffer) styled() StyledText {
	return StyledText{Text: b.text, Links: b.spans}
}
