// internal/layout/script.go
package layout

import (
	"strings"
	"unicode"
)

// Script tags a run of text with the face used to shape it
type Script int

const (
	ScriptLatin Script = iota
	ScriptThai
)

func (s Script) String() string {
	if s == ScriptThai {
		return "thai"
	}
	return "latin"
}

// Span is a maximal run of text in one script
type Span struct {
	Script Script
	Text   string
}

// IsThai reports whether r belongs to the Thai block
func IsThai(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

// IsMark reports whether r is a non-spacing combining mark
func IsMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// isUpperVowel covers the Thai vowels written above the base consonant
func isUpperVowel(r rune) bool {
	return r == 0x0E31 || (r >= 0x0E34 && r <= 0x0E37) || r == 0x0E47
}

// isToneMark covers the Thai tone marks and thanthakhat
func isToneMark(r rune) bool {
	return r >= 0x0E48 && r <= 0x0E4C
}

// scriptOf classifies a rune; marks are classified by the caller
func scriptOf(r rune) Script {
	if IsThai(r) {
		return ScriptThai
	}
	return ScriptLatin
}

// Segment splits text into maximal same-script spans in codepoint order.
// Combining marks always stay in the span of the rune they follow.
func Segment(text string) []Span {
	var spans []Span
	var b strings.Builder
	current := ScriptLatin
	started := false

	for _, r := range text {
		script := scriptOf(r)
		if IsMark(r) && started {
			script = current
		}
		if started && script != current {
			spans = append(spans, Span{Script: current, Text: b.String()})
			b.Reset()
		}
		current = script
		started = true
		b.WriteRune(r)
	}
	if started {
		spans = append(spans, Span{Script: current, Text: b.String()})
	}
	return spans
}

// Clusters splits text into base runes each followed by their combining marks.
// A cluster is never split by wrapping.
func Clusters(text string) []string {
	var clusters []string
	start := -1
	for i, r := range text {
		if IsMark(r) && start >= 0 {
			continue
		}
		if start >= 0 {
			clusters = append(clusters, text[start:i])
		}
		start = i
	}
	if start >= 0 {
		clusters = append(clusters, text[start:])
	}
	return clusters
}

// IsASCII reports whether every rune is printable ASCII
func IsASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7E {
			return false
		}
	}
	return true
}
