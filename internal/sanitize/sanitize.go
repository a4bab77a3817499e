// Package sanitize cleans free-form user text before it is placed into
// document layout. All functions are pure and total: they never fail, and
// empty input yields empty output.
package sanitize

import (
	"regexp"
	"strings"
)

// junkTokens is the deny-list of placeholder/test fragments commonly left in
// form fields. Matched case-insensitively as whole phrases.
var junkTokens = []string{
	"lorem ipsum dolor sit amet",
	"lorem ipsum",
	"dolor sit amet",
	"consectetur adipiscing elit",
	"sample text",
	"placeholder text",
	"placeholder",
	"test test test",
	"asdf",
	"qwerty",
	"tbd",
	"xxx",
}

var (
	junkPatterns   []*regexp.Regexp
	photoFileRe    = regexp.MustCompile(`(?i)\bimage\.jpe?g\b`)
	trailingWSRe   = regexp.MustCompile(`[ \t]+\n`)
	excessBlanksRe = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe   = regexp.MustCompile(`[ \t]{2,}`)
)

func init() {
	for _, token := range junkTokens {
		junkPatterns = append(junkPatterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(token)+`\b`))
	}
}

// Clean normalizes free-form report text. Rules are applied in order:
// junk-token removal, generic photo filename replacement, terse-token
// expansion, whitespace collapsing. Clean is idempotent: applying it to its
// own output changes nothing.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	for _, re := range junkPatterns {
		text = re.ReplaceAllString(text, "")
	}

	text = photoFileRe.ReplaceAllString(text, "Photo evidence")

	// Terse-token expansion applies to standalone values only, never to
	// substrings of longer prose.
	switch trimmed := strings.TrimSpace(text); {
	case strings.EqualFold(trimmed, "n/a"):
		return "Not applicable"
	case strings.EqualFold(trimmed, "yes"):
		return "Yes (confirmed)"
	case strings.EqualFold(trimmed, "no"):
		return "No (not observed)"
	}

	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = excessBlanksRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// ImpactLabel maps numeric or word impact codes to display labels.
// Unrecognized values fall through to the general sanitizer.
func ImpactLabel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return ""
	case "1", "low", "l":
		return "Low"
	case "2", "medium", "med", "m":
		return "Medium"
	case "3", "high", "h":
		return "High"
	default:
		return Clean(raw)
	}
}

// minSummaryLength is the shortest executive summary accepted verbatim;
// anything shorter triggers the assembler's fallback bullet list.
const minSummaryLength = 80

// NeedsFallbackSummary reports whether the provided executive summary text
// should be replaced by the fixed fallback bullet list: empty text, text
// shorter than the minimum length, or text still carrying placeholder markers.
func NeedsFallbackSummary(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minSummaryLength {
		return true
	}
	return strings.Contains(strings.ToLower(trimmed), "lorem")
}
