package analyses

import (
	"strings"
	"unicode"
)

// StripCodeFences removes Markdown code-fence decoration that models sometimes
// wrap around a JSON payload, returning the inner text trimmed. Text without a
// leading fence is returned unchanged apart from whitespace trimming.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]

	// Opening fences often carry a language tag ("```json").
	tagEnd := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if tagEnd < 0 {
		return ""
	}
	s = s[tagEnd:]

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
