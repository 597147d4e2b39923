package consolecache

import (
	"strings"
	"unicode"
)

// toSnake converts a reflected type name to snake_case. Key namespaces are
// derived from it and must stay stable across releases, so the rules are
// deliberately plain ASCII: "ScreeningCheck" becomes "screening_check" and
// "UBO" becomes "ubo". Anything that is not a letter or digit collapses to
// a single underscore.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pendingSep := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				if pendingSep {
					b.WriteByte('_')
				} else {
					prev := runes[i-1]
					nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
					if unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower {
						b.WriteByte('_')
					}
				}
			}
			b.WriteRune(unicode.ToLower(r))
			pendingSep = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pendingSep {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false

		default:
			pendingSep = b.Len() > 0
		}
	}

	return b.String()
}
