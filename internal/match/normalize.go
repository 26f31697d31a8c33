package match

import (
	"strings"
	"unicode"

	"hbm-source/internal/common"
)

// NormalizeName reduces a possibly qualified class or entity name to a
// case-folded key without package, separators or camel-case boundaries:
// "com.acme.Order_Line" and "orderLine" both become "orderline".
func NormalizeName(s string) string {
	return strings.Join(TokenizeName(s), "")
}

// TokenizeName splits the unqualified part of s into lowercase words.
// Examples:
//   - "com.acme.OrderLine" -> ["order", "line"]
//   - "XMLPayment" -> ["xml", "payment"]
//   - "gift_card" -> ["gift", "card"]
func TokenizeName(s string) []string {
	s = common.Unqualify(s)
	if i := strings.LastIndexByte(s, '$'); i >= 0 {
		s = s[i+1:]
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a camel-case boundary before runes[i]: a lower to
// upper transition, or the last capital of an acronym followed by lowercase.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
