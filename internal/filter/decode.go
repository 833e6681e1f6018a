package filter

import (
	"net/url"
	"strings"
)

// decodeRaw percent-decodes s, leaving '+' untouched.
// Invalid escapes are kept verbatim instead of failing.
func decodeRaw(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return unescapeLenient(s, false)
}

// decodeForm decodes s the way form values are decoded: '+' becomes a
// space and %XX escapes are decoded. Invalid escapes are kept verbatim.
func decodeForm(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return unescapeLenient(s, true)
}

// unescapeLenient decodes valid %XX sequences and copies everything else.
func unescapeLenient(s string, plusAsSpace bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
