package literal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Quote returns the shortest JavaScript string literal for s, using the quote character that requires the fewest escapes.
func Quote(s string) string {
	quote := byte('"')
	if strings.Count(s, `"`) > strings.Count(s, `'`) {
		quote = '\''
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == 0:
			if i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9' {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		case r == 0x2028:
			sb.WriteString(`\u2028`)
		case r == 0x2029:
			sb.WriteString(`\u2029`)
		case r == '/' && 0 < i && s[i-1] == '<':
			// keep the literal safe inside an HTML script element
			sb.WriteString(`\/`)
		case r < 0x20 || r == 0x7F:
			switch r {
			case '\t':
				sb.WriteString(`\t`)
			case '\b':
				sb.WriteString(`\b`)
			case '\f':
				sb.WriteString(`\f`)
			case '\v':
				sb.WriteString(`\v`)
			default:
				sb.WriteString(`\x`)
				if r < 0x10 {
					sb.WriteByte('0')
				}
				sb.WriteString(strconv.FormatInt(int64(r), 16))
			}
		case r == utf8.RuneError && n == 1:
			sb.WriteString(`\x`)
			sb.WriteString(strconv.FormatInt(int64(s[i]), 16))
		default:
			sb.WriteString(s[i : i+n])
		}
		i += n
	}
	sb.WriteByte(quote)
	return sb.String()
}

// Unquote decodes the source text of a string literal including its quotes. It returns false when the literal is malformed or encodes a lone surrogate, which cannot be represented as UTF-8.
func Unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || raw[0] != '"' && raw[0] != '\'' {
		return "", false
	}
	s := raw[1 : len(raw)-1]
	if strings.IndexByte(s, '\\') == -1 {
		return s, true
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", false
		}
		switch c = s[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if len(s) < i+3 {
				return "", false
			}
			u, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			sb.WriteRune(rune(u))
			i += 2
		case 'u':
			r, n, ok := unicodeEscape(s[i+1:])
			if !ok {
				return "", false
			} else if 0xD800 <= r && r <= 0xDBFF {
				// surrogate pair
				if !strings.HasPrefix(s[i+1+n:], `\u`) {
					return "", false
				}
				lo, m, ok := unicodeEscape(s[i+1+n+2:])
				if !ok || lo < 0xDC00 || 0xDFFF < lo {
					return "", false
				}
				r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
				n += 2 + m
			} else if 0xDC00 <= r && r <= 0xDFFF {
				return "", false
			}
			sb.WriteRune(r)
			i += n
		default:
			if '0' <= c && c <= '7' {
				if c == '0' && (i+1 == len(s) || s[i+1] < '0' || '9' < s[i+1]) {
					sb.WriteByte(0)
					continue
				}
				// legacy octal escapes are kept out of folding
				return "", false
			} else if c == 0xE2 && i+2 < len(s) && s[i+1] == 0x80 && (s[i+2] == 0xA8 || s[i+2] == 0xA9) {
				// line continuation by LS or PS
				i += 2
				continue
			}
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}

// unicodeEscape parses the part after \u, either XXXX or {X...}, and returns the code point and the number of bytes consumed.
func unicodeEscape(s string) (rune, int, bool) {
	if 0 < len(s) && s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		u, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || 0x10FFFF < u {
			return 0, 0, false
		}
		return rune(u), end + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	u, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(u), 4, true
}
