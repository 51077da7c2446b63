package errtree

import (
	"fmt"
	"strings"
)

// Render substitutes %{token} references in tmpl with values from tokens.
// "%%" yields a literal percent sign. A reference to a token missing from
// tokens is an error wrapping ErrUnknownToken. nil values render empty.
func Render(tmpl string, tokens Tokens) (string, error) {
	if !strings.Contains(tmpl, "%") {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		if ch != '%' || i+1 >= len(tmpl) {
			b.WriteByte(ch)
			continue
		}
		switch tmpl[i+1] {
		case '%':
			b.WriteByte('%')
			i++
		case '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated token in template %q", tmpl)
			}
			name := tmpl[i+2 : i+2+end]
			val, ok := tokens[name]
			if !ok {
				return "", fmt.Errorf("%w %q in template %q", ErrUnknownToken, name, tmpl)
			}
			if val != nil {
				fmt.Fprint(&b, val)
			}
			i += end + 2
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}

// templateTokens lists the %{token} names referenced by tmpl. ok is false
// when a token is left unterminated or empty.
func templateTokens(tmpl string) (names []string, ok bool) {
	for i := 0; i < len(tmpl)-1; i++ {
		if tmpl[i] != '%' {
			continue
		}
		switch tmpl[i+1] {
		case '%':
			i++
		case '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end <= 0 {
				return names, false
			}
			names = append(names, tmpl[i+2:i+2+end])
			i += end + 2
		}
	}
	return names, true
}
