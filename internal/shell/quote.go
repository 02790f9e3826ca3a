package shell

import "strings"

func unsafeChar(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z',
		'0' <= r && r <= '9',
		r == '_', r == '+', r == '-', r == '=',
		r == '.', r == ',', r == '/', r == ':', r == '@', r == '%':
		return false
	}
	return true
}

var singleQuoteReplacer = strings.NewReplacer(`'`, `'\''`)

// Quote makes s a single shell word. Strings that need no quoting are
// returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, unsafeChar) == -1 {
		return s
	}
	return `'` + singleQuoteReplacer.Replace(s) + `'`
}

// Join quotes every word and joins them with spaces.
func Join(words ...string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}
