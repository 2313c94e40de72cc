package lspsrv

import "strings"

// identifierAt finds the identifier touching (line, col) — 0-indexed
// UTF-16 position as LSP sends it, matched against the document's
// 0-indexed line/rune positions — widening left and right over
// identifier characters. Back-ticked F# identifiers (“ `some name` “)
// and single-quoted operator names extend the character class so both
// resolve as one token, per the identification requirement of definition
// and hover.
func identifierAt(text string, line, col int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(lines[line])
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}

	start, end := col, col
	for start > 0 && isIdentRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isIdentRune(runes[end]) {
		end++
	}
	if start == end {
		return ""
	}
	return strings.Trim(string(runes[start:end]), "`")
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.' || r == '`' || r == '\'' || r == ':':
		return true
	}
	return false
}

// expressionBeforeDot scans left from the cursor over identifier/`.`/`!`
// characters (the `!` covers F#'s `Async.RunSynchronously !x`-style
// force-unwrap forms) until it hits whitespace or punctuation, returning
// the trimmed expression with its trailing dot removed.
func expressionBeforeDot(text string, line, col int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(lines[line])
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}

	start := col
	for start > 0 {
		r := runes[start-1]
		if isIdentRune(r) || r == '!' {
			start--
			continue
		}
		break
	}
	expr := strings.TrimSpace(string(runes[start:col]))
	return strings.TrimSuffix(expr, ".")
}

// innermostType strips postfix type operators and generic/function-type
// wrapping to find the user type a dotted expression should complete
// against: F#'s `list`/`option`/`array`/`seq`/`ref` postfix forms,
// a generic's first type parameter, and a function type's rightmost
// return type.
func innermostType(sig string) string {
	sig = strings.TrimSpace(sig)

	for _, suffix := range []string{" list", " option", " array", " seq", " ref"} {
		if strings.HasSuffix(sig, suffix) {
			return innermostType(strings.TrimSuffix(sig, suffix))
		}
	}

	if i := strings.LastIndex(sig, "->"); i >= 0 {
		return innermostType(sig[i+2:])
	}

	if i := strings.IndexByte(sig, '<'); i >= 0 && strings.HasSuffix(sig, ">") {
		inner := sig[i+1 : len(sig)-1]
		if comma := strings.IndexByte(inner, ','); comma >= 0 {
			inner = inner[:comma]
		}
		return innermostType(inner)
	}

	return sig
}
