package internal

import "strings"

// SplitArguments splits raw tag markup on whitespace.
// Quoted strings and {{ ... }} expressions are kept together as one token,
// including their delimiters. An unterminated quote or expression runs to the
// end of the markup.
func SplitArguments(markup string) []string {
	var tokens []string
	var sb strings.Builder
	var quote byte
	inExpr := false

	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}

	for i := 0; i < len(markup); i++ {
		ch := markup[i]
		switch {
		case quote != 0:
			sb.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
		case inExpr:
			if strings.HasPrefix(markup[i:], StrOutputClose) {
				sb.WriteString(StrOutputClose)
				i += len(StrOutputClose) - 1
				inExpr = false
				continue
			}
			sb.WriteByte(ch)
		case strings.HasPrefix(markup[i:], StrOutputOpen):
			sb.WriteString(StrOutputOpen)
			i += len(StrOutputOpen) - 1
			inExpr = true
		case ch == CharDoubleQuote || ch == CharSingleQuote:
			quote = ch
			sb.WriteByte(ch)
		case isWhitespace(ch):
			flush()
		default:
			sb.WriteByte(ch)
		}
	}
	flush()

	return tokens
}

// SplitKeyValue splits a key=value token.
// ok is false when the token has no '=' or the key is not an identifier.
func SplitKeyValue(token string) (key, value string, ok bool) {
	idx := strings.IndexByte(token, CharEquals)
	if idx <= 0 {
		return "", "", false
	}
	key = token[:idx]
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if !(isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-') {
			return "", "", false
		}
	}
	return key, token[idx+1:], true
}

// Unquote returns the content of a single- or double-quoted literal.
func Unquote(value string) (string, bool) {
	if len(value) < 2 {
		return "", false
	}
	first, last := value[0], value[len(value)-1]
	if (first == CharDoubleQuote || first == CharSingleQuote) && first == last {
		return value[1 : len(value)-1], true
	}
	return "", false
}

// OutputExpression returns the trimmed expression of a {{ ... }} token.
func OutputExpression(value string) (string, bool) {
	if !strings.HasPrefix(value, StrOutputOpen) || !strings.HasSuffix(value, StrOutputClose) {
		return "", false
	}
	if len(value) < len(StrOutputOpen)+len(StrOutputClose) {
		return "", false
	}
	return strings.TrimSpace(value[len(StrOutputOpen) : len(value)-len(StrOutputClose)]), true
}

// IsVariablePath reports whether token is a dotted identifier path such as
// page.author. A name without a dot is not a path.
func IsVariablePath(token string) bool {
	if !strings.Contains(token, StrPathSeparator) {
		return false
	}
	for _, segment := range strings.Split(token, StrPathSeparator) {
		if !isIdentifier(segment) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" || !(isLetter(s[0]) || s[0] == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !(isLetter(s[i]) || isDigit(s[i]) || s[i] == '_' || s[i] == '-') {
			return false
		}
	}
	return true
}
