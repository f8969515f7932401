package avatar

import (
	"errors"
	"strings"

	"github.com/itsatony/go-avatar/internal"
)

// ValidationSeverity indicates the severity of a validation issue.
type ValidationSeverity int

const (
	// SeverityError marks an issue that makes rendering fail.
	SeverityError ValidationSeverity = iota
	// SeverityWarning marks an issue that renders, but probably not as intended.
	SeverityWarning
)

// String returns the lowercase severity name.
func (s ValidationSeverity) String() string {
	if s == SeverityWarning {
		return SeverityNameWarning
	}
	return SeverityNameError
}

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Message  string
	Position Position
	TagName  string
}

// ValidationResult contains the results of template validation.
type ValidationResult struct {
	issues []ValidationIssue
}

// Issues returns all validation issues found, in source order.
func (r *ValidationResult) Issues() []ValidationIssue {
	return r.issues
}

// Errors returns only issues with error severity.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns only issues with warning severity.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

// HasErrors returns true if there are any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if there are any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// IsValid returns true if there are no error-severity issues.
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

func (r *ValidationResult) filter(severity ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func (r *ValidationResult) add(severity ValidationSeverity, msg, tagName string, pos internal.Position) {
	r.issues = append(r.issues, ValidationIssue{
		Severity: severity,
		Message:  msg,
		Position: Position(pos),
		TagName:  tagName,
	})
}

// Validate checks a template without rendering it. Usernames and sizes given
// as variables cannot be checked until render time and are accepted.
func (e *Engine) Validate(source string) *ValidationResult {
	result := &ValidationResult{}

	tokens, err := internal.NewLexer(source, e.logger).Tokenize()
	if err != nil {
		var pos internal.Position
		var lexErr *internal.LexerError
		if errors.As(err, &lexErr) {
			pos = lexErr.Position
		}
		result.add(SeverityError, ErrMsgParseFailed+": "+err.Error(), "", pos)
		return result
	}

	for _, tok := range tokens {
		if tok.Type != internal.TokenTypeTag {
			continue
		}
		switch {
		case tok.Value == TagNameAvatar:
			for _, f := range lintAvatarMarkup(tok.Markup) {
				result.add(f.severity, f.message, tok.Value, tok.Position)
			}
		case !e.registry.Has(tok.Value):
			result.add(SeverityError, ErrMsgUnknownTag, tok.Value, tok.Position)
		}
	}
	return result
}

type lintFinding struct {
	severity ValidationSeverity
	message  string
}

// lintAvatarMarkup reports what can be known about avatar tag arguments
// without a variable scope.
func lintAvatarMarkup(markup string) []lintFinding {
	tokens := internal.SplitArguments(markup)
	userIdx := userTokenIndex(tokens)
	if userIdx < 0 {
		return []lintFinding{{SeverityError, ErrMsgMissingUsername}}
	}

	var findings []lintFinding
	if literal, isLiteral := literalUsername(tokens[userIdx]); isLiteral && NormalizeUsername(literal) == "" {
		findings = append(findings, lintFinding{SeverityError, ErrMsgMissingUsername})
	}

	for i, tok := range tokens {
		if i == userIdx {
			continue
		}
		key, value, ok := internal.SplitKeyValue(tok)
		switch {
		case !ok:
			findings = append(findings, lintFinding{SeverityWarning, ErrMsgUnexpectedArgument + ": " + tok})
		case strings.EqualFold(key, ArgKeySize):
			if _, isExpr := internal.OutputExpression(value); isExpr {
				continue
			}
			if lit, quoted := internal.Unquote(value); quoted {
				value = lit
			}
			if _, ok := parseSizeLiteral(value); !ok {
				findings = append(findings, lintFinding{SeverityWarning, ErrMsgInvalidSizeIgnored + ": " + value})
			}
		default:
			findings = append(findings, lintFinding{SeverityWarning, ErrMsgUnknownArgument + ": " + key})
		}
	}
	return findings
}

// literalUsername returns the literal text of a user token. isLiteral is
// false when the username comes from a variable.
func literalUsername(token string) (literal string, isLiteral bool) {
	if key, v, ok := internal.SplitKeyValue(token); ok && strings.EqualFold(key, ArgKeyUser) {
		if lit, quoted := internal.Unquote(v); quoted {
			return lit, true
		}
		if expr, isExpr := internal.OutputExpression(v); isExpr {
			v = expr
		}
		// An empty path has no variable to resolve.
		v = strings.TrimSpace(v)
		return v, v == ""
	}
	if lit, quoted := internal.Unquote(token); quoted {
		return lit, true
	}
	if expr, isExpr := internal.OutputExpression(token); isExpr {
		return expr, expr == ""
	}
	if internal.IsVariablePath(token) {
		return token, false
	}
	return token, true
}
