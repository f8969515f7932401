package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// TokenType identifies the kind of lexical token
type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeText
	TokenTypeTag
	TokenTypeOutput
)

// String returns the token type name
func (t TokenType) String() string {
	switch t {
	case TokenTypeEOF:
		return "EOF"
	case TokenTypeText:
		return "TEXT"
	case TokenTypeTag:
		return "TAG"
	case TokenTypeOutput:
		return "OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token produced by the lexer.
// For tag tokens, Value holds the tag name and Markup the raw text after it.
// For output tokens, Value holds the trimmed expression.
type Token struct {
	Type     TokenType
	Value    string
	Markup   string
	Position Position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Markup != "" {
		return fmt.Sprintf("Token{%s: %q %q @ %s}", t.Type, t.Value, t.Markup, t.Position)
	}
	if t.Value == "" {
		return fmt.Sprintf("Token{%s @ %s}", t.Type, t.Position)
	}
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Type, t.Value, t.Position)
}

// IsEOF returns true if this is an end-of-file token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{Type: TokenTypeEOF, Position: pos}
}

// NewTextToken creates a text token with the given content
func NewTextToken(content string, pos Position) Token {
	return Token{Type: TokenTypeText, Value: content, Position: pos}
}

// NewTagToken creates a tag token with its name and raw markup
func NewTagToken(name, markup string, pos Position) Token {
	return Token{Type: TokenTypeTag, Value: name, Markup: markup, Position: pos}
}

// NewOutputToken creates an output expression token
func NewOutputToken(expr string, pos Position) Token {
	return Token{Type: TokenTypeOutput, Value: expr, Position: pos}
}
