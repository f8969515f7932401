package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer tokenizes template source into text, tag and output tokens
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewLexer creates a new lexer for the given source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns a token stream terminated by EOF
func (l *Lexer) Tokenize() ([]Token, error) {
	l.logger.Debug(LogMsgTokenizerStart)
	var tokens []Token

	for !l.isAtEnd() {
		switch {
		case l.matchStr(StrTagOpen):
			tok, err := l.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case l.matchStr(StrOutputOpen):
			tok, err := l.scanOutput()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			if tok := l.scanText(); tok.Value != "" {
				tokens = append(tokens, tok)
			}
		}
	}

	tokens = append(tokens, NewEOFToken(l.currentPosition()))
	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanText scans text content until the next delimiter
func (l *Lexer) scanText() Token {
	startPos := l.currentPosition()
	var sb strings.Builder

	for !l.isAtEnd() {
		if l.matchStr(StrTagOpen) || l.matchStr(StrOutputOpen) {
			break
		}
		sb.WriteByte(l.advance())
	}

	return NewTextToken(sb.String(), startPos)
}

// scanTag scans a {% name markup %} tag
func (l *Lexer) scanTag() (Token, error) {
	startPos := l.currentPosition()
	l.advanceN(len(StrTagOpen))
	l.skipWhitespace()

	name, ok := l.scanTagName()
	if !ok {
		return Token{}, l.newError(ErrMsgInvalidTagName, startPos)
	}

	body, ok := l.scanUntil(StrTagClose)
	if !ok {
		return Token{}, l.newError(ErrMsgUnterminatedTag, startPos)
	}

	return NewTagToken(name, strings.TrimSpace(body), startPos), nil
}

// scanOutput scans a {{ expression }} output
func (l *Lexer) scanOutput() (Token, error) {
	startPos := l.currentPosition()
	l.advanceN(len(StrOutputOpen))

	body, ok := l.scanUntil(StrOutputClose)
	if !ok {
		return Token{}, l.newError(ErrMsgUnterminatedOutput, startPos)
	}

	return NewOutputToken(strings.TrimSpace(body), startPos), nil
}

// scanTagName scans an identifier for a tag name
func (l *Lexer) scanTagName() (string, bool) {
	var sb strings.Builder

	if l.isAtEnd() || !(isLetter(l.peek()) || l.peek() == '_') {
		return "", false
	}
	sb.WriteByte(l.advance())

	for !l.isAtEnd() {
		ch := l.peek()
		if isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-' {
			sb.WriteByte(l.advance())
		} else {
			break
		}
	}

	return sb.String(), true
}

// scanUntil consumes characters up to and including closeDelim.
// Delimiters inside quoted strings do not terminate the scan.
func (l *Lexer) scanUntil(closeDelim string) (string, bool) {
	var sb strings.Builder
	var quote byte

	for !l.isAtEnd() {
		ch := l.peek()
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			sb.WriteByte(l.advance())
			continue
		}
		if ch == CharDoubleQuote || ch == CharSingleQuote {
			quote = ch
			sb.WriteByte(l.advance())
			continue
		}
		if l.matchStr(closeDelim) {
			l.advanceN(len(closeDelim))
			return sb.String(), true
		}
		sb.WriteByte(l.advance())
	}

	return "", false
}

// Helper methods

func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() && isWhitespace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) newError(message string, pos Position) error {
	return &LexerError{
		Message:  message,
		Position: pos,
	}
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}

// LexerError represents a lexer error with position
type LexerError struct {
	Message  string
	Position Position
}

func (e *LexerError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// Error message constants for lexer
const (
	ErrMsgUnterminatedTag    = "unterminated tag"
	ErrMsgUnterminatedOutput = "unterminated output expression"
	ErrMsgInvalidTagName     = "invalid tag name"
)
