package internal

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Executor renders a token stream against a variable scope, dispatching
// tags to the registry.
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor creates a new executor bound to a registry.
func NewExecutor(registry *Registry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgExecutorCreated)
	return &Executor{
		registry: registry,
		logger:   logger,
	}
}

// Execute renders tokens in order. Text is copied verbatim, output
// expressions are replaced by their resolved value (empty when unresolved)
// and tags are rendered by their registered handler.
// Cancellation is checked between tokens.
func (e *Executor) Execute(ctx context.Context, tokens []Token, vars VariableLookup) (string, error) {
	e.logger.Debug(LogMsgExecuteStart, zap.Int(LogFieldTokens, len(tokens)))
	var sb strings.Builder

	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			e.logger.Debug(LogMsgExecutionCancelled)
			return "", err
		}

		switch tok.Type {
		case TokenTypeText:
			sb.WriteString(tok.Value)
		case TokenTypeOutput:
			val, ok := lookup(vars, tok.Value)
			if !ok {
				e.logger.Debug(LogMsgOutputUnresolved,
					zap.String(LogFieldExpr, tok.Value),
					zap.Int(LogFieldLine, tok.Position.Line),
				)
			}
			sb.WriteString(val)
		case TokenTypeTag:
			handler, ok := e.registry.Get(tok.Value)
			if !ok {
				return "", &ExecutionError{
					Message:  ErrMsgHandlerUnknown,
					TagName:  tok.Value,
					Position: tok.Position,
				}
			}
			e.logger.Debug(LogMsgTagDispatched,
				zap.String(LogFieldTagName, tok.Value),
				zap.Int(LogFieldLine, tok.Position.Line),
			)
			out, err := handler.Render(ctx, vars, tok.Markup)
			if err != nil {
				return "", &ExecutionError{
					Message:  ErrMsgTagRenderFailed,
					TagName:  tok.Value,
					Position: tok.Position,
					Cause:    err,
				}
			}
			sb.WriteString(out)
		case TokenTypeEOF:
		}
	}

	e.logger.Debug(LogMsgExecuteEnd, zap.Int(LogFieldOutput, sb.Len()))
	return sb.String(), nil
}

func lookup(vars VariableLookup, path string) (string, bool) {
	if vars == nil || path == StringValueEmpty {
		return StringValueEmpty, false
	}
	return vars.Resolve(path)
}

// ExecutionError represents a failure while rendering a tag
type ExecutionError struct {
	Message  string
	TagName  string
	Position Position
	Cause    error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	msg := e.Message + " " + e.TagName + " at " + e.Position.String()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor error message constants
const (
	ErrMsgTagRenderFailed = "failed to render tag"
)
