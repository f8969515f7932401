package avatar

import (
	"context"
	"errors"

	"github.com/itsatony/go-avatar/internal"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// TagHandler is the interface custom Liquid tags implement.
// The avatar Tag is itself a TagHandler and is registered by default.
type TagHandler interface {
	// TagName returns the tag name this handler renders (e.g. "avatar").
	TagName() string

	// Render returns the output for one invocation.
	// markup is the raw text following the tag name; vars resolves variables.
	Render(ctx context.Context, vars VariableResolver, markup string) (string, error)
}

// TagHandlerFunc is a convenience type for creating handlers from functions.
type TagHandlerFunc struct {
	name string
	fn   func(ctx context.Context, vars VariableResolver, markup string) (string, error)
}

// NewTagHandlerFunc creates a new function-based tag handler.
func NewTagHandlerFunc(
	name string,
	fn func(ctx context.Context, vars VariableResolver, markup string) (string, error),
) *TagHandlerFunc {
	return &TagHandlerFunc{name: name, fn: fn}
}

// TagName returns the handler's tag name.
func (h *TagHandlerFunc) TagName() string {
	return h.name
}

// Render executes the handler function.
func (h *TagHandlerFunc) Render(ctx context.Context, vars VariableResolver, markup string) (string, error) {
	return h.fn(ctx, vars, markup)
}

// handlerAdapter bridges a public TagHandler to the internal registry.
type handlerAdapter struct {
	handler TagHandler
}

func (a *handlerAdapter) TagName() string {
	return a.handler.TagName()
}

func (a *handlerAdapter) Render(ctx context.Context, vars internal.VariableLookup, markup string) (string, error) {
	var resolver VariableResolver
	if vars != nil {
		resolver = vars
	}
	return a.handler.Render(ctx, resolver, markup)
}

// Engine renders Liquid-style documents containing avatar tags.
// It is safe for concurrent use.
type Engine struct {
	registry *internal.Registry
	executor *internal.Executor
	tag      *Tag
	markdown goldmark.Markdown
	config   *engineConfig
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tag, err := NewTag(config.tagConfig, WithTagLogger(logger))
	if err != nil {
		return nil, err
	}

	registry := internal.NewRegistry(logger)
	if err := registry.Register(&handlerAdapter{handler: tag}); err != nil {
		return nil, err
	}

	e := &Engine{
		registry: registry,
		executor: internal.NewExecutor(registry, logger),
		tag:      tag,
		markdown: goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe())),
		config:   config,
		logger:   logger,
	}
	logger.Debug(LogMsgEngineCreated, zap.Strings(internal.LogFieldTagName, registry.List()))
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Tag returns the engine's avatar tag.
func (e *Engine) Tag() *Tag {
	return e.tag
}

// Register adds a custom tag handler to the engine.
// Returns an error if a handler for the same tag name is already registered.
func (e *Engine) Register(h TagHandler) error {
	if h == nil {
		return e.registry.Register(nil)
	}
	return e.registry.Register(&handlerAdapter{handler: h})
}

// MustRegister adds a custom tag handler and panics if registration fails.
func (e *Engine) MustRegister(h TagHandler) {
	if err := e.Register(h); err != nil {
		panic(err)
	}
}

// HasTag reports whether a handler is registered for name.
func (e *Engine) HasTag(name string) bool {
	return e.registry.Has(name)
}

// ListTags returns all registered tag names in sorted order.
func (e *Engine) ListTags() []string {
	return e.registry.List()
}

// Parse tokenizes source into a reusable Template.
func (e *Engine) Parse(source string) (*Template, error) {
	tokens, err := internal.NewLexer(source, e.logger).Tokenize()
	if err != nil {
		var lexErr *internal.LexerError
		if errors.As(err, &lexErr) {
			return nil, NewParseError(ErrMsgParseFailed, Position(lexErr.Position), err)
		}
		return nil, NewParseError(ErrMsgParseFailed, Position{}, err)
	}
	return &Template{source: source, tokens: tokens, engine: e}, nil
}

// Execute is a convenience method that parses and executes in one step.
func (e *Engine) Execute(ctx context.Context, source string, data map[string]any) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(ctx, data)
}

// execute runs tokens against vars and maps internal errors.
func (e *Engine) execute(ctx context.Context, tokens []internal.Token, vars VariableResolver) (string, error) {
	var lookup internal.VariableLookup
	if vars != nil {
		lookup = vars
	}
	out, err := e.executor.Execute(ctx, tokens, lookup)
	if err != nil {
		var execErr *internal.ExecutionError
		if errors.As(err, &execErr) {
			return "", NewExecutionError(execErr.TagName, Position(execErr.Position), err)
		}
		return "", err
	}
	return out, nil
}
