package avatar

import (
	"context"

	"github.com/itsatony/go-avatar/internal"
)

// Template is a parsed document that can be executed many times.
type Template struct {
	source string
	tokens []internal.Token
	engine *Engine
}

// Execute renders the template with data as its variable scope.
func (t *Template) Execute(ctx context.Context, data map[string]any) (string, error) {
	return t.ExecuteWith(ctx, NewContext(data))
}

// ExecuteWith renders the template resolving variables through vars.
func (t *Template) ExecuteWith(ctx context.Context, vars VariableResolver) (string, error) {
	return t.engine.execute(ctx, t.tokens, vars)
}

// Source returns the original template source.
func (t *Template) Source() string {
	return t.source
}

// TagNames returns the names of the tags used by the template, in order of
// first appearance.
func (t *Template) TagNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range t.tokens {
		if tok.Type == internal.TokenTypeTag && !seen[tok.Value] {
			seen[tok.Value] = true
			names = append(names, tok.Value)
		}
	}
	return names
}
