package avatar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Validate(t *testing.T) {
	engine := MustNew()

	tests := []struct {
		name     string
		source   string
		errors   int
		warnings int
	}{
		{"plain text", "hello", 0, 0},
		{"literal user", "{% avatar hubot %}", 0, 0},
		{"literal user with size", "{% avatar hubot size=80 %}", 0, 0},
		{"quoted user", `{% avatar "Mona Lisa" %}`, 0, 0},
		{"user variable", "{% avatar user=page.author %}", 0, 0},
		{"user expression", "{% avatar {{ page.author }} size={{ size }} %}", 0, 0},
		{"user pair after size", "{% avatar size=20 user=hubot %}", 0, 0},
		{"bare dotted path", "{% avatar page.author %}", 0, 0},
		{"bare dotted path with size", "{% avatar page.author size=80 %}", 0, 0},
		{"no arguments", "{% avatar %}", 1, 0},
		{"only options", "{% avatar size=40 %}", 1, 0},
		{"empty quoted user", `{% avatar "" %}`, 1, 0},
		{"bare at sign", "{% avatar @ %}", 1, 0},
		{"empty user pair", "{% avatar user= %}", 1, 0},
		{"empty user expression", "{% avatar {{ }} %}", 1, 0},
		{"invalid size", "{% avatar hubot size=big %}", 0, 1},
		{"zero size", "{% avatar hubot size=0 %}", 0, 1},
		{"negative quoted size", `{% avatar hubot size="-4" %}`, 0, 1},
		{"oversized size", "{% avatar hubot size=9223372036854775807 %}", 0, 1},
		{"unknown key", "{% avatar hubot alt=hi %}", 0, 1},
		{"stray token", "{% avatar hubot extra %}", 0, 1},
		{"unknown tag", "{% gravatar hubot %}", 1, 0},
		{"two tags", "{% avatar %} {% avatar hubot size=x %}", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Validate(tt.source)
			assert.Len(t, result.Errors(), tt.errors, "errors: %v", result.Issues())
			assert.Len(t, result.Warnings(), tt.warnings, "warnings: %v", result.Issues())
			assert.Equal(t, tt.errors == 0, result.IsValid())
			assert.Equal(t, tt.errors > 0, result.HasErrors())
			assert.Equal(t, tt.warnings > 0, result.HasWarnings())
		})
	}
}

func TestEngine_Validate_LexerError(t *testing.T) {
	engine := MustNew()

	result := engine.Validate("line one\n{% avatar hubot")
	require.Len(t, result.Issues(), 1)
	issue := result.Issues()[0]
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Contains(t, issue.Message, ErrMsgParseFailed)
	assert.Equal(t, 2, issue.Position.Line)
}

func TestEngine_Validate_IssueDetails(t *testing.T) {
	engine := MustNew()

	result := engine.Validate("a\n  {% avatar size=40 %}")
	require.Len(t, result.Issues(), 1)
	issue := result.Issues()[0]
	assert.Equal(t, TagNameAvatar, issue.TagName)
	assert.Equal(t, ErrMsgMissingUsername, issue.Message)
	assert.Equal(t, 2, issue.Position.Line)
	assert.Equal(t, 3, issue.Position.Column)
}

func TestEngine_Validate_CustomTag(t *testing.T) {
	engine := MustNew()
	engine.MustRegister(NewTagHandlerFunc("year", func(ctx context.Context, vars VariableResolver, markup string) (string, error) {
		return "2024", nil
	}))

	assert.True(t, engine.Validate("{% year %}").IsValid())
}

// Validate cannot see render data, so templates that validate without errors
// render without errors once every variable they reference is bound.
func TestEngine_Validate_AgreesWithExecute(t *testing.T) {
	engine := MustNew()
	data := map[string]any{
		"octocat": "octocat",
		"author":  "hubot2",
		"size":    80,
		"page":    map[string]any{"author": "hubot"},
	}
	sources := []string{
		"{% avatar hubot %}",
		"{% avatar hubot size=big %}",
		"{% avatar hubot size=9223372036854775807 %}",
		"{% avatar hubot extra alt=x %}",
		"{% avatar %}",
		"{% avatar user= %}",
		`{% avatar "  " %}`,
		"{% avatar size=1 user=octocat %}",
		`{% avatar size=1 user="octocat" %}`,
		"{% avatar author %}",
		"{% avatar page.author %}",
		"{% avatar user=page.author %}",
		"{% avatar {{ page.author }} size={{ size }} %}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			_, err := engine.Execute(context.Background(), src, data)
			assert.Equal(t, engine.Validate(src).IsValid(), err == nil, "error: %v", err)
		})
	}
}

// An unbound variable passes Validate and fails at render time.
func TestEngine_Validate_UnboundVariable(t *testing.T) {
	engine := MustNew()
	src := "{% avatar size=1 user=octocat %}"

	assert.True(t, engine.Validate(src).IsValid())
	_, err := engine.Execute(context.Background(), src, nil)
	assert.True(t, IsMissingUsername(err))
}

func TestValidationSeverity_String(t *testing.T) {
	assert.Equal(t, SeverityNameError, SeverityError.String())
	assert.Equal(t, SeverityNameWarning, SeverityWarning.String())
}
