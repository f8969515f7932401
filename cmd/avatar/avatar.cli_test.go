package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-avatar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hubotSrc = `src="https://avatars3.githubusercontent.com/hubot?v=3&amp;s=40"`

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = original })
}

func TestCLI_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "", CmdNameVersion)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, avatar.Version)
}

func TestCLI_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "frobnicate")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, "frobnicate")
}

func TestCLI_URL(t *testing.T) {
	withEnv(t, nil)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"default", []string{"hubot"}, "https://avatars3.githubusercontent.com/hubot?v=3&s=40\n"},
		{"at prefix", []string{"@hubot"}, "https://avatars3.githubusercontent.com/hubot?v=3&s=40\n"},
		{"size and scale", []string{"hubot", "--size", "80", "--scale", "2"}, "https://avatars3.githubusercontent.com/hubot?v=3&s=160\n"},
		{"fixed host", []string{"hubot", "--avatars-url", "http://github.example.com/avatars/"}, "http://github.example.com/avatars/hubot?v=3&s=40\n"},
		{"code point strategy", []string{"hubot", "--shard-strategy", "codepoint-sum"}, "https://avatars2.githubusercontent.com/hubot?v=3&s=40\n"},
		{
			"srcset",
			[]string{"hubot", "--srcset", "--avatars-url", "http://avatars.example.com"},
			"http://avatars.example.com/hubot?v=3&s=40 1x, http://avatars.example.com/hubot?v=3&s=80 2x, " +
				"http://avatars.example.com/hubot?v=3&s=120 3x, http://avatars.example.com/hubot?v=3&s=160 4x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", append([]string{CmdNameURL}, tt.args...)...)
			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestCLI_URL_HTML(t *testing.T) {
	withEnv(t, nil)

	code, stdout, _ := runCLI(t, "", CmdNameURL, "hubot", "--html")
	require.Equal(t, ExitCodeSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, `<img class="avatar avatar-small" `+hubotSrc))
}

func TestCLI_URL_Errors(t *testing.T) {
	withEnv(t, nil)

	code, _, _ := runCLI(t, "", CmdNameURL)
	assert.Equal(t, ExitCodeUsageError, code)

	code, _, stderr := runCLI(t, "", CmdNameURL, "@")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, avatar.ErrMsgMissingUsername)

	code, _, stderr = runCLI(t, "", CmdNameURL, "hubot", "--avatars-url", "not-a-url")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgConfigFailed)

	code, stdout, stderr := runCLI(t, "", CmdNameURL, "hubot", "--scale", "5")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, ErrMsgInvalidScale)
}

func TestCLI_URL_SizeOutOfRange(t *testing.T) {
	withEnv(t, nil)

	code, stdout, _ := runCLI(t, "", CmdNameURL, "hubot", "--size", "9223372036854775807", "--scale", "4")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "https://avatars3.githubusercontent.com/hubot?v=3&s=160\n", stdout)
}

func TestCLI_ConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "_config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("avatars_url: http://config.example.com/a/\n"), 0o644))

	t.Run("config file", func(t *testing.T) {
		withEnv(t, nil)
		_, stdout, _ := runCLI(t, "", CmdNameURL, "hubot", "--config", configPath)
		assert.Equal(t, "http://config.example.com/a/hubot?v=3&s=40\n", stdout)
	})

	t.Run("environment overrides config", func(t *testing.T) {
		withEnv(t, map[string]string{avatar.EnvAvatarsURL: "http://env.example.com/b/"})
		_, stdout, _ := runCLI(t, "", CmdNameURL, "hubot", "--config", configPath)
		assert.Equal(t, "http://env.example.com/b/hubot?v=3&s=40\n", stdout)
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		withEnv(t, map[string]string{avatar.EnvAvatarsURL: "http://env.example.com/b/"})
		_, stdout, _ := runCLI(t, "", CmdNameURL, "hubot", "--avatars-url", "http://flag.example.com/c/")
		assert.Equal(t, "http://flag.example.com/c/hubot?v=3&s=40\n", stdout)
	})

	t.Run("missing config file", func(t *testing.T) {
		withEnv(t, nil)
		code, _, _ := runCLI(t, "", CmdNameURL, "hubot", "--config", filepath.Join(dir, "missing.yml"))
		assert.Equal(t, ExitCodeUsageError, code)
	})
}

func TestCLI_Render(t *testing.T) {
	withEnv(t, nil)
	dir := t.TempDir()

	pagePath := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(pagePath, []byte("---\nauthor: hubot\n---\n{% avatar user=page.author %}"), 0o644))

	t.Run("file to stdout", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "", CmdNameRender, pagePath)
		require.Equal(t, ExitCodeSuccess, code, stderr)
		assert.Contains(t, stdout, hubotSrc)
	})

	t.Run("stdin with data", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "{% avatar user=who %}", CmdNameRender, "-", "--data", `{"who":"hubot"}`)
		require.Equal(t, ExitCodeSuccess, code, stderr)
		assert.Contains(t, stdout, hubotSrc)
	})

	t.Run("data file", func(t *testing.T) {
		dataPath := filepath.Join(dir, "data.json")
		require.NoError(t, os.WriteFile(dataPath, []byte(`{"who":"hubot"}`), 0o644))

		code, stdout, _ := runCLI(t, "{% avatar user=who %}", CmdNameRender, "-", "-f", dataPath)
		require.Equal(t, ExitCodeSuccess, code)
		assert.Contains(t, stdout, hubotSrc)
	})

	t.Run("output file", func(t *testing.T) {
		outPath := filepath.Join(dir, "out.html")
		code, stdout, _ := runCLI(t, "", CmdNameRender, pagePath, "-o", outPath)
		require.Equal(t, ExitCodeSuccess, code)
		assert.Empty(t, stdout)

		written, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(written), hubotSrc)
	})

	t.Run("markdown page", func(t *testing.T) {
		mdPath := filepath.Join(dir, "team.md")
		require.NoError(t, os.WriteFile(mdPath, []byte("# Team\n\n{% avatar hubot %}\n"), 0o644))

		_, stdout, _ := runCLI(t, "", CmdNameRender, mdPath)
		assert.Contains(t, stdout, "<h1>Team</h1>")

		_, stdout, _ = runCLI(t, "", CmdNameRender, mdPath, "--no-markdown")
		assert.Contains(t, stdout, "# Team")
	})
}

func TestCLI_Render_Errors(t *testing.T) {
	withEnv(t, nil)
	dir := t.TempDir()

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{"no input", "", []string{CmdNameRender}, ExitCodeUsageError},
		{"missing file", "", []string{CmdNameRender, filepath.Join(dir, "nope.html")}, ExitCodeInputError},
		{"invalid json", "x", []string{CmdNameRender, "-", "--data", "{bad"}, ExitCodeInputError},
		{"missing username", "{% avatar %}", []string{CmdNameRender, "-"}, ExitCodeError},
		{"unknown storage driver", "", []string{CmdNameRender, "--page", "x", "--storage", "sqlite"}, ExitCodeError},
		{"page not in storage", "", []string{CmdNameRender, "--page", "x"}, ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, stdout)
			assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
		})
	}
}

func TestCLI_Verbose(t *testing.T) {
	withEnv(t, nil)

	code, stdout, stderr := runCLI(t, "", CmdNameURL, "hubot", "--verbose")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "avatars3")
	assert.Contains(t, stderr, "avatar tag created")
}

func TestCLI_Render_StoredPages(t *testing.T) {
	withEnv(t, nil)
	root := t.TempDir()

	storage, err := avatar.NewFilesystemStorage(root)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, &avatar.StoredPage{Name: "header.html", Source: "{% avatar hubot %}"}))
	require.NoError(t, storage.Save(ctx, &avatar.StoredPage{
		Name:   "footer.html",
		Source: "---\nauthor: hubot2\n---\n|{% avatar user=page.author %}",
	}))
	require.NoError(t, storage.Close())

	t.Run("single page", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "", CmdNameRender, "--storage", "filesystem", "--dsn", root, "--page", "header.html")
		require.Equal(t, ExitCodeSuccess, code, stderr)
		assert.Contains(t, stdout, hubotSrc)
	})

	t.Run("repeated pages", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "", CmdNameRender, "--storage", "filesystem", "--dsn", root,
			"--page", "header.html", "--page", "footer.html", "--page", "header.html")
		require.Equal(t, ExitCodeSuccess, code, stderr)
		assert.Equal(t, 2, strings.Count(stdout, hubotSrc))
		assert.Contains(t, stdout, "|<img")
		assert.Contains(t, stdout, "hubot2?v=3")
	})

	t.Run("comma separated", func(t *testing.T) {
		code, stdout, _ := runCLI(t, "", CmdNameRender, "--storage", "filesystem", "--dsn", root, "--page", "header.html,footer.html")
		require.Equal(t, ExitCodeSuccess, code)
		assert.Equal(t, 2, strings.Count(stdout, "<img"))
	})

	t.Run("missing page", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "", CmdNameRender, "--storage", "filesystem", "--dsn", root, "--page", "header.html", "--page", "nope.html")
		assert.Equal(t, ExitCodeError, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "nope.html")
	})
}

func TestCLI_Validate(t *testing.T) {
	withEnv(t, nil)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		code     int
		contains []string
	}{
		{"valid", "{% avatar hubot %}", nil, ExitCodeSuccess, []string{ValidationTextSuccess}},
		{"warning only", "{% avatar hubot size=big %}", nil, ExitCodeSuccess, []string{"warning: line 1, column 1", "0 error(s), 1 warning(s)"}},
		{"strict warning", "{% avatar hubot size=big %}", []string{"--strict"}, ExitCodeValidationError, []string{"1 warning(s)"}},
		{"missing username", "x\n{% avatar %}", nil, ExitCodeValidationError, []string{"error: line 2, column 1", "avatar tag requires a username"}},
		{"front matter skipped", "---\ntitle: x\n---\n{% avatar hubot %}", nil, ExitCodeSuccess, []string{ValidationTextSuccess}},
		{"json valid", "{% avatar hubot %}", []string{"--format", "json"}, ExitCodeSuccess, []string{`"valid": true`, `"issues": []`}},
		{"json invalid", "{% avatar %}", []string{"--format", "json"}, ExitCodeValidationError, []string{`"valid": false`, `"severity": "error"`, `"tag": "avatar"`}},
		{"json strict", "{% avatar hubot extra %}", []string{"--format", "json", "--strict"}, ExitCodeValidationError, []string{`"valid": false`, `"severity": "warning"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{CmdNameValidate, InputSourceStdin}, tt.args...)
			code, stdout, _ := runCLI(t, tt.stdin, args...)
			assert.Equal(t, tt.code, code, stdout)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestCLI_Validate_Errors(t *testing.T) {
	withEnv(t, nil)

	t.Run("bad format", func(t *testing.T) {
		code, _, stderr := runCLI(t, "{% avatar hubot %}", CmdNameValidate, "-", "--format", "xml")
		assert.Equal(t, ExitCodeUsageError, code)
		assert.Contains(t, stderr, ErrMsgInvalidFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		code, _, _ := runCLI(t, "", CmdNameValidate, filepath.Join(t.TempDir(), "nope.html"))
		assert.Equal(t, ExitCodeInputError, code)
	})

	t.Run("no argument", func(t *testing.T) {
		code, _, _ := runCLI(t, "", CmdNameValidate)
		assert.Equal(t, ExitCodeUsageError, code)
	})
}
