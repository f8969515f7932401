package avatar

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Page is a Jekyll-style document: optional YAML front matter and a body.
type Page struct {
	// Name identifies the page; its extension decides markdown conversion.
	Name string
	// FrontMatter holds the decoded YAML front matter, exposed as page.*.
	FrontMatter map[string]any
	// Body is the template source after the front matter.
	Body string
}

// ParsePage splits data into front matter and body.
// Documents without a leading "---" line have no front matter.
func ParsePage(name string, data []byte) (*Page, error) {
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	page := &Page{Name: name, FrontMatter: make(map[string]any)}

	if !strings.HasPrefix(content, YAMLFrontmatterDelimiter) {
		page.Body = content
		return page, nil
	}

	afterOpening := trimLeadingNewline(content[len(YAMLFrontmatterDelimiter):])

	var fmYAML, body string
	if strings.HasPrefix(afterOpening, YAMLFrontmatterDelimiter) {
		body = afterOpening[len(YAMLFrontmatterDelimiter):]
	} else {
		closeIdx := strings.Index(afterOpening, "\n"+YAMLFrontmatterDelimiter)
		if closeIdx == -1 {
			return nil, NewFrontmatterError(ErrMsgFrontmatterUnclosed, name, nil)
		}
		fmYAML = afterOpening[:closeIdx]
		body = afterOpening[closeIdx+len("\n"+YAMLFrontmatterDelimiter):]
	}

	if len(fmYAML) > DefaultMaxFrontmatterSize {
		return nil, NewFrontmatterError(ErrMsgFrontmatterTooLarge, name, nil)
	}
	if strings.TrimSpace(fmYAML) != "" {
		if err := yaml.Unmarshal([]byte(fmYAML), &page.FrontMatter); err != nil {
			return nil, NewFrontmatterError(ErrMsgFrontmatterInvalid, name, err)
		}
		if page.FrontMatter == nil {
			page.FrontMatter = make(map[string]any)
		}
	}

	page.Body = trimLeadingNewline(body)
	return page, nil
}

// ParsePageFile reads and parses a page from disk.
func ParsePageFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFrontmatterError(ErrMsgPageReadFailed, path, err)
	}
	return ParsePage(filepath.Base(path), data)
}

// IsMarkdown reports whether the page is converted to HTML after rendering.
func (p *Page) IsMarkdown() bool {
	switch strings.ToLower(filepath.Ext(p.Name)) {
	case FileExtensionMarkdown, FileExtensionMarkdn:
		return true
	default:
		return false
	}
}

// pageData builds the variable scope for a page: page.* from front matter
// plus page.name, site.* from site, and any extra top-level data.
func (p *Page) pageData(site, data map[string]any) map[string]any {
	pageVars := make(map[string]any, len(p.FrontMatter)+1)
	for k, v := range p.FrontMatter {
		pageVars[k] = v
	}
	if _, ok := pageVars[PageKeyName]; !ok {
		pageVars[PageKeyName] = p.Name
	}

	scope := make(map[string]any, len(data)+2)
	for k, v := range data {
		scope[k] = v
	}
	scope[DataKeyPage] = pageVars
	if site != nil {
		scope[DataKeySite] = site
	}
	return scope
}

// RenderPage expands the page's tags with page.* and site.* in scope and,
// for markdown pages, converts the result to HTML.
func (e *Engine) RenderPage(ctx context.Context, page *Page, site, data map[string]any) (string, error) {
	tmpl, err := e.Parse(page.Body)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Execute(ctx, page.pageData(site, data))
	if err != nil {
		return "", err
	}

	if e.config.markdown && page.IsMarkdown() {
		var buf bytes.Buffer
		if err := e.markdown.Convert([]byte(out), &buf); err != nil {
			return "", NewFrontmatterError(ErrMsgMarkdownFailed, page.Name, err)
		}
		out = buf.String()
		e.logger.Debug(LogMsgMarkdownRendered, zap.String(LogFieldPage, page.Name))
	}

	e.logger.Debug(LogMsgPageRendered, zap.String(LogFieldPage, page.Name))
	return out, nil
}

func trimLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}
