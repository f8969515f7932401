package avatar

import (
	"html"
	"strings"
)

type htmlAttribute struct {
	name  string
	value string
}

// renderElement writes a self-closing element with attributes in the given
// order. Values are attribute-escaped.
func renderElement(name string, attrs []htmlAttribute) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(name)
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.value))
		sb.WriteString(`"`)
	}
	sb.WriteString(" />")
	return sb.String()
}
