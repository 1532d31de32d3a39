package docs

import (
	"strings"
)

type markdown struct {
	builder strings.Builder
}

func newMarkdown() *markdown {
	return &markdown{}
}

func (m *markdown) Heading(level int, text string, _ ...string) {
	if level < 1 {
		level = 1
	}
	m.builder.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

func (m *markdown) Paragraph(spans ...Span) {
	if len(spans) == 0 {
		return
	}
	m.builder.WriteString(m.inline(spans) + "\n\n")
}

func (m *markdown) Table(header []string, rows [][]Span) {
	if len(rows) == 0 {
		return
	}
	m.builder.WriteString("|")
	for _, column := range header {
		m.builder.WriteString(" " + escapeCell(column) + " |")
	}
	m.builder.WriteString("\n|")
	for range header {
		m.builder.WriteString(" --- |")
	}
	m.builder.WriteString("\n")
	for _, row := range rows {
		m.builder.WriteString("|")
		for _, cell := range row {
			m.builder.WriteString(" " + escapeCell(m.span(cell)) + " |")
		}
		m.builder.WriteString("\n")
	}
	m.builder.WriteString("\n")
}

func (m *markdown) List(items [][]Span, _ ...string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		m.builder.WriteString("- " + m.inline(item) + "\n")
	}
	m.builder.WriteString("\n")
}

func (m *markdown) CodeBlock(language, text string) {
	m.builder.WriteString("```" + language + "\n" + strings.TrimRight(text, "\n") + "\n```\n\n")
}

func (m *markdown) Divider() {
	m.builder.WriteString("---\n\n")
}

func (m *markdown) Bytes() []byte {
	return []byte(m.builder.String())
}

func (m *markdown) inline(spans []Span) string {
	var parts []string
	for _, span := range spans {
		parts = append(parts, m.span(span))
	}
	return strings.Join(parts, "")
}

func (m *markdown) span(span Span) string {
	text := span.Text
	if span.Code {
		text = "`" + text + "`"
	}
	if span.Link != "" {
		return "[" + text + "](" + span.Link + ")"
	}
	return text
}

func escapeCell(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}
