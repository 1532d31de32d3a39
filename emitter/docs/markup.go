package docs

import (
	"github.com/cockroachdb/errors"
)

// Format represents documentation markup format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnsupportedFormat is returned for unknown markup formats
var ErrUnsupportedFormat = errors.New("unsupported documentation format")

// Extension returns page file extension
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// Validate checks format is supported
func (f Format) Validate() error {
	switch f {
	case FormatMarkdown, FormatHTML:
		return nil
	}
	return errors.Wrapf(ErrUnsupportedFormat, "%q", string(f))
}

// NewMarkup creates markup writer of the format, title is used by formats carrying a document head
func (f Format) NewMarkup(title string) (Markup, error) {
	switch f {
	case FormatMarkdown:
		return newMarkdown(), nil
	case FormatHTML:
		return newHTML(title), nil
	}
	return nil, f.Validate()
}

// Span represents inline content: plain text, inline code or a link
type Span struct {
	Text string
	Code bool
	Link string
}

// Text returns plain span
func Text(text string) Span {
	return Span{Text: text}
}

// Code returns inline code span
func Code(text string) Span {
	return Span{Text: text, Code: true}
}

// Link returns anchor span, plain when href is empty
func Link(text, href string) Span {
	return Span{Text: text, Link: href}
}

// Markup represents abstract page writer, pages are traversed once and rendered by any implementation
type Markup interface {
	Heading(level int, text string, classes ...string)
	Paragraph(spans ...Span)
	Table(header []string, rows [][]Span)
	List(items [][]Span, classes ...string)
	CodeBlock(language, text string)
	Divider()
	Bytes() []byte
}
