package docs

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlMarkup builds a DOM and renders it on Bytes
type htmlMarkup struct {
	document *html.Node
	body     *html.Node
}

func newHTML(title string) *htmlMarkup {
	document := &html.Node{Type: html.DocumentNode}
	document.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	document.AppendChild(root)
	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	titleNode := element(atom.Title)
	titleNode.AppendChild(text(title))
	head.AppendChild(titleNode)
	body := element(atom.Body)
	root.AppendChild(body)
	return &htmlMarkup{document: document, body: body}
}

func (h *htmlMarkup) Heading(level int, content string, classes ...string) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	name := "h" + strconv.Itoa(level)
	node := &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
	withClasses(node, classes)
	node.AppendChild(text(content))
	h.body.AppendChild(node)
}

func (h *htmlMarkup) Paragraph(spans ...Span) {
	if len(spans) == 0 {
		return
	}
	node := element(atom.P)
	appendSpans(node, spans)
	h.body.AppendChild(node)
}

func (h *htmlMarkup) Table(header []string, rows [][]Span) {
	if len(rows) == 0 {
		return
	}
	table := element(atom.Table)
	head := element(atom.Thead)
	headerRow := element(atom.Tr)
	for _, column := range header {
		cell := element(atom.Th)
		cell.AppendChild(text(column))
		headerRow.AppendChild(cell)
	}
	head.AppendChild(headerRow)
	table.AppendChild(head)
	body := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		for _, span := range row {
			cell := element(atom.Td)
			appendSpans(cell, []Span{span})
			tr.AppendChild(cell)
		}
		body.AppendChild(tr)
	}
	table.AppendChild(body)
	h.body.AppendChild(table)
}

func (h *htmlMarkup) List(items [][]Span, classes ...string) {
	if len(items) == 0 {
		return
	}
	list := element(atom.Ul)
	for _, item := range items {
		node := element(atom.Li)
		withClasses(node, classes)
		appendSpans(node, item)
		list.AppendChild(node)
	}
	h.body.AppendChild(list)
}

func (h *htmlMarkup) CodeBlock(language, content string) {
	pre := element(atom.Pre)
	code := element(atom.Code)
	if language != "" {
		withClasses(code, []string{"language-" + language})
	}
	code.AppendChild(text(strings.TrimRight(content, "\n")))
	pre.AppendChild(code)
	h.body.AppendChild(pre)
}

func (h *htmlMarkup) Divider() {
	h.body.AppendChild(element(atom.Hr))
}

func (h *htmlMarkup) Bytes() []byte {
	buffer := &bytes.Buffer{}
	if err := html.Render(buffer, h.document); err != nil {
		return nil
	}
	buffer.WriteString("\n")
	return buffer.Bytes()
}

func appendSpans(parent *html.Node, spans []Span) {
	for _, span := range spans {
		node := text(span.Text)
		if span.Code {
			code := element(atom.Code)
			code.AppendChild(node)
			node = code
		}
		if span.Link != "" {
			anchor := element(atom.A, html.Attribute{Key: "href", Val: span.Link})
			anchor.AppendChild(node)
			node = anchor
		}
		parent.AppendChild(node)
	}
}

func element(a atom.Atom, attributes ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attributes}
}

func text(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func withClasses(node *html.Node, classes []string) {
	if len(classes) == 0 {
		return
	}
	node.Attr = append(node.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
}
