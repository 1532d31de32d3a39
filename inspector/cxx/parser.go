package cxx

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/viant/luabind/inspector/annotation"
)

// ErrParse is returned when native source cannot be parsed
var ErrParse = errors.New("parse failure")

var (
	annotationExpr = regexp.MustCompile(`\[\[\s*(?:clang::)?annotate\s*\(((?:\s*"(?:[^"\\]|\\.)*")+)\s*\)\s*\]\]|__attribute__\s*\(\(\s*annotate\s*\(((?:\s*"(?:[^"\\]|\\.)*")+)\s*\)\s*\)\)`)
	stringExpr     = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

var declarationTypes = map[string]bool{
	"namespace_definition":           true,
	"class_specifier":                true,
	"struct_specifier":               true,
	"union_specifier":                true,
	"enum_specifier":                 true,
	"enumerator":                     true,
	"field_declaration":              true,
	"declaration":                    true,
	"function_definition":            true,
	"template_declaration":           true,
	"parameter_declaration":          true,
	"optional_parameter_declaration": true,
	"variadic_parameter_declaration": true,
	"alias_declaration":              true,
	"type_definition":                true,
	"friend_declaration":             true,
}

var transparentTypes = map[string]bool{
	"declaration_list":       true,
	"field_declaration_list": true,
	"linkage_specification":  true,
	"preproc_if":             true,
	"preproc_ifdef":          true,
	"preproc_else":           true,
	"preproc_elif":           true,
	"preproc_elifdef":        true,
}

// Parser builds cursor trees from C++ source with tree-sitter
type Parser struct {
	allowSyntaxErrors bool
	macros            *expansion
}

// NewParser creates a parser
func NewParser(allowSyntaxErrors bool) *Parser {
	return &Parser{
		allowSyntaxErrors: allowSyntaxErrors,
		macros:            &expansion{master: annotation.DefaultMasterTag, enrollmentName: DefaultEnrollmentName},
	}
}

// WithMacros sets master tag and enrollment name used when expanding annotation macros
func (p *Parser) WithMacros(master, enrollmentName string) *Parser {
	p.macros = &expansion{master: master, enrollmentName: enrollmentName}
	return p
}

type lifted struct {
	start int
	end   int
	text  string
}

type nodeKey struct {
	start uint32
	end   uint32
	kind  string
}

func keyOf(node *sitter.Node) nodeKey {
	return nodeKey{start: node.StartByte(), end: node.EndByte(), kind: node.Type()}
}

type unit struct {
	path        string
	original    []byte
	src         []byte
	annotations map[nodeKey][]string
	allowErrors bool
}

// Parse parses src of path into a translation unit cursor
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*Cursor, error) {
	src = p.macros.expand(src)
	clean, annotations := liftAnnotations(src)
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, clean)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to parse %v", path), ErrParse)
	}
	root := tree.RootNode()
	if root.HasError() && !p.allowSyntaxErrors {
		row, column := errorPosition(root)
		err = errors.Wrapf(ErrParse, "%v:%d:%d: syntax error", path, row, column)
		return nil, errors.WithHint(err, "annotated declarations must be plain C++, set analysis.allow_syntax_errors to skip unparsable regions")
	}
	u := &unit{
		path:        path,
		original:    src,
		src:         clean,
		annotations: map[nodeKey][]string{},
		allowErrors: p.allowSyntaxErrors,
	}
	u.attach(root, annotations)
	return &Cursor{
		Kind:     KindTranslationUnit,
		Spelling: path,
		Location: Location{File: path, Line: 1, Column: 1},
		Children: u.children(root, ""),
	}, nil
}

func errorPosition(node *sitter.Node) (int, int) {
	if node.Type() == "ERROR" {
		return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return errorPosition(child)
		}
	}
	return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column) + 1
}

// liftAnnotations blanks annotate attributes keeping byte offsets and line structure
func liftAnnotations(src []byte) ([]byte, []lifted) {
	matches := annotationExpr.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, nil
	}
	clean := append([]byte{}, src...)
	var result []lifted
	for _, match := range matches {
		start, end := match[2], match[3]
		if start == -1 {
			start, end = match[4], match[5]
		}
		result = append(result, lifted{start: match[0], end: match[1], text: joinLiterals(src[start:end])})
		for i := match[0]; i < match[1]; i++ {
			if clean[i] != '\n' {
				clean[i] = ' '
			}
		}
	}
	return clean, result
}

func joinLiterals(literals []byte) string {
	var builder strings.Builder
	for _, match := range stringExpr.FindAllSubmatch(literals, -1) {
		text := string(match[1])
		if unquoted, err := strconv.Unquote(`"` + text + `"`); err == nil {
			text = unquoted
		}
		builder.WriteString(text)
	}
	return builder.String()
}

// attach assigns each lifted annotation to the declaration that follows it,
// otherwise to the innermost declaration containing it
func (u *unit) attach(root *sitter.Node, annotations []lifted) {
	for _, item := range annotations {
		next := item.end
		for next < len(u.src) && isSpace(u.src[next]) {
			next++
		}
		target := startingAt(root, uint32(next))
		if target == nil {
			target = containing(root, uint32(item.start))
		}
		if target == nil {
			continue
		}
		key := keyOf(target)
		u.annotations[key] = append(u.annotations[key], item.text)
	}
}

func startingAt(node *sitter.Node, pos uint32) *sitter.Node {
	if node.StartByte() == pos && declarationTypes[node.Type()] {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() <= pos && pos < child.EndByte() {
			return startingAt(child, pos)
		}
	}
	return nil
}

func containing(node *sitter.Node, pos uint32) *sitter.Node {
	var result *sitter.Node
	if declarationTypes[node.Type()] {
		result = node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() <= pos && pos < child.EndByte() {
			if inner := containing(child, pos); inner != nil {
				return inner
			}
			break
		}
	}
	return result
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func (u *unit) content(node *sitter.Node) string {
	return node.Content(u.src)
}

func (u *unit) location(node *sitter.Node) Location {
	point := node.StartPoint()
	return Location{File: u.path, Line: int(point.Row) + 1, Column: int(point.Column) + 1}
}

func (u *unit) annotationCursors(node *sitter.Node) []*Cursor {
	var result []*Cursor
	for _, text := range u.annotations[keyOf(node)] {
		result = append(result, &Cursor{Kind: KindAnnotation, Spelling: text, Location: u.location(node)})
	}
	return result
}

// children converts named children, attaching adjacent preceding comments as documentation
func (u *unit) children(node *sitter.Node, record string) []*Cursor {
	var result []*Cursor
	var comments []string
	var commentEnd uint32
	prevEndRow := -1
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			row := int(child.StartPoint().Row)
			switch {
			case row == prevEndRow && len(comments) == 0:
				// trailing comment of the previous declaration
			case len(comments) > 0 && !u.adjacent(commentEnd, child.StartByte()):
				comments = []string{u.content(child)}
			default:
				comments = append(comments, u.content(child))
			}
			if len(comments) > 0 {
				commentEnd = child.EndByte()
			}
			continue
		}
		cursors := u.convert(child, record)
		if len(comments) > 0 && u.adjacent(commentEnd, child.StartByte()) {
			for _, cursor := range cursors {
				if cursor.Comment == "" {
					cursor.Comment = strings.Join(comments, "\n")
				}
			}
		}
		comments = nil
		prevEndRow = int(child.EndPoint().Row)
		result = append(result, cursors...)
	}
	return result
}

// adjacent returns true if no blank line separates from and to in the unmodified source
func (u *unit) adjacent(from, to uint32) bool {
	if from > to || int(to) > len(u.original) {
		return false
	}
	lines := strings.Split(string(u.original[from:to]), "\n")
	for i := 1; i < len(lines)-1; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			return false
		}
	}
	return true
}

func (u *unit) convert(node *sitter.Node, record string) []*Cursor {
	switch node.Type() {
	case "namespace_definition":
		return u.namespace(node)
	case "class_specifier", "struct_specifier", "union_specifier":
		if cursor := u.record(node, nil, nil); cursor != nil {
			return []*Cursor{cursor}
		}
		return nil
	case "enum_specifier":
		if cursor := u.enum(node); cursor != nil {
			return []*Cursor{cursor}
		}
		return nil
	case "enumerator":
		return []*Cursor{u.enumerator(node)}
	case "template_declaration":
		return u.template(node, record)
	case "field_declaration", "declaration", "function_definition":
		return u.declaration(node, record)
	case "ERROR":
		if u.allowErrors {
			return u.children(node, record)
		}
		return nil
	}
	if transparentTypes[node.Type()] {
		if body := node.ChildByFieldName("body"); body != nil && node.Type() == "linkage_specification" {
			return u.children(body, record)
		}
		return u.children(node, record)
	}
	return nil
}

func (u *unit) namespace(node *sitter.Node) []*Cursor {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	children := u.children(body, "")
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return children
	}
	var names []string
	for _, name := range strings.Split(u.content(nameNode), "::") {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "inline "))
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return children
	}
	location := u.location(node)
	innermost := &Cursor{Kind: KindNamespace, Spelling: names[len(names)-1], Location: location}
	innermost.Children = append(u.annotationCursors(node), children...)
	cursor := innermost
	for i := len(names) - 2; i >= 0; i-- {
		cursor = &Cursor{Kind: KindNamespace, Spelling: names[i], Location: location, Children: []*Cursor{cursor}}
	}
	return []*Cursor{cursor}
}

func (u *unit) record(node *sitter.Node, template []*Cursor, annotations []*Cursor) *Cursor {
	body := node.ChildByFieldName("body")
	nameNode := node.ChildByFieldName("name")
	if body == nil || nameNode == nil {
		return nil
	}
	spelling := u.content(nameNode)
	if segments := strings.Split(spelling, "::"); len(segments) > 1 {
		spelling = segments[len(segments)-1]
	}
	kind := KindClassDecl
	if node.Type() != "class_specifier" {
		kind = KindStructDecl
	}
	if template != nil {
		kind = KindClassTemplate
	}
	cursor := &Cursor{Kind: kind, Spelling: spelling, Location: u.location(node)}
	cursor.Children = append(cursor.Children, template...)
	cursor.Children = append(cursor.Children, annotations...)
	cursor.Children = append(cursor.Children, u.annotationCursors(node)...)
	cursor.Children = append(cursor.Children, u.children(body, baseName(spelling))...)
	return cursor
}

func (u *unit) enum(node *sitter.Node) *Cursor {
	body := node.ChildByFieldName("body")
	nameNode := node.ChildByFieldName("name")
	if body == nil || nameNode == nil {
		return nil
	}
	cursor := &Cursor{Kind: KindEnumDecl, Spelling: u.content(nameNode), Location: u.location(node)}
	if base := node.ChildByFieldName("base"); base != nil {
		cursor.Type = u.content(base)
	}
	cursor.Children = append(u.annotationCursors(node), u.children(body, "")...)
	return cursor
}

func (u *unit) enumerator(node *sitter.Node) *Cursor {
	cursor := &Cursor{Kind: KindEnumConstant, Location: u.location(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		cursor.Spelling = u.content(name)
	}
	if value := node.ChildByFieldName("value"); value != nil {
		cursor.Value = strings.TrimSpace(u.content(value))
	}
	cursor.Children = u.annotationCursors(node)
	return cursor
}

func (u *unit) template(node *sitter.Node, record string) []*Cursor {
	parameters := node.ChildByFieldName("parameters")
	var params []*Cursor
	if parameters != nil {
		for i := 0; i < int(parameters.NamedChildCount()); i++ {
			param := parameters.NamedChild(i)
			if name := templateParameterName(param, u.src); name != "" {
				params = append(params, &Cursor{Kind: KindTemplateTypeParameter, Spelling: name, Location: u.location(param)})
			}
		}
	}
	annotations := u.annotationCursors(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if parameters != nil && keyOf(child) == keyOf(parameters) {
			continue
		}
		switch child.Type() {
		case "class_specifier", "struct_specifier":
			if params == nil {
				params = []*Cursor{}
			}
			if cursor := u.record(child, params, annotations); cursor != nil {
				return []*Cursor{cursor}
			}
			return nil
		case "declaration", "field_declaration", "function_definition", "template_declaration":
			cursors := u.convert(child, record)
			for _, cursor := range cursors {
				cursor.Children = append(append([]*Cursor{}, annotations...), cursor.Children...)
			}
			return cursors
		}
	}
	return nil
}

func templateParameterName(node *sitter.Node, src []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	if declarator := node.ChildByFieldName("declarator"); declarator != nil {
		if name := identifierOf(declarator); name != nil {
			return name.Content(src)
		}
	}
	for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
		if child := node.NamedChild(i); child.Type() == "type_identifier" {
			return child.Content(src)
		}
	}
	return ""
}

// declaration converts field_declaration, declaration and function_definition
func (u *unit) declaration(node *sitter.Node, record string) []*Cursor {
	var result []*Cursor
	typeNode := node.ChildByFieldName("type")
	declarator := node.ChildByFieldName("declarator")
	if typeNode != nil && typeNode.ChildByFieldName("body") != nil {
		switch typeNode.Type() {
		case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
			nested := u.convert(typeNode, record)
			if declarator == nil {
				for _, cursor := range nested {
					cursor.Children = append(u.annotationCursors(node), cursor.Children...)
				}
			}
			result = append(result, nested...)
		}
	}
	if declarator == nil {
		return result
	}
	inner, suffix := unwrapDeclarator(declarator, u.src)
	qualifiers, isStatic := u.specifiers(node)
	typeText := ""
	if typeNode != nil {
		typeText = strings.TrimSpace(qualifiers + u.content(typeNode) + suffix)
	}
	location := u.location(node)
	switch inner.Type() {
	case "function_declarator":
		nameNode := inner.ChildByFieldName("declarator")
		if nameNode == nil {
			return result
		}
		switch nameNode.Type() {
		case "identifier", "field_identifier":
		default:
			return result
		}
		cursor := &Cursor{Spelling: u.content(nameNode), Location: location, IsStatic: isStatic, ResultType: typeText}
		switch {
		case record != "" && typeNode == nil && cursor.Spelling == record:
			cursor.Kind = KindConstructor
		case typeNode == nil:
			return result
		case record != "":
			cursor.Kind = KindMethod
		default:
			cursor.Kind = KindFunction
			cursor.IsStatic = true
		}
		cursor.HasBody = node.ChildByFieldName("body") != nil
		for i := 0; i < int(inner.NamedChildCount()); i++ {
			if child := inner.NamedChild(i); child.Type() == "trailing_return_type" {
				cursor.ResultType = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(u.content(child)), "->"))
			}
		}
		cursor.Children = u.annotationCursors(node)
		if parameters := inner.ChildByFieldName("parameters"); parameters != nil {
			for i := 0; i < int(parameters.NamedChildCount()); i++ {
				if param := u.parameter(parameters.NamedChild(i)); param != nil {
					cursor.Children = append(cursor.Children, param)
				}
			}
		}
		result = append(result, cursor)
	case "identifier", "field_identifier":
		kind := KindVariable
		if record != "" {
			kind = KindField
		}
		result = append(result, &Cursor{
			Kind:     kind,
			Spelling: u.content(inner),
			Type:     typeText,
			Location: location,
			IsStatic: isStatic,
			IsConst:  strings.Contains(" "+qualifiers, " const ") || strings.Contains(" "+qualifiers, " constexpr "),
			Children: u.annotationCursors(node),
		})
	}
	return result
}

func (u *unit) specifiers(node *sitter.Node) (string, bool) {
	var qualifiers strings.Builder
	isStatic := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "storage_class_specifier":
			if u.content(child) == "static" {
				isStatic = true
			}
		case "type_qualifier":
			qualifiers.WriteString(u.content(child))
			qualifiers.WriteString(" ")
		}
	}
	return qualifiers.String(), isStatic
}

func (u *unit) parameter(node *sitter.Node) *Cursor {
	switch node.Type() {
	case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
	default:
		return nil
	}
	start, end := node.StartByte(), node.EndByte()
	if value := node.ChildByFieldName("default_value"); value != nil {
		end = value.StartByte()
	}
	cursor := &Cursor{Kind: KindParameter, Location: u.location(node)}
	text := string(u.src[start:end])
	if declarator := node.ChildByFieldName("declarator"); declarator != nil {
		if name := identifierOf(declarator); name != nil {
			cursor.Spelling = u.content(name)
			text = string(u.src[start:name.StartByte()]) + string(u.src[name.EndByte():end])
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "=")
	cursor.Type = strings.Join(strings.Fields(text), " ")
	cursor.Children = u.annotationCursors(node)
	return cursor
}

// unwrapDeclarator returns innermost declarator with pointer/reference markers
func unwrapDeclarator(node *sitter.Node, src []byte) (*sitter.Node, string) {
	suffix := ""
	for {
		switch node.Type() {
		case "pointer_declarator", "reference_declarator", "init_declarator", "parenthesized_declarator", "attributed_declarator":
			switch node.Type() {
			case "pointer_declarator":
				suffix += "*"
			case "reference_declarator":
				if strings.HasPrefix(node.Content(src), "&&") {
					suffix += "&&"
				} else {
					suffix += "&"
				}
			}
			next := node.ChildByFieldName("declarator")
			if next == nil && node.NamedChildCount() > 0 {
				next = node.NamedChild(int(node.NamedChildCount()) - 1)
			}
			if next == nil {
				return node, suffix
			}
			node = next
		default:
			return node, suffix
		}
	}
}

func identifierOf(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case "identifier", "field_identifier":
		return node
	}
	if next := node.ChildByFieldName("declarator"); next != nil {
		return identifierOf(next)
	}
	for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
		if found := identifierOf(node.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func baseName(name string) string {
	if idx := strings.Index(name, "<"); idx != -1 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}
