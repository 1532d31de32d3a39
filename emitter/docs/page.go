package docs

import (
	"strconv"
	"strings"

	"github.com/viant/luabind/inspector/graph"
)

const unknownVersion = "Unknown"

type page struct {
	markup Markup
	site   *site
	path   string
	root   string
}

// link returns anchor to definition page, plain text when the definition has no page
func (p *page) link(definition graph.Definition, text string) Span {
	target, ok := p.site.paths[definition]
	if !ok {
		return Text(text)
	}
	if p.root != "" {
		return Link(text, strings.TrimSuffix(p.root, "/")+"/"+target)
	}
	return Link(text, relative(p.path, target))
}

func (p *page) definition(definition graph.Definition) error {
	p.header(definition)
	p.markup.Divider()
	switch actual := definition.(type) {
	case *graph.Namespace:
		p.scope(definition.Symbol(), &actual.Members)
	case *graph.Class:
		p.constructor(actual.Constructor)
		p.scope(definition.Symbol(), &actual.Members)
	case *graph.Enum:
		p.enum(actual)
	case *graph.Function:
		p.function(actual)
	case *graph.Property:
		p.property(actual)
	case *graph.Variable:
		p.variable(actual)
	case *graph.ResourceType:
		return p.resourceType(actual)
	case *graph.ResourceField:
		p.resourceField(actual)
	}
	return nil
}

func (p *page) header(definition graph.Definition) {
	symbol := definition.Symbol()
	p.markup.Heading(1, symbol.ScriptingResolved(), string(definition.Kind()), "symbol")
	p.availability(definition)

	documentation := symbol.Documentation()
	if documentation.Brief != "" {
		p.markup.Paragraph(Text(documentation.Brief))
	}
	for _, paragraph := range documentation.Description {
		p.markup.Paragraph(Text(paragraph))
	}
	if documentation.Warning != "" {
		p.markup.Heading(2, "Warning", "warning")
		p.markup.Paragraph(Text(documentation.Warning))
	}
	if documentation.Example != "" {
		p.markup.Heading(2, "Example", "example")
		p.markup.CodeBlock("lua", documentation.Example)
	}
}

func (p *page) availability(definition graph.Definition) {
	symbol := definition.Symbol()
	var rows [][]Span
	file := symbol.IncludePath
	if file == "" {
		file = definition.Location()
	}
	if file != "" {
		rows = append(rows, []Span{Text("File"), Code(file)})
	}
	switch actual := definition.(type) {
	case *graph.ResourceType:
		rows = append(rows, []Span{Text("Resource Type Code"), Code(actual.Code)})
	case *graph.ResourceField:
	default:
		rows = append(rows, []Span{Text("C++ Symbol"), Code(symbol.Resolved())})
	}
	introduced := unknownVersion
	if !symbol.Introduced.IsZero() {
		introduced = symbol.Introduced.String()
	}
	rows = append(rows, []Span{Text("Available"), Text(introduced)})
	if symbol.IsDeprecated() {
		rows = append(rows, []Span{Text("Deprecated"), Text(symbol.Deprecated.String())})
	}
	p.markup.Table([]string{"Aspect", "Value"}, rows)
}

func (p *page) scope(symbol *graph.Symbol, members *graph.Members) {
	nested := []struct {
		title string
		kind  graph.Kind
	}{
		{"Namespaces", graph.KindNamespace},
		{"Classes", graph.KindClass},
		{"Enums", graph.KindEnum},
	}
	for _, section := range nested {
		var items [][]Span
		for _, child := range symbol.Children() {
			definition := child.Definition()
			if definition == nil || definition.Kind() != section.kind || definition.Undocumented() {
				continue
			}
			items = append(items, []Span{p.link(definition, child.ScriptingName())})
		}
		p.index(section.title, string(section.kind), items)
	}

	var items [][]Span
	for _, variable := range members.Variables {
		if variable.Undocumented() {
			continue
		}
		items = append(items, []Span{p.link(variable, variable.Symbol().ScriptingName())})
	}
	p.index("Variables", "variable", items)

	items = nil
	for _, property := range members.Properties {
		if property.Undocumented() {
			continue
		}
		items = append(items, []Span{p.link(property, property.Symbol().ScriptingName())})
	}
	p.index("Properties", "property", items)

	items = nil
	for _, function := range members.Functions {
		if function.Undocumented() {
			continue
		}
		items = append(items, []Span{p.link(function, function.Symbol().DisplayName())})
	}
	p.index("Functions", "function", items)
}

func (p *page) index(title, class string, items [][]Span) {
	if len(items) == 0 {
		return
	}
	p.markup.Heading(2, title)
	p.markup.List(items, class)
}

func (p *page) constructor(constructor *graph.Constructor) {
	if constructor == nil {
		return
	}
	p.markup.Heading(2, "Constructor")
	p.markup.Paragraph(Code(signature("new", constructor.Parameters, "")))
	p.parameters(constructor.Symbol().Documentation(), constructor.Parameters)
}

func (p *page) enum(enum *graph.Enum) {
	var rows [][]Span
	for _, enumCase := range enum.Cases {
		if enumCase.Undocumented() {
			continue
		}
		rows = append(rows, []Span{
			Code(enumCase.Symbol().ScriptingName()),
			Text(enumCase.Value),
			Text(enumCase.Symbol().Documentation().Brief),
		})
	}
	if len(rows) == 0 {
		return
	}
	p.markup.Heading(2, "Cases")
	p.markup.Table([]string{"Name", "Value", "Description"}, rows)
}

func (p *page) function(function *graph.Function) {
	symbol := function.Symbol()
	p.markup.Heading(2, "Signature")
	p.markup.Paragraph(Code(signature(symbol.ScriptingName(), function.Parameters, function.ReturnType)))
	documentation := symbol.Documentation()
	p.parameters(documentation, function.Parameters)
	p.returns(function.ReturnType, documentation.Returns)
}

func (p *page) parameters(documentation *graph.Documentation, parameters []*graph.Parameter) {
	if len(parameters) == 0 {
		return
	}
	var rows [][]Span
	for _, parameter := range parameters {
		name := parameter.Symbol().Name
		rows = append(rows, []Span{Code(name), Code(parameter.Type), Text(documentation.Parameter(name))})
	}
	p.markup.Heading(2, "Parameters")
	p.markup.Table([]string{"Name", "Type", "Description"}, rows)
}

func (p *page) returns(typeName, description string) {
	if (typeName == "" || typeName == "void") && description == "" {
		return
	}
	p.markup.Heading(2, "Returns")
	var spans []Span
	if typeName != "" {
		spans = append(spans, Code(typeName))
	}
	if description != "" {
		if len(spans) > 0 {
			spans = append(spans, Text(" "))
		}
		spans = append(spans, Text(description))
	}
	p.markup.Paragraph(spans...)
}

func (p *page) property(property *graph.Property) {
	rows := [][]Span{
		{Text("Type"), Code(property.Type())},
		{Text("Access"), Text(access(!property.IsReadOnly()))},
		{Text("Scope"), Text(scope(property.IsStatic()))},
	}
	if property.Getter != nil {
		rows = append(rows, []Span{Text("Getter"), Code(property.Getter.Symbol().Resolved())})
	}
	if property.Setter != nil {
		rows = append(rows, []Span{Text("Setter"), Code(property.Setter.Symbol().Resolved())})
	}
	p.markup.Heading(2, "Property")
	p.markup.Table([]string{"Aspect", "Value"}, rows)
	p.returns(property.Type(), property.Symbol().Documentation().Returns)
}

func (p *page) variable(variable *graph.Variable) {
	p.markup.Heading(2, "Variable")
	p.markup.Table([]string{"Aspect", "Value"}, [][]Span{
		{Text("Type"), Code(variable.Type)},
		{Text("Access"), Text(access(variable.Mutable))},
		{Text("Scope"), Text(scope(variable.Symbol().IsStatic))},
	})
}

func (p *page) resourceType(resourceType *graph.ResourceType) error {
	var items [][]Span
	for _, field := range resourceType.Fields {
		items = append(items, []Span{p.link(field, field.Symbol().ScriptingName())})
	}
	p.index("Fields", "resource-field", items)

	layout, err := resourceType.Layout()
	if err != nil {
		return err
	}
	var rows [][]Span
	for _, entry := range layout {
		rows = append(rows, []Span{Text(entry.OffsetText()), Text(entry.SizeText()), Code(entry.Type), Text(entry.Field), Text(entry.Value)})
	}
	if len(rows) == 0 {
		return nil
	}
	p.markup.Heading(2, "Binary Layout")
	p.markup.Table([]string{"Offset", "Size", "Type", "Field", "Value"}, rows)
	return nil
}

func (p *page) resourceField(field *graph.ResourceField) {
	if repeat := field.Repeat; repeat != nil {
		p.markup.Heading(2, "Repeatable")
		p.markup.Table([]string{"Aspect", "Value"}, [][]Span{
			{Text("Count"), Text(strconv.Itoa(repeat.Count))},
			{Text("Lower Bound"), Text(strconv.Itoa(repeat.Lower))},
			{Text("Upper Bound"), Text(strconv.Itoa(repeat.Upper))},
		})
	}
	var rows [][]Span
	for _, value := range field.Values {
		rows = append(rows, []Span{Code(value.Symbol().ScriptingName()), Code(value.Type), Text(value.Symbol().Documentation().Brief)})
	}
	if len(rows) > 0 {
		p.markup.Heading(2, "Values")
		p.markup.Table([]string{"Name", "Type", "Description"}, rows)
	}
	for _, value := range field.Values {
		rows = nil
		for _, item := range value.Symbols {
			rows = append(rows, []Span{Code(item.Symbol().ScriptingName()), Text(item.Value), Text(item.Symbol().Documentation().Brief)})
		}
		if len(rows) == 0 {
			continue
		}
		p.markup.Heading(3, value.Symbol().ScriptingName()+" Symbols")
		p.markup.Table([]string{"Name", "Value", "Description"}, rows)
	}
}

func signature(name string, parameters []*graph.Parameter, returnType string) string {
	var args []string
	for _, parameter := range parameters {
		args = append(args, strings.TrimSpace(parameter.Type+" "+parameter.Symbol().Name))
	}
	ret := name + "(" + strings.Join(args, ", ") + ")"
	if returnType != "" {
		ret += " -> " + returnType
	}
	return ret
}

func access(mutable bool) string {
	if mutable {
		return "read-write"
	}
	return "read-only"
}

func scope(static bool) string {
	if static {
		return "static"
	}
	return "instance"
}
