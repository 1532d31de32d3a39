package cxx

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/viant/luabind/inspector/annotation"
	"github.com/viant/luabind/inspector/graph"
)

// analysis holds per translation unit scope state
type analysis struct {
	*Inspector
	file      string
	names     []string
	scopes    []graph.Definition // nil for scopes without a definition
	fixes     map[string]string  // parameter name to type, cleared on push and pop
	templates []string           // pending template parameters
}

func (a *analysis) shouldVisit(cursor *Cursor) bool {
	if cursor.Kind == KindAnnotation || cursor.Kind.IsCallable() {
		return true
	}
	return cursor.Location.File == "" || cursor.Location.File == a.file
}

func (a *analysis) visit(cursor, parent *Cursor) (VisitResult, error) {
	if !a.shouldVisit(cursor) {
		return Continue, nil
	}
	switch cursor.Kind {
	case KindAnnotation:
		return Continue, a.annotation(cursor, parent)
	case KindNamespace, KindClassDecl, KindStructDecl, KindClassTemplate, KindEnumDecl,
		KindConstructor, KindMethod, KindFunction, KindField, KindVariable:
		return Continue, a.scope(cursor)
	case KindEnumConstant:
		return Continue, a.enumConstant(cursor)
	case KindTemplateTypeParameter:
		if parent.Kind == KindClassTemplate {
			a.templates = append(a.templates, cursor.Spelling)
		}
		return Continue, nil
	case KindParameter:
		return Continue, a.parameter(cursor)
	}
	return Recurse, nil
}

func (a *analysis) scope(cursor *Cursor) error {
	a.push(cursor.Spelling)
	defer a.pop()
	switch {
	case cursor.Kind.IsRecord():
		a.templates = nil
		defer func() { a.templates = nil }()
	case cursor.Kind == KindNamespace:
		// namespaces are open, a reopened registered namespace keeps collecting members
		if namespace, ok := a.project.Definition(strings.Join(a.names, graph.SourceSeparator)).(*graph.Namespace); ok {
			a.setCurrent(namespace)
		}
	}
	return cursor.Visit(a.visit)
}

func (a *analysis) push(name string) {
	a.names = append(a.names, name)
	a.scopes = append(a.scopes, nil)
	a.fixes = map[string]string{}
}

func (a *analysis) pop() {
	a.names = a.names[:len(a.names)-1]
	a.scopes = a.scopes[:len(a.scopes)-1]
	a.fixes = map[string]string{}
}

func (a *analysis) current() graph.Definition {
	if len(a.scopes) == 0 {
		return nil
	}
	return a.scopes[len(a.scopes)-1]
}

func (a *analysis) setCurrent(definition graph.Definition) {
	a.scopes[len(a.scopes)-1] = definition
}

func (a *analysis) enclosing() graph.Definition {
	if len(a.scopes) < 2 {
		return nil
	}
	return a.scopes[len(a.scopes)-2]
}

func (a *analysis) enclosingScope() graph.Scope {
	scope, _ := a.enclosing().(graph.Scope)
	return scope
}

func (a *analysis) skip(cursor *Cursor, reason string) error {
	a.logger.Debugw("skipped annotated declaration", "file", cursor.Location.String(), "symbol", cursor.Spelling, "kind", cursor.Kind.String(), "reason", reason)
	return nil
}

func (a *analysis) annotation(cursor, parent *Cursor) error {
	tags := a.tags.Parse(cursor.Spelling)
	if !tags.Valid() {
		return nil
	}
	if parent.Kind == KindConstructor || parent.Kind.IsCallable() {
		switch {
		case tags.Has(annotation.TagParameterType):
			if name := tags.Value(annotation.TagSymbol); name != "" {
				a.fixes[name] = tags.Value(annotation.TagParameterType)
			}
			return nil
		case tags.Has(annotation.TagTemplateVariant):
			return a.templateVariant(parent, tags)
		}
	}
	switch parent.Kind {
	case KindNamespace:
		return a.constructNamespace(parent, tags)
	case KindClassDecl, KindStructDecl, KindClassTemplate:
		return a.constructClass(parent, tags)
	case KindEnumDecl:
		return a.constructEnum(parent, tags)
	case KindEnumConstant:
		return a.annotateEnumCase(parent, tags)
	case KindConstructor:
		return a.constructConstructor(parent, tags)
	case KindMethod, KindFunction:
		return a.constructCallable(parent, tags)
	case KindField, KindVariable:
		return a.constructVariable(parent, tags)
	}
	return a.skip(parent, "unsupported annotated kind")
}

// symbol resolves the current name stack, consuming pending template parameters when requested
func (a *analysis) symbol(cursor *Cursor, tags *annotation.Set, withTemplates bool) (*graph.Symbol, []string) {
	resolved := strings.Join(a.names, graph.SourceSeparator)
	var templates []string
	if withTemplates && len(a.templates) > 0 {
		templates = a.templates
		args := "<" + strings.Join(templates, ", ") + ">"
		resolved += args
		a.names[len(a.names)-1] += args
		a.templates = nil
	}
	symbol := a.project.SymbolNamed(resolved)
	symbol.SetScripting(tags.Value(annotation.TagSymbol))
	symbol.IsStatic = cursor.IsStatic || cursor.Kind == KindFunction
	a.versions(symbol, tags)
	if cursor.Comment != "" && symbol.RawDocumentation() == "" {
		symbol.SetDocumentation(cursor.Comment)
	}
	if symbol.Location == "" {
		symbol.Location = cursor.Location.String()
		if cursor.Location.File != "" {
			symbol.IncludePath = a.project.IncludePath(cursor.Location.File)
		}
	}
	return symbol, templates
}

func (a *analysis) versions(symbol *graph.Symbol, tags *annotation.Set) {
	for _, item := range []struct {
		tag    string
		target *graph.Version
	}{
		{annotation.TagAvailable, &symbol.Introduced},
		{annotation.TagDeprecated, &symbol.Deprecated},
	} {
		text, ok := tags.Lookup(item.tag)
		if !ok || text == "" {
			continue
		}
		version, err := graph.ParseVersion(text)
		if err != nil {
			a.logger.Warnw("invalid version", "symbol", symbol.Resolved(), "version", text, "error", err)
		}
		*item.target = version
	}
	if symbol.Deprecated.Before(symbol.Introduced) {
		a.logger.Warnw("deprecated before introduced", "symbol", symbol.Resolved(), "introduced", symbol.Introduced.String(), "deprecated", symbol.Deprecated.String())
	}
}

// location returns cursor location, falling back to the analyzed file
func (a *analysis) location(cursor *Cursor) string {
	if cursor.Location.File != "" {
		return cursor.Location.String()
	}
	if cursor.Location.Line > 0 {
		return Location{File: a.file, Line: cursor.Location.Line, Column: cursor.Location.Column}.String()
	}
	return a.file
}

func (a *analysis) add(definition graph.Definition, tags *annotation.Set) error {
	if tags.Has(annotation.TagUndocumented) {
		definition.SetUndocumented(true)
	}
	return a.project.AddDefinition(definition)
}

func (a *analysis) merge(definition graph.Definition, tags *annotation.Set) {
	if tags.Has(annotation.TagUndocumented) {
		definition.SetUndocumented(true)
	}
	a.synthesizeEnrollment(definition, tags)
	if enrollment := definition.Enrollment(); enrollment != nil {
		if reference := tags.Value(annotation.TagReference); reference != "" {
			enrollment.Reference = reference
		}
		if tags.Has(annotation.TagEnrollmentName) {
			enrollment.RequiresName = true
		}
	}
}

// synthesizeEnrollment attaches generated enrollment to namespace or class annotated with enrollment
func (a *analysis) synthesizeEnrollment(definition graph.Definition, tags *annotation.Set) {
	if !tags.Has(annotation.TagEnrollment) || definition.Enrollment() != nil {
		return
	}
	symbol := a.project.SymbolNamed(definition.Symbol().Resolved() + graph.SourceSeparator + a.enrollmentName)
	definition.SetEnrollment(&graph.Enrollment{
		Symbol:          symbol,
		Reference:       tags.Value(annotation.TagReference),
		RequiresRuntime: true,
		RequiresName:    tags.Has(annotation.TagEnrollmentName),
		HandWritten:     tags.Has(annotation.TagCustom),
		Synthesized:     true,
	})
}

func (a *analysis) constructNamespace(cursor *Cursor, tags *annotation.Set) error {
	if existing := a.current(); existing != nil {
		a.merge(existing, tags)
		return nil
	}
	if !tags.Has(annotation.TagSymbol) && !tags.Has(annotation.TagNamespace) {
		return a.skip(cursor, "namespace without symbol")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	if symbol.Scripting == "" {
		symbol.SetScripting(tags.Value(annotation.TagNamespace))
	}
	namespace, ok := symbol.Definition().(*graph.Namespace)
	if !ok {
		namespace = graph.NewNamespace(symbol, a.location(cursor))
		if err := a.add(namespace, tags); err != nil {
			return err
		}
	}
	a.merge(namespace, tags)
	a.setCurrent(namespace)
	return nil
}

func (a *analysis) constructClass(cursor *Cursor, tags *annotation.Set) error {
	if existing := a.current(); existing != nil {
		a.merge(existing, tags)
		return nil
	}
	if !tags.Has(annotation.TagSymbol) {
		return a.skip(cursor, "class without symbol")
	}
	symbol, templates := a.symbol(cursor, tags, true)
	class := graph.NewClass(symbol, a.location(cursor))
	class.TemplateParameters = templates
	if err := a.add(class, tags); err != nil {
		return err
	}
	a.merge(class, tags)
	a.setCurrent(class)
	return nil
}

func (a *analysis) constructEnum(cursor *Cursor, tags *annotation.Set) error {
	if existing := a.current(); existing != nil {
		a.merge(existing, tags)
		return nil
	}
	if !tags.Has(annotation.TagSymbol) {
		return a.skip(cursor, "enum without symbol")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	enum := graph.NewEnum(symbol, a.location(cursor))
	if err := a.add(enum, tags); err != nil {
		return err
	}
	enum.SetEnrollment(&graph.Enrollment{
		Symbol:          a.project.SymbolNamed(symbol.Resolved() + graph.SourceSeparator + EnumEnrollmentName),
		RequiresRuntime: true,
		Synthesized:     true,
	})
	a.merge(enum, tags)
	a.setCurrent(enum)
	return nil
}

func (a *analysis) enumConstant(cursor *Cursor) error {
	enum, ok := a.current().(*graph.Enum)
	if !ok {
		return nil
	}
	a.push(cursor.Spelling)
	defer a.pop()
	symbol, _ := a.symbol(cursor, emptyTags, false)
	enumCase := graph.NewEnumCase(symbol, a.location(cursor), caseValue(cursor.Value, enum.Cases))
	if err := a.add(enumCase, emptyTags); err != nil {
		return err
	}
	enum.AddCase(enumCase)
	a.setCurrent(enumCase)
	return cursor.Visit(a.visit)
}

var emptyTags = annotation.Parse("")

// caseValue returns explicit value or previous numeric value incremented
func caseValue(value string, previous []*graph.EnumCase) string {
	if value != "" {
		return value
	}
	if len(previous) == 0 {
		return "0"
	}
	prev, err := strconv.ParseInt(previous[len(previous)-1].Value, 0, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(prev+1, 10)
}

func (a *analysis) annotateEnumCase(cursor *Cursor, tags *annotation.Set) error {
	enumCase, ok := a.current().(*graph.EnumCase)
	if !ok {
		return a.skip(cursor, "enum case outside of enum")
	}
	symbol := enumCase.Symbol()
	symbol.SetScripting(tags.Value(annotation.TagSymbol))
	a.versions(symbol, tags)
	if tags.Has(annotation.TagUndocumented) {
		enumCase.SetUndocumented(true)
	}
	return nil
}

func (a *analysis) constructConstructor(cursor *Cursor, tags *annotation.Set) error {
	if a.current() != nil {
		return nil
	}
	if !tags.Has(annotation.TagConstructor) {
		return a.skip(cursor, "constructor without constructor tag")
	}
	class, ok := a.enclosing().(*graph.Class)
	if !ok {
		return a.skip(cursor, "constructor outside of registered class")
	}
	if class.Constructor != nil {
		err := errors.Wrapf(graph.ErrDuplicateConstructor, "%v at %v", class.Symbol().Resolved(), a.location(cursor))
		if a.policy == DuplicateConstructorError {
			return err
		}
		a.logger.Warnw("ignored duplicate constructor", "symbol", class.Symbol().Resolved(), "file", a.location(cursor))
		return nil
	}
	symbol, _ := a.symbol(cursor, tags, false)
	symbol.Scripting = class.Symbol().ScriptingName()
	constructor := graph.NewConstructor(symbol, a.location(cursor))
	if err := class.SetConstructor(constructor); err != nil {
		return err
	}
	if err := a.add(constructor, tags); err != nil {
		return err
	}
	a.setCurrent(constructor)
	return nil
}

func (a *analysis) templateVariant(cursor *Cursor, tags *annotation.Set) error {
	class, ok := a.enclosing().(*graph.Class)
	if !ok {
		return a.skip(cursor, "template variant outside of registered class")
	}
	name := tags.Value(annotation.TagSymbol)
	if name == "" {
		return a.skip(cursor, "template variant without symbol")
	}
	class.AddVariant(name, tags.Value(annotation.TagTemplateVariant))
	return nil
}

func (a *analysis) constructCallable(cursor *Cursor, tags *annotation.Set) error {
	switch {
	case tags.Has(annotation.TagEnrollment):
		return a.constructEnrollment(cursor, tags)
	case a.current() != nil:
		return nil
	case tags.Has(annotation.TagGetter), tags.Has(annotation.TagSetter):
		return a.constructProperty(cursor, tags)
	}
	return a.constructFunction(cursor, tags)
}

func (a *analysis) constructFunction(cursor *Cursor, tags *annotation.Set) error {
	if !tags.Has(annotation.TagSymbol) {
		return a.skip(cursor, "function without symbol")
	}
	owner := a.enclosingScope()
	if owner == nil {
		return a.skip(cursor, "function outside of registered scope")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	fn := graph.NewFunction(symbol, a.location(cursor), cursor.ResultType)
	if err := a.add(fn, tags); err != nil {
		return err
	}
	owner.Scope().AddFunction(fn)
	a.setCurrent(fn)
	return nil
}

func (a *analysis) constructProperty(cursor *Cursor, tags *annotation.Set) error {
	owner := a.enclosingScope()
	if owner == nil {
		return a.skip(cursor, "property outside of registered scope")
	}
	name := tags.Value(annotation.TagGetter)
	if name == "" {
		name = tags.Value(annotation.TagSetter)
	}
	if name == "" {
		name = tags.Value(annotation.TagSymbol)
	}
	if name == "" {
		return a.skip(cursor, "property without name")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	// accessors are owned by the property and not indexed on their own
	fn := graph.NewFunction(symbol, a.location(cursor), cursor.ResultType)
	property := owner.Scope().Property(name)
	if property == nil {
		propertySymbol := a.project.PropertySymbol(owner.Symbol(), name)
		propertySymbol.SetScripting(name)
		propertySymbol.IsStatic = symbol.IsStatic
		propertySymbol.IncludePath = symbol.IncludePath
		if propertySymbol.Location == "" {
			propertySymbol.Location = symbol.Location
		}
		if propertySymbol.RawDocumentation() == "" {
			propertySymbol.SetDocumentation(symbol.RawDocumentation())
		}
		a.versions(propertySymbol, tags)
		property = graph.NewProperty(propertySymbol, a.location(cursor))
		if err := a.add(property, tags); err != nil {
			return err
		}
		owner.Scope().AddProperty(property)
	}
	if tags.Has(annotation.TagGetter) {
		if err := property.SetGetter(fn); err != nil {
			return errors.Wrapf(err, "at %v", a.location(cursor))
		}
	}
	if tags.Has(annotation.TagSetter) {
		if err := property.SetSetter(fn); err != nil {
			return errors.Wrapf(err, "at %v", a.location(cursor))
		}
	}
	a.setCurrent(fn)
	return nil
}

func (a *analysis) constructVariable(cursor *Cursor, tags *annotation.Set) error {
	if a.current() != nil {
		return nil
	}
	if !tags.Has(annotation.TagSymbol) {
		return a.skip(cursor, "variable without symbol")
	}
	owner := a.enclosingScope()
	if owner == nil {
		return a.skip(cursor, "variable outside of registered scope")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	variable := graph.NewVariable(symbol, a.location(cursor), cursor.Type, mutability(tags, cursor))
	if err := a.add(variable, tags); err != nil {
		return err
	}
	owner.Scope().AddVariable(variable)
	a.setCurrent(variable)
	return nil
}

func mutability(tags *annotation.Set, cursor *Cursor) bool {
	switch strings.ToLower(tags.Value(annotation.TagMutability)) {
	case "mutable", "true", "rw", "readwrite":
		return true
	case "immutable", "false", "ro", "readonly":
		return false
	}
	return !cursor.IsConst
}

func (a *analysis) constructEnrollment(cursor *Cursor, tags *annotation.Set) error {
	owner := a.enclosing()
	switch owner.(type) {
	case *graph.Namespace, *graph.Class:
	default:
		return a.skip(cursor, "enrollment outside of registered namespace or class")
	}
	symbol, _ := a.symbol(cursor, tags, false)
	requiresRuntime := false
	for _, param := range cursor.ChildrenOf(KindParameter) {
		if !strings.Contains(param.Type, "string") {
			requiresRuntime = true
		}
	}
	owner.SetEnrollment(&graph.Enrollment{
		Symbol:          symbol,
		Reference:       tags.Value(annotation.TagReference),
		RequiresRuntime: requiresRuntime,
		RequiresName:    tags.Has(annotation.TagEnrollmentName),
		HandWritten:     tags.Has(annotation.TagCustom) || cursor.HasBody,
	})
	return nil
}

func (a *analysis) parameter(cursor *Cursor) error {
	var owner interface {
		graph.Definition
		AddParameter(param *graph.Parameter)
	}
	var params []*graph.Parameter
	switch actual := a.current().(type) {
	case *graph.Function:
		owner, params = actual, actual.Parameters
	case *graph.Constructor:
		owner, params = actual, actual.Parameters
	default:
		return nil
	}
	name := cursor.Spelling
	if name == "" {
		name = "arg" + strconv.Itoa(len(params))
	}
	typeName := cursor.Type
	if fixed, ok := a.fixes[name]; ok {
		typeName = fixed
	}
	ownerSymbol := owner.Symbol()
	symbol := a.project.SymbolNamed(ownerSymbol.Resolved() + graph.SourceSeparator + name)
	if symbol.Location == "" {
		symbol.Location = cursor.Location.String()
	}
	param := graph.NewParameter(symbol, a.location(cursor), typeName)
	if err := a.add(param, emptyTags); err != nil {
		return err
	}
	owner.AddParameter(param)
	names := make([]string, 0, len(params)+1)
	for _, item := range append(params, param) {
		names = append(names, item.Symbol().Name)
	}
	ownerSymbol.Display = ownerSymbol.ScriptingName() + "(" + strings.Join(names, ", ") + ")"
	return nil
}
