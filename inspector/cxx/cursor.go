package cxx

import (
	"strconv"
)

// Kind represents native declaration node kind
type Kind int

const (
	KindUnexposed Kind = iota
	KindTranslationUnit
	KindNamespace
	KindClassDecl
	KindStructDecl
	KindClassTemplate
	KindEnumDecl
	KindEnumConstant
	KindConstructor
	KindMethod
	KindFunction
	KindParameter
	KindField
	KindVariable
	KindTemplateTypeParameter
	KindAnnotation
)

var kindNames = [...]string{
	KindUnexposed:             "Unexposed",
	KindTranslationUnit:       "TranslationUnit",
	KindNamespace:             "Namespace",
	KindClassDecl:             "ClassDecl",
	KindStructDecl:            "StructDecl",
	KindClassTemplate:         "ClassTemplate",
	KindEnumDecl:              "EnumDecl",
	KindEnumConstant:          "EnumConstant",
	KindConstructor:           "Constructor",
	KindMethod:                "Method",
	KindFunction:              "Function",
	KindParameter:             "Parameter",
	KindField:                 "Field",
	KindVariable:              "Variable",
	KindTemplateTypeParameter: "TemplateTypeParameter",
	KindAnnotation:            "Annotation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsRecord returns true for class, struct and class template
func (k Kind) IsRecord() bool {
	return k == KindClassDecl || k == KindStructDecl || k == KindClassTemplate
}

// IsCallable returns true for method and function
func (k Kind) IsCallable() bool {
	return k == KindMethod || k == KindFunction
}

// Location represents source position
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return ""
	}
	return l.File + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Cursor represents declaration node of a translation unit
type Cursor struct {
	Kind       Kind
	Spelling   string // identifier, annotation text for KindAnnotation
	Type       string // declared type of parameters, fields and variables
	ResultType string // return type of callables
	Value      string // enumerator initializer
	Comment    string // raw preceding documentation comment
	Location   Location
	IsStatic   bool
	IsConst    bool
	HasBody    bool
	Children   []*Cursor
}

// VisitResult controls traversal
type VisitResult int

const (
	// Recurse visits children of the current cursor
	Recurse VisitResult = iota
	// Continue skips children of the current cursor
	Continue
	// Break stops traversal
	Break
)

// Visitor is called for every cursor with its parent
type Visitor func(cursor, parent *Cursor) (VisitResult, error)

// Visit traverses children depth first
func (c *Cursor) Visit(visitor Visitor) error {
	_, err := c.visit(visitor)
	return err
}

func (c *Cursor) visit(visitor Visitor) (bool, error) {
	for _, child := range c.Children {
		result, err := visitor(child, c)
		if err != nil {
			return false, err
		}
		switch result {
		case Break:
			return false, nil
		case Recurse:
			next, err := child.visit(visitor)
			if err != nil || !next {
				return next, err
			}
		}
	}
	return true, nil
}

// ChildrenOf returns direct children of kind
func (c *Cursor) ChildrenOf(kind Kind) []*Cursor {
	var result []*Cursor
	for _, child := range c.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Annotations returns annotation texts attached to the cursor
func (c *Cursor) Annotations() []string {
	var result []string
	for _, child := range c.ChildrenOf(KindAnnotation) {
		result = append(result, child.Spelling)
	}
	return result
}
