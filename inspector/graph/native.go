package graph

import (
	"github.com/cockroachdb/errors"
)

// Members represents functions, properties and variables of a namespace or class
type Members struct {
	Functions   []*Function
	Properties  []*Property
	Variables   []*Variable
	propertyMap map[string]int //position
}

// AddFunction appends function
func (m *Members) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}

// AddVariable appends variable
func (m *Members) AddVariable(variable *Variable) {
	m.Variables = append(m.Variables, variable)
}

// Property returns property by scripting name
func (m *Members) Property(name string) *Property {
	if idx, ok := m.propertyMap[name]; ok {
		return m.Properties[idx]
	}
	return nil
}

// AddProperty adds property keyed by its scripting name
func (m *Members) AddProperty(property *Property) {
	if m.propertyMap == nil {
		m.propertyMap = map[string]int{}
	}
	name := property.Symbol().ScriptingName()
	if idx, ok := m.propertyMap[name]; ok {
		m.Properties[idx] = property
		return
	}
	m.propertyMap[name] = len(m.Properties)
	m.Properties = append(m.Properties, property)
}

// Scope represents definitions owning members
type Scope interface {
	Definition
	Scope() *Members
}

// Namespace represents scripting namespace
type Namespace struct {
	Base
	Members
}

func (n *Namespace) Kind() Kind {
	return KindNamespace
}

func (n *Namespace) Scope() *Members {
	return &n.Members
}

// NewNamespace creates a namespace
func NewNamespace(symbol *Symbol, location string) *Namespace {
	return &Namespace{Base: newBase(symbol, location)}
}

// Variant represents template instantiation exposed under a scripting name
type Variant struct {
	Name string
	Type string
}

// Class represents scripting class
type Class struct {
	Base
	Members
	Constructor        *Constructor
	TemplateParameters []string
	Variants           []Variant
}

func (c *Class) Kind() Kind {
	return KindClass
}

func (c *Class) Scope() *Members {
	return &c.Members
}

// IsTemplate returns true for templated class
func (c *Class) IsTemplate() bool {
	return len(c.TemplateParameters) > 0
}

// AddVariant adds or replaces template variant
func (c *Class) AddVariant(name, typeName string) {
	for i := range c.Variants {
		if c.Variants[i].Name == name {
			c.Variants[i].Type = typeName
			return
		}
	}
	c.Variants = append(c.Variants, Variant{Name: name, Type: typeName})
}

// SetConstructor sets constructor, returns ErrDuplicateConstructor if already set
func (c *Class) SetConstructor(constructor *Constructor) error {
	if c.Constructor != nil && c.Constructor != constructor {
		return errors.Wrapf(ErrDuplicateConstructor, "class %v", c.Symbol().Resolved())
	}
	c.Constructor = constructor
	return nil
}

// NewClass creates a class
func NewClass(symbol *Symbol, location string) *Class {
	return &Class{Base: newBase(symbol, location)}
}

// Enum represents scripting enumeration
type Enum struct {
	Base
	Cases []*EnumCase
}

func (e *Enum) Kind() Kind {
	return KindEnum
}

// AddCase appends case
func (e *Enum) AddCase(enumCase *EnumCase) {
	e.Cases = append(e.Cases, enumCase)
}

// NewEnum creates an enum
func NewEnum(symbol *Symbol, location string) *Enum {
	return &Enum{Base: newBase(symbol, location)}
}

// EnumCase represents enumeration case
type EnumCase struct {
	Base
	Value string
}

func (e *EnumCase) Kind() Kind {
	return KindEnumCase
}

// NewEnumCase creates an enum case
func NewEnumCase(symbol *Symbol, location, value string) *EnumCase {
	return &EnumCase{Base: newBase(symbol, location), Value: value}
}

// Parameter represents function or constructor parameter
type Parameter struct {
	Base
	Type string
}

func (p *Parameter) Kind() Kind {
	return KindParameter
}

// NewParameter creates a parameter
func NewParameter(symbol *Symbol, location, typeName string) *Parameter {
	return &Parameter{Base: newBase(symbol, location), Type: typeName}
}

// Function represents free, static or member function
type Function struct {
	Base
	ReturnType string
	Parameters []*Parameter
	Static     bool // accessor overloads share a symbol, static-ness is per declaration
}

func (f *Function) Kind() Kind {
	return KindFunction
}

// IsStatic returns true for static or namespace level function
func (f *Function) IsStatic() bool {
	return f.Static
}

// AddParameter appends parameter
func (f *Function) AddParameter(param *Parameter) {
	f.Parameters = append(f.Parameters, param)
}

// NewFunction creates a function
func NewFunction(symbol *Symbol, location, returnType string) *Function {
	return &Function{Base: newBase(symbol, location), ReturnType: returnType, Static: symbol.IsStatic}
}

// Constructor represents scripting constructor
type Constructor struct {
	Base
	Parameters []*Parameter
}

func (c *Constructor) Kind() Kind {
	return KindConstructor
}

// AddParameter appends parameter
func (c *Constructor) AddParameter(param *Parameter) {
	c.Parameters = append(c.Parameters, param)
}

// NewConstructor creates a constructor
func NewConstructor(symbol *Symbol, location string) *Constructor {
	return &Constructor{Base: newBase(symbol, location)}
}

// Property represents getter/setter pair exposed under one scripting name
type Property struct {
	Base
	Getter *Function
	Setter *Function
}

func (p *Property) Kind() Kind {
	return KindProperty
}

// IsStatic returns accessor static-ness
func (p *Property) IsStatic() bool {
	if p.Getter != nil {
		return p.Getter.IsStatic()
	}
	return p.Setter != nil && p.Setter.IsStatic()
}

// IsReadOnly returns true for property without setter
func (p *Property) IsReadOnly() bool {
	return p.Setter == nil
}

// Type returns getter return type or setter parameter type
func (p *Property) Type() string {
	if p.Getter != nil && p.Getter.ReturnType != "" {
		return p.Getter.ReturnType
	}
	if p.Setter != nil && len(p.Setter.Parameters) > 0 {
		return p.Setter.Parameters[0].Type
	}
	return ""
}

// SetGetter sets getter, rejects overwrite and static mismatch
func (p *Property) SetGetter(fn *Function) error {
	if p.Getter != nil && p.Getter != fn {
		return errors.Wrapf(ErrIllegalProperty, "getter of %v already set to %v", p.symbol.Resolved(), p.Getter.Symbol().Resolved())
	}
	if p.Setter != nil && p.Setter.IsStatic() != fn.IsStatic() {
		return errors.Wrapf(ErrIllegalProperty, "getter and setter of %v differ in static-ness", p.symbol.Resolved())
	}
	p.Getter = fn
	return nil
}

// SetSetter sets setter, rejects overwrite and static mismatch
func (p *Property) SetSetter(fn *Function) error {
	if p.Setter != nil && p.Setter != fn {
		return errors.Wrapf(ErrIllegalProperty, "setter of %v already set to %v", p.symbol.Resolved(), p.Setter.Symbol().Resolved())
	}
	if p.Getter != nil && p.Getter.IsStatic() != fn.IsStatic() {
		return errors.Wrapf(ErrIllegalProperty, "getter and setter of %v differ in static-ness", p.symbol.Resolved())
	}
	p.Setter = fn
	return nil
}

// NewProperty creates a property
func NewProperty(symbol *Symbol, location string) *Property {
	return &Property{Base: newBase(symbol, location)}
}

// Variable represents data member or namespace variable
type Variable struct {
	Base
	Type    string
	Mutable bool
}

func (v *Variable) Kind() Kind {
	return KindVariable
}

// NewVariable creates a variable
func NewVariable(symbol *Symbol, location, typeName string, mutable bool) *Variable {
	return &Variable{Base: newBase(symbol, location), Type: typeName, Mutable: mutable}
}
