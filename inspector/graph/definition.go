package graph

// Kind represents definition kind
type Kind string

const (
	KindNamespace           Kind = "namespace"
	KindClass               Kind = "class"
	KindEnum                Kind = "enum"
	KindEnumCase            Kind = "enum-case"
	KindFunction            Kind = "function"
	KindProperty            Kind = "property"
	KindConstructor         Kind = "constructor"
	KindParameter           Kind = "parameter"
	KindVariable            Kind = "variable"
	KindResourceType        Kind = "resource-type"
	KindResourceField       Kind = "resource-field"
	KindResourceValue       Kind = "resource-value"
	KindResourceValueSymbol Kind = "resource-value-symbol"
)

// IsScope returns true for kinds whose redefinition is a collision
func (k Kind) IsScope() bool {
	switch k {
	case KindNamespace, KindClass, KindEnum, KindResourceType:
		return true
	}
	return false
}

// Definition represents one of the closed set of construct definitions
type Definition interface {
	Kind() Kind
	Symbol() *Symbol
	Location() string
	Enrollment() *Enrollment
	SetEnrollment(enrollment *Enrollment)
	Undocumented() bool
	SetUndocumented(flag bool)
	definition()
}

// Enrollment represents registration function of a definition
type Enrollment struct {
	Symbol          *Symbol
	Reference       string
	RequiresRuntime bool
	RequiresName    bool
	HandWritten     bool
	Synthesized     bool
}

// Base represents state shared by all definitions
type Base struct {
	symbol       *Symbol
	location     string
	enrollment   *Enrollment
	undocumented bool
}

func (b *Base) Symbol() *Symbol {
	return b.symbol
}

func (b *Base) Location() string {
	return b.location
}

func (b *Base) Enrollment() *Enrollment {
	return b.enrollment
}

func (b *Base) SetEnrollment(enrollment *Enrollment) {
	b.enrollment = enrollment
}

func (b *Base) Undocumented() bool {
	return b.undocumented
}

func (b *Base) SetUndocumented(flag bool) {
	b.undocumented = flag
}

func (b *Base) definition() {}

func newBase(symbol *Symbol, location string) Base {
	if location == "" && symbol != nil {
		location = symbol.Location
	}
	return Base{symbol: symbol, location: location}
}
