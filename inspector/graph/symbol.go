package graph

import (
	"strings"
)

const (
	// SourceSeparator separates source scopes
	SourceSeparator = "::"
	// ScriptingSeparator separates scripting scopes
	ScriptingSeparator = "."
	propertyMarker     = "#property"
)

// Symbol represents a named entity known under a source and a scripting naming scheme
type Symbol struct {
	Name          string   // source identifier, last scope segment
	Path          []string // enclosing source scopes
	Display       string   // display name, i.e. foo(a, b)
	Scripting     string   // scripting identifier
	ScriptingPath []string // explicit scripting namespace, derived from ancestors when nil
	IsStatic      bool
	Introduced    Version
	Deprecated    Version
	IncludePath   string // source file, relative to include path
	Location      string
	raw           string
	documentation *Documentation
	parent        *Symbol
	children      []*Symbol
	definition    Definition
	property      bool
}

// Resolved returns fully qualified source name
func (s *Symbol) Resolved() string {
	if len(s.Path) == 0 {
		return s.Name
	}
	return strings.Join(s.Path, SourceSeparator) + SourceSeparator + s.Name
}

// key returns project index key, property symbols are keyed apart from same named source members
func (s *Symbol) key() string {
	if s.property {
		return s.Resolved() + propertyMarker
	}
	return s.Resolved()
}

// BaseName returns source identifier without template arguments
func (s *Symbol) BaseName() string {
	return baseName(s.Name)
}

// FlatName joins source scopes with underscore, template arguments excluded
func (s *Symbol) FlatName() string {
	segments := make([]string, 0, len(s.Path)+1)
	for _, segment := range s.Path {
		segments = append(segments, baseName(segment))
	}
	return strings.Join(append(segments, s.BaseName()), "_")
}

func baseName(name string) string {
	if idx := strings.Index(name, "<"); idx != -1 {
		return name[:idx]
	}
	return name
}

// Parent returns parent symbol
func (s *Symbol) Parent() *Symbol {
	return s.parent
}

// Children returns child symbols in creation order
func (s *Symbol) Children() []*Symbol {
	return s.children
}

// Definition returns symbol definition or nil
func (s *Symbol) Definition() Definition {
	return s.definition
}

// ScriptingName returns scripting identifier, source identifier when not set
func (s *Symbol) ScriptingName() string {
	if s.Scripting != "" {
		return s.Scripting
	}
	return s.BaseName()
}

// SetScripting sets scripting identifier, dotted value carries explicit scripting namespace
func (s *Symbol) SetScripting(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	segments := strings.Split(value, ScriptingSeparator)
	s.Scripting = segments[len(segments)-1]
	if len(segments) > 1 {
		s.ScriptingPath = segments[:len(segments)-1]
	}
}

// ScriptingNamespace returns scripting namespace segments
func (s *Symbol) ScriptingNamespace() []string {
	if s.ScriptingPath != nil {
		return s.ScriptingPath
	}
	for parent := s.parent; parent != nil; parent = parent.parent {
		switch parent.definition.(type) {
		case *Namespace, *Class, *Enum, *ResourceType, *ResourceField, *ResourceValue:
			var result []string
			result = append(result, parent.ScriptingNamespace()...)
			return append(result, parent.ScriptingName())
		}
	}
	return nil
}

// ScriptingResolved returns dot separated scripting name
func (s *Symbol) ScriptingResolved() string {
	return strings.Join(append(append([]string{}, s.ScriptingNamespace()...), s.ScriptingName()), ScriptingSeparator)
}

// DisplayName returns display name, scripting name when not set
func (s *Symbol) DisplayName() string {
	if s.Display != "" {
		return s.Display
	}
	return s.ScriptingName()
}

// SetDocumentation sets raw documentation, parsed lazily
func (s *Symbol) SetDocumentation(raw string) {
	s.raw = raw
	s.documentation = nil
}

// RawDocumentation returns raw documentation
func (s *Symbol) RawDocumentation() string {
	return s.raw
}

// Documentation returns parsed documentation
func (s *Symbol) Documentation() *Documentation {
	if s.documentation == nil {
		s.documentation = ParseDocumentation(s.raw)
	}
	return s.documentation
}

// IsDeprecated returns true if deprecated version was specified
func (s *Symbol) IsDeprecated() bool {
	return !s.Deprecated.IsZero()
}

func (s *Symbol) addChild(child *Symbol) {
	child.parent = s
	s.children = append(s.children, child)
}

// SplitName splits source name by "::" ignoring separators inside template arguments
func SplitName(name string) []string {
	var result []string
	depth, start := 0, 0
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && i+1 < len(name) && name[i+1] == ':' {
				if segment := strings.TrimSpace(name[start:i]); segment != "" {
					result = append(result, segment)
				}
				i++
				start = i + 1
			}
		}
	}
	if segment := strings.TrimSpace(name[start:]); segment != "" {
		result = append(result, segment)
	}
	return result
}
