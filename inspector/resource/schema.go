package resource

import "github.com/viant/luabind/inspector/graph"

// Schema represents resource schema module
type Schema struct {
	Types []*Type `yaml:"types"`
}

// Type represents a registered resource type
type Type struct {
	Code          string   `yaml:"code"`
	Name          string   `yaml:"name"`
	Documentation string   `yaml:"documentation,omitempty"`
	Available     string   `yaml:"available,omitempty"`
	Deprecated    string   `yaml:"deprecated,omitempty"`
	Undocumented  bool     `yaml:"undocumented,omitempty"`
	Fields        []*Field `yaml:"fields,omitempty"`
}

// Field represents a resource type field
type Field struct {
	Name          string        `yaml:"name"`
	Documentation string        `yaml:"documentation,omitempty"`
	Available     string        `yaml:"available,omitempty"`
	Deprecated    string        `yaml:"deprecated,omitempty"`
	Repeat        *graph.Repeat `yaml:"repeat,omitempty"`
	Values        []*Value      `yaml:"values,omitempty"`
}

// Value represents a binary value of a field
type Value struct {
	Name          string    `yaml:"name"`
	Type          string    `yaml:"type"`
	Documentation string    `yaml:"documentation,omitempty"`
	Symbols       []*Symbol `yaml:"symbols,omitempty"`
}

// Symbol represents a named constant of a value
type Symbol struct {
	Name          string `yaml:"name"`
	Value         string `yaml:"value"`
	Documentation string `yaml:"documentation,omitempty"`
}
