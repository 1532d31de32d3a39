package annotation

import "strings"

const (
	// DefaultMasterTag identifies annotations addressed to the binding generator
	DefaultMasterTag = "lua"
	// Delimiter separates the master tag and name[:value] components
	Delimiter = "/"
)

// Known tag names, after hyphen normalization
const (
	TagSymbol          = "symbol"
	TagAvailable       = "available"
	TagDeprecated      = "deprecated"
	TagGetter          = "getter"
	TagSetter          = "setter"
	TagConstructor     = "constructor"
	TagParameterType   = "parameter_type"
	TagTemplateVariant = "template_variant"
	TagReference       = "reference"
	TagEnrollment      = "enrollment"
	TagEnrollmentName  = "enrollment_name"
	TagMutability      = "mutability"
	TagNamespace       = "namespace"
	TagUndocumented    = "undocumented"
	TagCustom          = "custom"
)

// Tag represents a single name[:value] component
type Tag struct {
	Name  string
	Value string
}

// Set represents tags parsed from one annotation string
type Set struct {
	master string
	tags   []Tag
	index  map[string]int //position
}

// Parser parses annotation strings for a master tag
type Parser struct {
	master string
}

// Parse parses text, returns an empty set when text is not addressed to the master tag
func (p *Parser) Parse(text string) *Set {
	set := &Set{index: map[string]int{}}
	components := strings.Split(strings.TrimSpace(text), Delimiter)
	if len(components) == 0 || strings.TrimSpace(components[0]) != p.master {
		return set
	}
	set.master = p.master
	for _, component := range components[1:] {
		component = strings.TrimSpace(component)
		if component == "" {
			continue
		}
		set.add(parseTag(component))
	}
	return set
}

func parseTag(component string) Tag {
	name, value := component, ""
	if idx := strings.IndexAny(component, ":="); idx != -1 {
		name, value = component[:idx], component[idx+1:]
	}
	return Tag{Name: NormalizeName(name), Value: strings.TrimSpace(value)}
}

// NormalizeName trims and replaces hyphens with underscores
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

func (s *Set) add(tag Tag) {
	if idx, ok := s.index[tag.Name]; ok {
		s.tags[idx] = tag
		return
	}
	s.index[tag.Name] = len(s.tags)
	s.tags = append(s.tags, tag)
}

// Valid returns true if annotation carried the master tag
func (s *Set) Valid() bool {
	return s.master != ""
}

// Has returns true if tag is present
func (s *Set) Has(name string) bool {
	_, ok := s.index[NormalizeName(name)]
	return ok
}

// Value returns tag value or empty string
func (s *Set) Value(name string) string {
	if idx, ok := s.index[NormalizeName(name)]; ok {
		return s.tags[idx].Value
	}
	return ""
}

// Lookup returns tag value and presence
func (s *Set) Lookup(name string) (string, bool) {
	idx, ok := s.index[NormalizeName(name)]
	if !ok {
		return "", false
	}
	return s.tags[idx].Value, true
}

// Tags returns tags in first-seen order
func (s *Set) Tags() []Tag {
	return s.tags
}

// Len returns number of distinct tags
func (s *Set) Len() int {
	return len(s.tags)
}

// New creates a parser, empty master falls back to DefaultMasterTag
func New(master string) *Parser {
	if master = strings.TrimSpace(master); master == "" {
		master = DefaultMasterTag
	}
	return &Parser{master: master}
}

// Parse parses text with DefaultMasterTag
func Parse(text string) *Set {
	return New(DefaultMasterTag).Parse(text)
}
