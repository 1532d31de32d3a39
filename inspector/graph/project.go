package graph

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Project represents the index of symbols and definitions discovered across analyzed sources
type Project struct {
	Name          string
	RootPath      string
	IncludePaths  []string
	Files         []string
	symbols       map[string]*Symbol
	roots         []*Symbol
	definitions   []Definition
	definitionMap map[string]int //position
	logger        *zap.SugaredLogger
}

// SetLogger sets logger
func (p *Project) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		p.logger = logger
	}
}

// SymbolNamed returns symbol for resolved source name, creating it and its ancestors
func (p *Project) SymbolNamed(name string) *Symbol {
	if symbol, ok := p.symbols[name]; ok {
		return symbol
	}
	segments := SplitName(name)
	if len(segments) == 0 {
		return nil
	}
	var parent *Symbol
	for i := range segments {
		resolved := strings.Join(segments[:i+1], SourceSeparator)
		symbol, ok := p.symbols[resolved]
		if !ok {
			symbol = &Symbol{Name: segments[i], Path: append([]string{}, segments[:i]...)}
			p.symbols[resolved] = symbol
			if parent == nil {
				p.roots = append(p.roots, symbol)
			} else {
				parent.addChild(symbol)
			}
		}
		parent = symbol
	}
	if name != parent.Resolved() {
		p.symbols[name] = parent
	}
	return parent
}

// PropertySymbol returns scripting property symbol of owner, creating it.
// Property symbols are indexed apart so a property may share its name with a source member.
func (p *Project) PropertySymbol(owner *Symbol, name string) *Symbol {
	key := owner.Resolved() + SourceSeparator + name + propertyMarker
	if symbol, ok := p.symbols[key]; ok {
		return symbol
	}
	symbol := &Symbol{Name: name, Path: append(append([]string{}, owner.Path...), owner.Name), property: true}
	p.symbols[key] = symbol
	owner.addChild(symbol)
	return symbol
}

// Lookup returns existing symbol or nil
func (p *Project) Lookup(name string) *Symbol {
	return p.symbols[name]
}

// Roots returns top level symbols in creation order
func (p *Project) Roots() []*Symbol {
	return p.roots
}

// AddDefinition indexes definition under its symbol's resolved name.
// Re-adding the same definition is a no-op, a second scope definition is a collision,
// other kinds keep the first definition indexed.
func (p *Project) AddDefinition(definition Definition) error {
	symbol := definition.Symbol()
	if symbol == nil {
		return errors.Newf("%v definition without symbol", definition.Kind())
	}
	name, key := symbol.Resolved(), symbol.key()
	if owned := p.symbols[key]; owned != symbol {
		return errors.Newf("symbol %v is not owned by project %v", name, p.Name)
	}
	if idx, ok := p.definitionMap[key]; ok {
		existing := p.definitions[idx]
		if existing == definition {
			return nil
		}
		if existing.Kind().IsScope() || definition.Kind().IsScope() {
			err := errors.Wrapf(ErrSymbolCollision, "%v %v at %v already defined as %v at %v",
				definition.Kind(), name, definition.Location(), existing.Kind(), existing.Location())
			return errors.WithHint(err, "two declarations claim the same registration function")
		}
		p.logger.Debugw("dropped duplicate definition", "symbol", name, "kind", definition.Kind(),
			"location", definition.Location(), "kept", existing.Location())
		return nil
	}
	p.definitionMap[key] = len(p.definitions)
	p.definitions = append(p.definitions, definition)
	symbol.definition = definition
	return nil
}

// Definition returns definition for resolved name or nil
func (p *Project) Definition(name string) Definition {
	if idx, ok := p.definitionMap[name]; ok {
		return p.definitions[idx]
	}
	return nil
}

// PropertyDefinition returns property of owner resolved name or nil
func (p *Project) PropertyDefinition(owner, name string) *Property {
	property, _ := p.Definition(owner + SourceSeparator + name + propertyMarker).(*Property)
	return property
}

// Definitions returns definitions in discovery order
func (p *Project) Definitions() []Definition {
	return append([]Definition{}, p.definitions...)
}

// DefinitionsOf returns definitions of kinds in discovery order
func (p *Project) DefinitionsOf(kinds ...Kind) []Definition {
	var result []Definition
	for _, definition := range p.definitions {
		for _, kind := range kinds {
			if definition.Kind() == kind {
				result = append(result, definition)
				break
			}
		}
	}
	return result
}

// AddFile records analyzed source
func (p *Project) AddFile(path string) {
	p.Files = append(p.Files, path)
}

// IncludePath returns path relative to the longest matching include path, then to the project root
func (p *Project) IncludePath(path string) string {
	candidates := append([]string{}, p.IncludePaths...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})
	if p.RootPath != "" {
		candidates = append(candidates, p.RootPath)
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		relPath, err := filepath.Rel(candidate, path)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(relPath)
	}
	return filepath.Base(path)
}

// NewProject creates a project
func NewProject(name string) *Project {
	return &Project{
		Name:          name,
		symbols:       map[string]*Symbol{},
		definitionMap: map[string]int{},
		logger:        zap.NewNop().Sugar(),
	}
}
