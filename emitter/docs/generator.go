package docs

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap"
)

const (
	// DefaultTitle is root index page title
	DefaultTitle = "API Reference"
	// DefaultOutput is documentation output directory
	DefaultOutput = "docs"
	indexName     = "index"
)

// Config represents documentation settings
type Config struct {
	Output string
	Format Format
	Root   string // absolute link root, links are relative when empty
	Title  string
}

// Generator emits one documentation page per documented definition plus a root index
type Generator struct {
	config *Config
	logger *zap.SugaredLogger
}

// New creates a generator
func New(config *Config, logger *zap.SugaredLogger) *Generator {
	ret := &Config{}
	if config != nil {
		*ret = *config
	}
	if ret.Output == "" {
		ret.Output = DefaultOutput
	}
	if ret.Format == "" {
		ret.Format = FormatMarkdown
	}
	if ret.Title == "" {
		ret.Title = DefaultTitle
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{config: ret, logger: logger}
}

// IsPageBearing returns true for kinds rendered on their own page
func IsPageBearing(kind graph.Kind) bool {
	switch kind {
	case graph.KindNamespace, graph.KindClass, graph.KindEnum, graph.KindFunction,
		graph.KindProperty, graph.KindVariable, graph.KindResourceType, graph.KindResourceField:
		return true
	}
	return false
}

// Emit generates documentation pages
func (g *Generator) Emit(project *graph.Project) (graph.Documents, error) {
	if err := g.config.Format.Validate(); err != nil {
		return nil, err
	}
	site := g.site(project)
	var result graph.Documents
	for _, definition := range site.definitions {
		pagePath := site.paths[definition]
		markup, err := g.config.Format.NewMarkup(definition.Symbol().ScriptingResolved())
		if err != nil {
			return nil, err
		}
		p := &page{markup: markup, site: site, path: pagePath, root: g.config.Root}
		if err := p.definition(definition); err != nil {
			return nil, err
		}
		result.Append(&graph.Document{Kind: graph.KindPage, Path: pagePath, Name: definition.Symbol().Resolved(), Content: markup.Bytes()})
	}
	index, err := g.index(site)
	if err != nil {
		return nil, err
	}
	result.Append(index)
	g.logger.Infow("generated documentation", "format", g.config.Format, "pages", len(result), "output", g.config.Output)
	return result, nil
}

// site maps every documented page-bearing definition to its page path
type site struct {
	extension   string
	index       string
	definitions []graph.Definition
	paths       map[graph.Definition]string
	used        map[string]bool
}

func (g *Generator) site(project *graph.Project) *site {
	ret := &site{
		extension: g.config.Format.Extension(),
		paths:     map[graph.Definition]string{},
		used:      map[string]bool{},
	}
	ret.index = indexName + "." + ret.extension
	for _, definition := range project.Definitions() {
		if definition.Symbol() == nil || definition.Undocumented() || !IsPageBearing(definition.Kind()) {
			continue
		}
		ret.definitions = append(ret.definitions, definition)
		ret.paths[definition] = ret.pagePath(definition)
	}
	return ret
}

// pagePath returns page path of definition, a name shared by a property and a member is suffixed with kind
func (s *site) pagePath(definition graph.Definition) string {
	symbol := definition.Symbol()
	var segments []string
	for _, segment := range symbol.Path {
		segments = append(segments, sanitize(segment))
	}
	name := sanitize(symbol.Name)
	if len(segments) == 0 && name == indexName {
		name += "_"
	}
	result := path.Join(append(segments, name+"."+s.extension)...)
	if s.used[result] {
		result = path.Join(append(segments, name+"_"+sanitize(string(definition.Kind()))+"."+s.extension)...)
	}
	s.used[result] = true
	return result
}

func (g *Generator) index(site *site) (*graph.Document, error) {
	markup, err := g.config.Format.NewMarkup(g.config.Title)
	if err != nil {
		return nil, err
	}
	p := &page{markup: markup, site: site, path: site.index, root: g.config.Root}
	markup.Heading(1, g.config.Title, "index")
	sections := []struct {
		title string
		kind  graph.Kind
	}{
		{"Namespaces", graph.KindNamespace},
		{"Classes", graph.KindClass},
		{"Enums", graph.KindEnum},
		{"Resource Types", graph.KindResourceType},
	}
	for _, section := range sections {
		var items [][]Span
		for _, definition := range site.definitions {
			if definition.Kind() != section.kind {
				continue
			}
			items = append(items, []Span{p.link(definition, definition.Symbol().ScriptingResolved())})
		}
		if len(items) == 0 {
			continue
		}
		markup.Heading(2, section.title)
		markup.List(items, string(section.kind))
	}
	return &graph.Document{Kind: graph.KindIndex, Path: site.index, Name: g.config.Title, Content: markup.Bytes()}, nil
}

// sanitize keeps letters, digits, dash and underscore
func sanitize(segment string) string {
	var builder strings.Builder
	for _, r := range segment {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	if builder.Len() == 0 {
		return "_"
	}
	return builder.String()
}

// relative returns link from page at from to target page
func relative(from, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(from)), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
