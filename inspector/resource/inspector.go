package resource

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema is returned for schema entries missing required attributes
var ErrInvalidSchema = errors.New("invalid resource schema")

// Inspector imports resource schema modules into the project index
type Inspector struct {
	project *graph.Project
	fs      afs.Service
	logger  *zap.SugaredLogger
}

// Option represents inspector option
type Option func(i *Inspector)

// WithLogger sets logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithFileSystem sets file system used to read schema modules
func WithFileSystem(fs afs.Service) Option {
	return func(i *Inspector) {
		i.fs = fs
	}
}

// NewInspector creates resource schema inspector populating project
func NewInspector(project *graph.Project, options ...Option) *Inspector {
	ret := &Inspector{project: project, logger: zap.NewNop().Sugar()}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// InspectFile reads and imports schema module
func (i *Inspector) InspectFile(ctx context.Context, path string) error {
	data, err := i.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %v", path)
	}
	return i.InspectSource(ctx, path, data)
}

// InspectSource decodes and imports schema module
func (i *Inspector) InspectSource(_ context.Context, path string, data []byte) error {
	schema := &Schema{}
	if err := yaml.Unmarshal(data, schema); err != nil {
		return errors.Wrapf(err, "failed to decode resource schema %v", path)
	}
	return i.InspectSchema(path, schema)
}

// InspectSchema synthesizes resource definitions of schema
func (i *Inspector) InspectSchema(path string, schema *Schema) error {
	before := len(i.project.Definitions())
	for _, item := range schema.Types {
		if err := i.resourceType(path, item); err != nil {
			return errors.Wrapf(err, "failed to import %v", path)
		}
	}
	i.project.AddFile(path)
	i.logger.Infow("analyzed resource schema", "file", path, "types", len(schema.Types), "definitions", len(i.project.Definitions())-before)
	return nil
}

func (i *Inspector) symbol(path, resolved, scripting, documentation string) *graph.Symbol {
	symbol := i.project.SymbolNamed(resolved)
	symbol.SetScripting(scripting)
	if documentation != "" {
		symbol.SetDocumentation(documentation)
	}
	if symbol.Location == "" {
		symbol.Location = path
		symbol.IncludePath = i.project.IncludePath(path)
	}
	return symbol
}

func (i *Inspector) versions(symbol *graph.Symbol, available, deprecated string) {
	for _, item := range []struct {
		text   string
		target *graph.Version
	}{
		{available, &symbol.Introduced},
		{deprecated, &symbol.Deprecated},
	} {
		if item.text == "" {
			continue
		}
		version, err := graph.ParseVersion(item.text)
		if err != nil {
			i.logger.Warnw("invalid version", "symbol", symbol.Resolved(), "version", item.text, "error", err)
		}
		*item.target = version
	}
}

func (i *Inspector) resourceType(path string, item *Type) error {
	code := strings.TrimSpace(item.Code)
	if code == "" {
		return errors.Wrapf(ErrInvalidSchema, "resource type %q without code", item.Name)
	}
	name := item.Name
	if name == "" {
		name = code
	}
	symbol := i.symbol(path, code, name, item.Documentation)
	i.versions(symbol, item.Available, item.Deprecated)
	resourceType := graph.NewResourceType(symbol, path, code)
	resourceType.SetUndocumented(item.Undocumented)
	if err := i.project.AddDefinition(resourceType); err != nil {
		return err
	}
	for _, field := range item.Fields {
		if field.Name == "" {
			return errors.Wrapf(ErrInvalidSchema, "field without name in %v", code)
		}
		resourceField, err := i.field(path, resourceType, field)
		if err != nil {
			return err
		}
		resourceType.AddField(resourceField)
	}
	return nil
}

func (i *Inspector) field(path string, owner *graph.ResourceType, item *Field) (*graph.ResourceField, error) {
	symbol := i.symbol(path, owner.Symbol().Resolved()+graph.SourceSeparator+item.Name, item.Name, item.Documentation)
	i.versions(symbol, item.Available, item.Deprecated)
	if err := item.Repeat.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "field %v", symbol.Resolved()), ErrInvalidSchema)
	}
	field := graph.NewResourceField(symbol, path, item.Repeat)
	if err := i.project.AddDefinition(field); err != nil {
		return nil, err
	}
	for _, value := range item.Values {
		if value.Name == "" || value.Type == "" {
			return nil, errors.Wrapf(ErrInvalidSchema, "value of %v requires name and type", symbol.Resolved())
		}
		resourceValue, err := i.value(path, field, value)
		if err != nil {
			return nil, err
		}
		field.AddValue(resourceValue)
	}
	return field, nil
}

func (i *Inspector) value(path string, owner *graph.ResourceField, item *Value) (*graph.ResourceValue, error) {
	symbol := i.symbol(path, owner.Symbol().Resolved()+graph.SourceSeparator+item.Name, item.Name, item.Documentation)
	value := graph.NewResourceValue(symbol, path, strings.ToUpper(item.Type))
	if err := i.project.AddDefinition(value); err != nil {
		return nil, err
	}
	for _, constant := range item.Symbols {
		if constant.Name == "" {
			continue
		}
		constantSymbol := i.symbol(path, symbol.Resolved()+graph.SourceSeparator+constant.Name, constant.Name, constant.Documentation)
		valueSymbol := graph.NewResourceValueSymbol(constantSymbol, path, constant.Value)
		if err := i.project.AddDefinition(valueSymbol); err != nil {
			return nil, err
		}
		value.AddSymbol(valueSymbol)
	}
	return value, nil
}
