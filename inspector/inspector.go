package inspector

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/luabind/inspector/cxx"
	"github.com/viant/luabind/inspector/graph"
	"github.com/viant/luabind/inspector/repository"
	"github.com/viant/luabind/inspector/resource"
	"go.uber.org/zap"
)

// ErrUnsupportedSource is returned for sources with unknown extension
var ErrUnsupportedSource = errors.New("unsupported source type")

// NativeExtensions lists extensions routed to the C++ analyzer
var NativeExtensions = []string{".h", ".hh", ".hpp", ".hxx", ".cpp", ".cc", ".cxx"}

// SchemaExtensions lists extensions routed to the resource schema analyzer
var SchemaExtensions = []string{".yaml", ".yml"}

// Inspector provides an interface for analyzing sources into the project index
type Inspector interface {
	// InspectSource analyzes source content loaded from path
	InspectSource(ctx context.Context, path string, src []byte) error

	// InspectFile reads and analyzes a source file
	InspectFile(ctx context.Context, path string) error
}

// Config represents analysis settings
type Config struct {
	MasterTag            string
	DuplicateConstructor cxx.DuplicateConstructorPolicy
	AllowSyntaxErrors    bool
	EnrollmentName       string
}

// Factory creates appropriate inspectors based on source extension
type Factory struct {
	project  *graph.Project
	config   *Config
	logger   *zap.SugaredLogger
	fs       afs.Service
	native   *cxx.Inspector
	resource *resource.Inspector
}

// NewFactory creates a new inspector factory populating project
func NewFactory(project *graph.Project, config *Config, logger *zap.SugaredLogger) *Factory {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Factory{project: project, config: config, logger: logger, fs: afs.New()}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case contains(NativeExtensions, ext):
		if f.native == nil {
			options := []cxx.Option{
				cxx.WithLogger(f.logger),
				cxx.WithFileSystem(f.fs),
				cxx.WithAllowSyntaxErrors(f.config.AllowSyntaxErrors),
			}
			if f.config.MasterTag != "" {
				options = append(options, cxx.WithMasterTag(f.config.MasterTag))
			}
			if f.config.DuplicateConstructor != "" {
				options = append(options, cxx.WithDuplicateConstructorPolicy(f.config.DuplicateConstructor))
			}
			if f.config.EnrollmentName != "" {
				options = append(options, cxx.WithEnrollmentName(f.config.EnrollmentName))
			}
			f.native = cxx.NewInspector(f.project, options...)
		}
		return f.native, nil
	case contains(SchemaExtensions, ext):
		if f.resource == nil {
			f.resource = resource.NewInspector(f.project, resource.WithLogger(f.logger), resource.WithFileSystem(f.fs))
		}
		return f.resource, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedSource, "%v", filename)
}

// InspectFile is a convenience method that gets the appropriate inspector and inspects the file
func (f *Factory) InspectFile(ctx context.Context, filename string) error {
	inspector, err := f.GetInspector(filename)
	if err != nil {
		return err
	}
	return inspector.InspectFile(ctx, filename)
}

// InspectPaths expands directories and inspects every source one at a time
func (f *Factory) InspectPaths(ctx context.Context, paths []string) error {
	extensions := append(append([]string{}, NativeExtensions...), SchemaExtensions...)
	files, err := repository.Sources(paths, extensions...)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := f.InspectFile(ctx, file); err != nil {
			return err
		}
	}
	f.logger.Infow("analysis completed", "files", len(files), "definitions", len(f.project.Definitions()))
	return nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
