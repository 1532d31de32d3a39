package cxx

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/luabind/inspector/annotation"
	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap"
)

// DuplicateConstructorPolicy controls handling of a second annotated constructor
type DuplicateConstructorPolicy string

const (
	// DuplicateConstructorIgnore keeps the first constructor and logs a warning
	DuplicateConstructorIgnore DuplicateConstructorPolicy = "ignore"
	// DuplicateConstructorError fails analysis
	DuplicateConstructorError DuplicateConstructorPolicy = "error"
)

const (
	// DefaultEnrollmentName names synthesized enrollment functions
	DefaultEnrollmentName = "enroll_object_api_in_state"
	// EnumEnrollmentName names enrollment functions generated for enums
	EnumEnrollmentName = "enroll_enum_api"
)

// Inspector analyzes annotated C++ translation units into the project index
type Inspector struct {
	project        *graph.Project
	parser         *Parser
	tags           *annotation.Parser
	master         string
	fs             afs.Service
	logger         *zap.SugaredLogger
	policy         DuplicateConstructorPolicy
	enrollmentName string
	allowErrors    bool
}

// Option represents inspector option
type Option func(i *Inspector)

// WithLogger sets logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithMasterTag sets annotation master tag
func WithMasterTag(tag string) Option {
	return func(i *Inspector) {
		i.tags = annotation.New(tag)
		i.master = tag
	}
}

// WithDuplicateConstructorPolicy sets duplicate constructor policy
func WithDuplicateConstructorPolicy(policy DuplicateConstructorPolicy) Option {
	return func(i *Inspector) {
		i.policy = policy
	}
}

// WithEnrollmentName sets name of synthesized enrollment functions
func WithEnrollmentName(name string) Option {
	return func(i *Inspector) {
		i.enrollmentName = name
	}
}

// WithAllowSyntaxErrors downgrades syntax errors to skipped regions
func WithAllowSyntaxErrors(flag bool) Option {
	return func(i *Inspector) {
		i.allowErrors = flag
	}
}

// WithFileSystem sets file system used to read sources
func WithFileSystem(fs afs.Service) Option {
	return func(i *Inspector) {
		i.fs = fs
	}
}

// NewInspector creates C++ inspector populating project
func NewInspector(project *graph.Project, options ...Option) *Inspector {
	ret := &Inspector{
		project:        project,
		tags:           annotation.New(annotation.DefaultMasterTag),
		master:         annotation.DefaultMasterTag,
		logger:         zap.NewNop().Sugar(),
		policy:         DuplicateConstructorIgnore,
		enrollmentName: DefaultEnrollmentName,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.master == "" {
		ret.master = annotation.DefaultMasterTag
	}
	ret.parser = NewParser(ret.allowErrors).WithMacros(ret.master, ret.enrollmentName)
	return ret
}

// InspectFile reads, parses and analyzes a C++ source file
func (i *Inspector) InspectFile(ctx context.Context, path string) error {
	src, err := i.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %v", path)
	}
	return i.InspectSource(ctx, path, src)
}

// InspectSource parses and analyzes C++ source
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) error {
	unit, err := i.parser.Parse(ctx, path, src)
	if err != nil {
		return err
	}
	return i.InspectUnit(unit)
}

// InspectUnit analyzes translation unit cursor tree
func (i *Inspector) InspectUnit(unit *Cursor) error {
	file := unit.Location.File
	if file == "" {
		file = unit.Spelling
	}
	before := len(i.project.Definitions())
	state := &analysis{Inspector: i, file: file, fixes: map[string]string{}}
	if err := unit.Visit(state.visit); err != nil {
		return errors.Wrapf(err, "failed to analyze %v", file)
	}
	i.project.AddFile(file)
	i.logger.Infow("analyzed translation unit", "file", file, "definitions", len(i.project.Definitions())-before)
	return nil
}
