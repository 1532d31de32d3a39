package commands

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/luabind/config"
	"github.com/viant/luabind/emitter/docs"
	"github.com/viant/luabind/emitter/enrollment"
	"github.com/viant/luabind/emitter/luabridge"
	"github.com/viant/luabind/inspector"
	"github.com/viant/luabind/inspector/graph"
	"github.com/viant/luabind/inspector/repository"
	"go.uber.org/zap"
)

// Summary represents outcome of a run
type Summary struct {
	Definitions int
	Written     int
	Unchanged   int
}

type runner struct {
	config *config.Config
	logger *zap.SugaredLogger
	fs     afs.Service
}

func newRunner(cfg *config.Config, logger *zap.SugaredLogger) *runner {
	return &runner{config: cfg, logger: logger, fs: afs.New()}
}

// run analyzes sources fully before generating any output
func (r *runner) run(ctx context.Context, sources []string) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	project, files, err := r.project(sources)
	if err != nil {
		return nil, err
	}
	factory := inspector.NewFactory(project, r.config.Inspection(), r.logger)
	if err := factory.InspectPaths(ctx, files); err != nil {
		return nil, err
	}
	summary := &Summary{Definitions: len(project.Definitions())}

	if r.config.API.Output != "" {
		synthesizer := enrollment.New(append(r.config.Enrollment(), enrollment.WithLogger(r.logger))...)
		generator := luabridge.New(r.config.LuaBridge(), synthesizer, r.logger)
		if err := r.emit(ctx, generator, project, "", summary); err != nil {
			return nil, err
		}
	}
	if r.config.Docs.Output != "" {
		generator := docs.New(r.config.Documentation(), r.logger)
		if err := r.emit(ctx, generator, project, r.config.Docs.Output, summary); err != nil {
			return nil, err
		}
	}
	r.logger.Infow("done", "definitions", summary.Definitions, "written", summary.Written, "unchanged", summary.Unchanged)
	return summary, nil
}

// project creates project named after the build system root of the first source
func (r *runner) project(sources []string) (*graph.Project, []string, error) {
	var files []string
	for _, source := range sources {
		location, err := filepath.Abs(source)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid source %v", source)
		}
		files = append(files, location)
	}
	repo, err := repository.New().DetectRepository(files[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to detect project of %v", sources[0])
	}
	info := repo.Info
	project := graph.NewProject(info.Name)
	project.RootPath = info.RootPath
	project.SetLogger(r.logger)
	for _, includePath := range r.config.IncludePaths {
		location, err := filepath.Abs(includePath)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid include path %v", includePath)
		}
		project.IncludePaths = append(project.IncludePaths, location)
	}
	r.logger.Debugw("detected project", "name", info.Name, "path", info.RootPath, "type", info.Type, "repository", repo.Kind, "origin", repo.Origin)
	return project, files, nil
}

func (r *runner) emit(ctx context.Context, emitter graph.Emitter, project *graph.Project, baseDir string, summary *Summary) error {
	documents, err := emitter.Emit(project)
	if err != nil {
		return err
	}
	for _, document := range documents {
		location := document.Path
		if baseDir != "" {
			location = filepath.Join(baseDir, filepath.FromSlash(document.Path))
		}
		written, err := r.write(ctx, location, document)
		if err != nil {
			return err
		}
		if written {
			summary.Written++
		} else {
			summary.Unchanged++
		}
	}
	return nil
}

// write uploads document unless existing content hashes the same
func (r *runner) write(ctx context.Context, output string, document *graph.Document) (bool, error) {
	location, err := filepath.Abs(output)
	if err != nil {
		return false, errors.Wrapf(err, "invalid output %v", output)
	}
	if exists, _ := r.fs.Exists(ctx, location); exists {
		if existing, err := r.fs.DownloadWithURL(ctx, location); err == nil {
			if hash, err := graph.Hash(existing); err == nil && hash == document.Hash {
				r.logger.Debugw("output unchanged", "path", location)
				return false, nil
			}
		}
	}
	if err := r.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(document.Content)); err != nil {
		return false, errors.Wrapf(err, "failed to write %v", location)
	}
	r.logger.Infow("output written", "path", location, "kind", document.Kind, "size", len(document.Content))
	return true, nil
}
