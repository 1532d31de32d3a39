package repository

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"build":        {},
	"cmake-build":  {},
	"out":          {},
	"bazel-out":    {},
	"third_party":  {},
	"vendor":       {},
}

// Sources expands directories into source files with one of extensions.
// Explicit file paths are returned as given, directory entries are sorted and honor root .gitignore.
func Sources(paths []string, extensions ...string) ([]string, error) {
	var result []string
	for _, location := range paths {
		info, err := os.Stat(location)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to locate source %v", location)
		}
		if !info.IsDir() {
			result = append(result, location)
			continue
		}
		files, err := walk(location, extensions)
		if err != nil {
			return nil, err
		}
		result = append(result, files...)
	}
	return result, nil
}

func walk(root string, extensions []string) ([]string, error) {
	gi := loadGitignore(root)
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relative(root, path)+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if gi != nil && gi.MatchesPath(relative(root, path)) {
			return nil
		}
		if hasExtension(name, extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %v", root)
	}
	sort.Strings(files)
	return files, nil
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
