package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	// Common project root marker files/directories
	markers []string
	fs      afs.Service
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"CMakeLists.txt", // CMake projects
			"meson.build",    // Meson projects
			"WORKSPACE",      // Bazel projects
			"MODULE.bazel",   // Bazel modules
			"vcpkg.json",     // vcpkg manifests
			"Makefile",       // Make projects
			".git",           // Generic VCS marker
		},
		fs: afs.New(),
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(filePath string, baseURL ...string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: startDir,
	}
	if rootPath == "" && len(baseURL) > 0 && baseURL[0] != "" {
		info.RootPath = baseURL[0]
	} else if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	info.Name = filepath.Base(info.RootPath)
	if projectType != "" {
		info.Name = d.extractProjectName(rootPath, projectType)
	}
	return info, nil
}

// DetectRepository identifies the repository containing the given file path
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	info, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	if gitRoot := d.findGitRoot(startDir); gitRoot != "" {
		return &Repository{
			Kind:   "git",
			Root:   gitRoot,
			Origin: d.extractGitOrigin(gitRoot),
			Info:   info,
		}, nil
	}
	return &Repository{
		Kind: info.Type,
		Root: info.RootPath,
		Info: info,
	}, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// findGitRoot finds the root of the git repository containing the given directory
func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || homeDir == parent {
			return ""
		}
		dir = parent
	}
}

// extractGitOrigin extracts the origin URL from git config
func (d *Detector) extractGitOrigin(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

var (
	cmakeProjectExpr = regexp.MustCompile(`(?i)project\s*\(\s*([A-Za-z0-9_.+-]+)`)
	mesonProjectExpr = regexp.MustCompile(`project\s*\(\s*['"]([^'"]+)['"]`)
	bazelModuleExpr  = regexp.MustCompile(`module\s*\([^)]*name\s*=\s*["']([^"']+)["']`)
	jsonNameExpr     = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

// extractProjectName attempts to extract a project name from build files
func (d *Detector) extractProjectName(rootPath string, projectType string) string {
	var name string
	switch projectType {
	case "cmake":
		name = d.match(filepath.Join(rootPath, "CMakeLists.txt"), cmakeProjectExpr)
	case "meson":
		name = d.match(filepath.Join(rootPath, "meson.build"), mesonProjectExpr)
	case "bazel":
		name = d.match(filepath.Join(rootPath, "MODULE.bazel"), bazelModuleExpr)
	case "vcpkg":
		name = d.match(filepath.Join(rootPath, "vcpkg.json"), jsonNameExpr)
	case "git":
		name = extractGitProjectName(d.extractGitOrigin(rootPath))
	}
	if name == "" {
		return filepath.Base(rootPath)
	}
	return name
}

func (d *Detector) match(path string, expr *regexp.Regexp) string {
	content, err := d.fs.DownloadWithURL(context.Background(), path)
	if err != nil {
		return ""
	}
	matches := expr.FindSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractGitProjectName(origin string) string {
	origin = strings.TrimSuffix(origin, ".git")
	if origin == "" {
		return ""
	}
	parts := strings.FieldsFunc(origin, func(r rune) bool { return r == '/' || r == ':' })
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "CMakeLists.txt":
		return "cmake"
	case "meson.build":
		return "meson"
	case "WORKSPACE", "MODULE.bazel":
		return "bazel"
	case "vcpkg.json":
		return "vcpkg"
	case "Makefile":
		return "make"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
