package repository

// Repository represents version controlled or build system root of analyzed sources
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Info   *Project
}

// Project represents information about a detected project
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // Build system of project (cmake, meson, make, bazel, vcpkg, git)
	Name         string // Name of the project (extracted from build files)
	RelativePath string // Path from project root to the specified file
}
