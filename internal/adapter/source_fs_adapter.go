// Package adapter contains infrastructure adapters for the pyintroduce CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/mouse-blink/pyintroduce/internal/model"
)

const pythonFileExt = ".py"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when reading and rewriting user projects. It intentionally hides
// direct `os` access so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get collects Python files under the provided roots. A root ending in
	// "/..." is scanned recursively. Paths matching any exclude pattern are
	// skipped.
	Get(roots []m.Path, exclude []string) ([]m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the content of a file, keeping its permissions.
	WriteFile(path m.Path, content []byte) error

	// FileInfo returns metadata for a path so the domain can check existence or
	// whether a file may be written.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	".tox":         true,
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get collects Python source files for the provided roots.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, exclude []string) ([]m.Path, error) {
	if len(roots) == 0 {
		return []m.Path{}, nil
	}

	patterns, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[m.Path]struct{})

	var files []m.Path

	add := func(path string) error {
		if filepath.Ext(path) != pythonFileExt || excluded(patterns, path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		if _, exists := seen[m.Path(abs)]; exists {
			return nil
		}

		seen[m.Path(abs)] = struct{}{}
		files = append(files, m.Path(abs))

		return nil
	}

	for _, root := range roots {
		rootPath, recursive, err := normalizeRootPath(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if err := add(rootPath); err != nil {
				return nil, err
			}

			continue
		}

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != rootPath && (skippedDirs[info.Name()] || excluded(patterns, path)) {
					return filepath.SkipDir
				}

				return nil
			}

			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to an existing file, keeping its mode.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(string(path)); err == nil {
		perm = info.Mode().Perm()
	}

	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

func compilePatterns(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func excluded(patterns []*regexp.Regexp, path string) bool {
	slashed := filepath.ToSlash(path)
	for _, re := range patterns {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if rootStr == "..." {
		return ".", true
	}

	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}
