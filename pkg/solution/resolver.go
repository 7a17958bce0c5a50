// SPDX-License-Identifier: MPL-2.0

package solution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// ErrSolutionNotFound is returned when no solution references the project.
var ErrSolutionNotFound = errors.New("parent solution not found")

// systemProjectExts are TwinCAT system project extensions. A solution lists
// the system project, which in turn nests the PLC project.
var systemProjectExts = []string{".tsproj", ".tspproj"}

type (
	// Resolver finds the parent solution of a PLC project.
	Resolver struct {
		fs afero.Fs
	}

	// NotFoundError reports the project no solution could be found for.
	NotFoundError struct {
		ProjectPath string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no solution references %s", e.ProjectPath)
}

// Unwrap returns ErrSolutionNotFound.
func (e *NotFoundError) Unwrap() error { return ErrSolutionNotFound }

// NewResolver creates a Resolver reading from fs. A nil fs means the OS
// filesystem.
func NewResolver(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

// ResolveParentSolution returns the absolute path of the nearest solution that
// references projectPath.
func (r *Resolver) ResolveParentSolution(ctx context.Context, projectPath string) (string, error) {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}

	dir := filepath.Dir(absProject)
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("resolve parent solution canceled: %w", err)
		}

		match, err := r.searchDir(dir, absProject)
		if err != nil {
			return "", err
		}
		if match != "" {
			return match, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{ProjectPath: absProject}
		}
		dir = parent
	}
}

// searchDir returns the first solution in dir referencing project, or "".
func (r *Resolver) searchDir(dir, project string) (string, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		// Unreadable ancestors are skipped rather than aborting the walk.
		return "", nil
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			candidates = append(candidates, e.Name())
		}
	}
	slices.Sort(candidates)

	for _, name := range candidates {
		slnPath := filepath.Join(dir, name)
		ok, err := r.references(slnPath, project)
		if err != nil {
			return "", err
		}
		if ok {
			return slnPath, nil
		}
	}
	return "", nil
}

// references reports whether the solution at slnPath references project,
// directly or through a system project.
func (r *Resolver) references(slnPath, project string) (bool, error) {
	data, err := afero.ReadFile(r.fs, slnPath)
	if err != nil {
		return false, fmt.Errorf("failed to read solution %s: %w", slnPath, err)
	}
	refs, err := ParseProjects(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("failed to parse solution %s: %w", slnPath, err)
	}

	slnDir := filepath.Dir(slnPath)
	projectName := filepath.Base(project)
	for _, ref := range refs {
		refPath := filepath.Join(slnDir, filepath.FromSlash(ref.Path))
		if samePath(refPath, project) {
			return true, nil
		}
		if !isSystemProject(refPath) {
			continue
		}
		if r.systemProjectMentions(refPath, projectName) {
			return true, nil
		}
	}
	return false, nil
}

// systemProjectMentions reports whether the system project file mentions a
// PLC project file name. A missing system project is not an error.
func (r *Resolver) systemProjectMentions(sysProjPath, projectName string) bool {
	data, err := afero.ReadFile(r.fs, sysProjPath)
	if err != nil {
		return false
	}
	content := strings.ToLower(strings.ReplaceAll(string(data), `\`, "/"))
	needle := strings.ToLower(projectName)
	for idx := strings.Index(content, needle); idx >= 0; {
		// Require a path boundary before the name so "MyPlc1.plcproj" does not
		// match "Plc1.plcproj".
		if idx == 0 || strings.ContainsRune(`/"'>= `, rune(content[idx-1])) {
			return true
		}
		next := strings.Index(content[idx+1:], needle)
		if next < 0 {
			break
		}
		idx += next + 1
	}
	return false
}

func isSystemProject(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return slices.Contains(systemProjectExts, ext)
}

// samePath compares two paths case-insensitively after cleaning, the way the
// Windows tooling that produces solution files treats them.
func samePath(a, b string) bool {
	ca := path.Clean(filepath.ToSlash(a))
	cb := path.Clean(filepath.ToSlash(b))
	return strings.EqualFold(ca, cb)
}
