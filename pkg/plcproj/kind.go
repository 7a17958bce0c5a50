// SPDX-License-Identifier: MPL-2.0

package plcproj

import (
	"path/filepath"
	"strings"
)

const (
	// ProjectExt is the extension of a PLC project file.
	ProjectExt = ".plcproj"
	// ManifestExt is the extension of a manifest-only package descriptor.
	ManifestExt = ".nuspec"
	// LibraryExt is the extension of an exported PLC library.
	LibraryExt = ".library"
)

const (
	// KindOther is any path that is neither a project nor a manifest.
	KindOther Kind = iota
	// KindProject is a PLC project file.
	KindProject
	// KindManifest is a manifest-only package descriptor.
	KindManifest
)

// Kind is the file kind of an input path.
type Kind int

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindManifest:
		return "manifest"
	default:
		return "other"
	}
}

// KindOf classifies path by its extension, ignoring case.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ProjectExt:
		return KindProject
	case ManifestExt:
		return KindManifest
	default:
		return KindOther
	}
}

// ProjectName returns the project file name without its extension.
func ProjectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LibraryFileName returns the file name an exported library for the project
// at path is written under.
func LibraryFileName(path string) string {
	return ProjectName(path) + LibraryExt
}
