// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ahuca/twinget/pkg/plcproj"
)

const (
	// Ext is the package archive extension.
	Ext = ".nupkg"
	// ManifestExt is the extension of the manifest part inside the archive.
	ManifestExt = ".nuspec"
	// DefaultLibraryDir is the archive directory libraries are staged under.
	DefaultLibraryDir = "lib"

	// MaxIDLength is the maximum length of a package id.
	MaxIDLength = 100
)

// ErrInvalidID is returned when a package id does not follow the package id rules.
var ErrInvalidID = errors.New("invalid package id")

// idRegex matches valid package ids: word characters separated by single
// dots or hyphens.
var idRegex = regexp.MustCompile(`^\w+([.-]\w+)*$`)

// Metadata is the manifest metadata of a package.
type Metadata struct {
	ID          string
	Version     Version
	Authors     []string
	Description string
}

// NewMetadata derives the package metadata from a project descriptor. The
// version must be a valid semantic version and the id a valid package id.
func NewMetadata(d *plcproj.Descriptor) (*Metadata, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: no project descriptor", plcproj.ErrMalformedDescriptor)
	}

	id := d.ID()
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	version, err := ParseVersion(d.Version)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		ID:          id,
		Version:     version,
		Authors:     d.Authors(),
		Description: d.Description,
	}, nil
}

// ValidateID checks id against the package id rules.
func ValidateID(id string) error {
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidID, id, MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// FileName returns the archive file name for the package.
func (m *Metadata) FileName() string {
	return m.ID + Ext
}
