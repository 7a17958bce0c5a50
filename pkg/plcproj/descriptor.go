// SPDX-License-Identifier: MPL-2.0

package plcproj

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// ErrMalformedDescriptor is returned when a project file cannot be read as a
// PLC project descriptor.
var ErrMalformedDescriptor = errors.New("malformed project descriptor")

type (
	// Descriptor holds the metadata fields of a PLC project.
	Descriptor struct {
		// Title is the library title, used as the package id.
		Title string
		// Name is the project name, used when Title is empty.
		Name    string
		Author  string
		Company string
		// Version is the raw ProjectVersion string.
		Version     string
		Description string
	}

	projectXML struct {
		XMLName        xml.Name           `xml:"Project"`
		PropertyGroups []propertyGroupXML `xml:"PropertyGroup"`
	}

	propertyGroupXML struct {
		Title          string `xml:"Title"`
		Name           string `xml:"Name"`
		Author         string `xml:"Author"`
		Company        string `xml:"Company"`
		ProjectVersion string `xml:"ProjectVersion"`
		Description    string `xml:"Description"`
	}
)

// ID returns the package id for the project: Title, or Name when Title is empty.
func (d *Descriptor) ID() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Authors returns the ordered author list. Author wins over Company; a project
// with neither has no authors.
func (d *Descriptor) Authors() []string {
	switch {
	case d.Author != "":
		return []string{d.Author}
	case d.Company != "":
		return []string{d.Company}
	default:
		return []string{}
	}
}

// Read parses a project descriptor from fs.
func Read(fs afero.Fs, path string) (*Descriptor, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a project descriptor. Each field takes the first non-empty
// value across all PropertyGroup elements.
func Parse(r io.Reader) (*Descriptor, error) {
	var p projectXML
	if err := xml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDescriptor, err)
	}

	d := &Descriptor{}
	for _, g := range p.PropertyGroups {
		fill(&d.Title, g.Title)
		fill(&d.Name, g.Name)
		fill(&d.Author, g.Author)
		fill(&d.Company, g.Company)
		fill(&d.Version, g.ProjectVersion)
		fill(&d.Description, g.Description)
	}

	if d.ID() == "" {
		return nil, fmt.Errorf("%w: neither Title nor Name is set", ErrMalformedDescriptor)
	}
	return d, nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}
