// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// Manifest is the metadata read back from a package archive.
type Manifest struct {
	ID          string
	Version     string
	Authors     string
	Description string
	// Entries are the archive entry names in archive order.
	Entries []string
	// Libraries are the entries staged under the library directory.
	Libraries []string
}

// Inspect reads the manifest and entry list of the package at archivePath.
// libraryDir selects which entries are reported as libraries; empty means
// DefaultLibraryDir.
func Inspect(fs afero.Fs, archivePath, libraryDir string) (m *Manifest, err error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if libraryDir == "" {
		libraryDir = DefaultLibraryDir
	}

	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat package: %w", err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}

	m = &Manifest{}
	var nuspec *zip.File
	for _, zf := range zr.File {
		m.Entries = append(m.Entries, zf.Name)
		switch {
		case !strings.Contains(zf.Name, "/") && strings.HasSuffix(zf.Name, ManifestExt):
			nuspec = zf
		case strings.HasPrefix(zf.Name, strings.TrimSuffix(libraryDir, "/")+"/"):
			m.Libraries = append(m.Libraries, zf.Name)
		}
	}
	if nuspec == nil {
		return nil, fmt.Errorf("package %s has no %s manifest", archivePath, ManifestExt)
	}

	if err := readNuspec(nuspec, m); err != nil {
		return nil, err
	}
	return m, nil
}

func readNuspec(zf *zip.File, m *Manifest) (err error) {
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var doc nuspecXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	m.ID = doc.Metadata.ID
	m.Version = doc.Metadata.Version
	m.Authors = doc.Metadata.Authors
	m.Description = doc.Metadata.Description
	return nil
}
