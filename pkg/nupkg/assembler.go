// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/pkg/plcproj"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// defaultModTime is stamped on every entry so identical inputs produce
// identical archives.
var defaultModTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// Options configures an Assembler. Zero values select the defaults.
	Options struct {
		// Fs is the filesystem the artifact is read from and the archive written
		// to. Defaults to the OS filesystem.
		Fs afero.Fs
		// LibraryDir is the archive directory the library is staged under.
		// Defaults to DefaultLibraryDir.
		LibraryDir string
		// ModTime is the modification time of every archive entry.
		ModTime time.Time
		// Observer receives the package-created event.
		Observer observe.Observer
	}

	// Assembler builds package archives.
	Assembler struct {
		fs         afero.Fs
		libraryDir string
		modTime    time.Time
		obs        observe.Observer
	}

	// part is one archive entry.
	part struct {
		name string
		data []byte
	}
)

// NewAssembler creates an Assembler.
func NewAssembler(opts Options) *Assembler {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.LibraryDir == "" {
		opts.LibraryDir = DefaultLibraryDir
	}
	if opts.ModTime.IsZero() {
		opts.ModTime = defaultModTime
	}
	return &Assembler{
		fs:         opts.Fs,
		libraryDir: path.Clean(filepath.ToSlash(opts.LibraryDir)),
		modTime:    opts.ModTime,
		obs:        observe.OrNop(opts.Observer),
	}
}

// BuildPackage builds {id}.nupkg in outputDir from the descriptor metadata and
// the library at artifactPath, and returns the archive path. The artifact is
// only read; removing it is the caller's job.
func (a *Assembler) BuildPackage(d *plcproj.Descriptor, artifactPath, outputDir string) (archivePath string, err error) {
	meta, err := NewMetadata(d)
	if err != nil {
		return "", err
	}

	library, err := afero.ReadFile(a.fs, artifactPath)
	if err != nil {
		return "", fmt.Errorf("failed to read library %s: %w", artifactPath, err)
	}

	staged := path.Join(a.libraryDir, filepath.Base(artifactPath))
	archive, err := a.render(meta, part{name: staged, data: library})
	if err != nil {
		return "", fmt.Errorf("failed to build package %s: %w", meta.ID, err)
	}

	if err := a.fs.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	archivePath = filepath.Join(outputDir, meta.FileName())
	if err := a.writeAtomic(archivePath, archive); err != nil {
		return "", err
	}

	a.obs.Observe(observe.Info(observe.KindPackageCreated, "package created", archivePath))
	return archivePath, nil
}

// render produces the complete archive bytes.
func (a *Assembler) render(m *Metadata, files ...part) ([]byte, error) {
	nuspec, err := renderNuspec(m)
	if err != nil {
		return nil, fmt.Errorf("nuspec: %w", err)
	}
	rels, err := renderRelationships(m)
	if err != nil {
		return nil, fmt.Errorf("relationships: %w", err)
	}
	coreProps, err := renderCoreProperties(m)
	if err != nil {
		return nil, fmt.Errorf("core properties: %w", err)
	}

	parts := make([]part, 0, len(files)+4)
	parts = append(parts,
		part{name: relsPartName, data: rels},
		part{name: manifestPartName(m), data: nuspec},
	)
	parts = append(parts, files...)
	parts = append(parts, part{name: corePropsPartName(m), data: coreProps})

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.name)
	}
	contentTypes, err := renderContentTypes(names)
	if err != nil {
		return nil, fmt.Errorf("content types: %w", err)
	}
	parts = append(parts, part{name: contentTypesPartName, data: contentTypes})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: a.modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("failed to write entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temporary file next to dest and renames it into
// place. The temporary file is removed if anything fails.
func (a *Assembler) writeAtomic(dest string, data []byte) (err error) {
	tmp, err := afero.TempFile(a.fs, filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary package file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = a.fs.Remove(tmpName) // Best-effort cleanup
		}
	}()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write package: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to write package: %w", closeErr)
	}

	// Rename does not replace an existing file on every platform.
	if removeErr := a.fs.Remove(dest); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("failed to replace existing package %s: %w", dest, removeErr)
	}
	if renameErr := a.fs.Rename(tmpName, dest); renameErr != nil {
		return fmt.Errorf("failed to move package into place: %w", renameErr)
	}
	return nil
}
