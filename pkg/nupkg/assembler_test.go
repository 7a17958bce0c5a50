// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/pkg/plcproj"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDescriptor() *plcproj.Descriptor {
	return &plcproj.Descriptor{
		Title:       "Lib1",
		Name:        "Plc1",
		Author:      "A",
		Version:     "1.2.3",
		Description: "d",
	}
}

func writeArtifact(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "Plc1.library")
	require.NoError(t, os.WriteFile(p, []byte("compiled library bytes"), 0o644))
	return p
}

func TestBuildPackage(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	artifact := writeArtifact(t, tmp)
	outDir := filepath.Join(tmp, "out")
	rec := &observe.Recorder{}

	a := NewAssembler(Options{Observer: rec})
	archivePath, err := a.BuildPackage(sampleDescriptor(), artifact, outDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "Lib1.nupkg"), archivePath)
	assert.FileExists(t, archivePath)
	assert.FileExists(t, artifact, "the assembler must not remove the artifact")
	assert.True(t, rec.Has(observe.KindPackageCreated))

	m, err := Inspect(nil, archivePath, "")
	require.NoError(t, err)
	assert.Equal(t, "Lib1", m.ID)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, "A", m.Authors)
	assert.Equal(t, "d", m.Description)
	assert.Equal(t, []string{"lib/Plc1.library"}, m.Libraries)
	assert.Contains(t, m.Entries, "Lib1.nuspec")
	assert.Contains(t, m.Entries, "_rels/.rels")
	assert.Contains(t, m.Entries, "[Content_Types].xml")

	var psmdcp int
	for _, e := range m.Entries {
		if strings.HasPrefix(e, "package/services/metadata/core-properties/") && strings.HasSuffix(e, ".psmdcp") {
			psmdcp++
		}
	}
	assert.Equal(t, 1, psmdcp)

	// No temporary files left next to the archive.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBuildPackage_Deterministic(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	artifact := writeArtifact(t, tmp)
	a := NewAssembler(Options{})

	first, err := a.BuildPackage(sampleDescriptor(), artifact, filepath.Join(tmp, "one"))
	require.NoError(t, err)
	second, err := a.BuildPackage(sampleDescriptor(), artifact, filepath.Join(tmp, "two"))
	require.NoError(t, err)

	b1, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestBuildPackage_OverwritesExisting(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	artifact := writeArtifact(t, tmp)
	outDir := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "Lib1.nupkg"), []byte("stale"), 0o644))

	archivePath, err := NewAssembler(Options{}).BuildPackage(sampleDescriptor(), artifact, outDir)
	require.NoError(t, err)

	m, err := Inspect(nil, archivePath, "")
	require.NoError(t, err)
	assert.Equal(t, "Lib1", m.ID)
}

func TestBuildPackage_EmptyOptionalFields(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/Plc1.library", []byte("x"), 0o644))

	d := &plcproj.Descriptor{Title: "Lib1", Version: "0.1.0"}
	archivePath, err := NewAssembler(Options{Fs: fs, LibraryDir: "library/"}).BuildPackage(d, "/tmp/Plc1.library", "/out")
	require.NoError(t, err)

	m, err := Inspect(fs, archivePath, "library")
	require.NoError(t, err)
	assert.Equal(t, "", m.Authors)
	assert.Equal(t, "", m.Description)
	assert.Equal(t, []string{"library/Plc1.library"}, m.Libraries)
}

func TestBuildPackage_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		descriptor *plcproj.Descriptor
		artifact   bool
		wantErr    error
	}{
		{
			name:       "invalid version",
			descriptor: &plcproj.Descriptor{Title: "Lib1", Version: "not-a-version"},
			artifact:   true,
			wantErr:    ErrInvalidVersion,
		},
		{
			name:       "missing version",
			descriptor: &plcproj.Descriptor{Title: "Lib1"},
			artifact:   true,
			wantErr:    ErrInvalidVersion,
		},
		{
			name:       "invalid id",
			descriptor: &plcproj.Descriptor{Title: "Lib 1", Version: "1.0.0"},
			artifact:   true,
			wantErr:    ErrInvalidID,
		},
		{
			name:       "nil descriptor",
			descriptor: nil,
			artifact:   true,
			wantErr:    plcproj.ErrMalformedDescriptor,
		},
		{
			name:       "missing artifact",
			descriptor: sampleDescriptor(),
			artifact:   false,
			wantErr:    os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if tt.artifact {
				require.NoError(t, afero.WriteFile(fs, "/tmp/Plc1.library", []byte("x"), 0o644))
			}
			rec := &observe.Recorder{}

			_, err := NewAssembler(Options{Fs: fs, Observer: rec}).BuildPackage(tt.descriptor, "/tmp/Plc1.library", "/out")
			require.ErrorIs(t, err, tt.wantErr)

			exists, statErr := afero.Exists(fs, "/out/Lib1.nupkg")
			require.NoError(t, statErr)
			assert.False(t, exists, "no archive may be written on failure")
			assert.False(t, rec.Has(observe.KindPackageCreated))
		})
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	valid := []string{"Lib1", "Tc3_Module", "My.Lib-2", "a"}
	for _, id := range valid {
		assert.NoError(t, ValidateID(id), id)
	}

	invalid := []string{"", "Lib 1", ".Lib", "Lib.", "Lib..1", strings.Repeat("a", MaxIDLength+1)}
	for _, id := range invalid {
		assert.ErrorIs(t, ValidateID(id), ErrInvalidID, id)
	}
}
