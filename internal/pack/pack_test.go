// SPDX-License-Identifier: MPL-2.0

package pack_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahuca/twinget/internal/automation"
	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/internal/pack"
	"github.com/ahuca/twinget/internal/testutil"
	"github.com/ahuca/twinget/pkg/nupkg"
	"github.com/ahuca/twinget/pkg/solution"
)

func newPacker(fake *testutil.FakeAutomation, obs observe.Observer) *pack.Packer {
	return pack.New(pack.Options{Capability: fake, Observer: obs})
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPack_Project(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), true)
	fake := &testutil.FakeAutomation{}
	rec := &observe.Recorder{}
	outDir := filepath.Join(ws.Root, "out")

	res, err := newPacker(fake, rec).Pack(context.Background(), pack.Request{
		SourcePath:      ws.Project,
		OutputDirectory: outDir,
	})
	require.NoError(t, err)

	assert.False(t, res.PassThrough)
	assert.Equal(t, filepath.Join(outDir, "Lib1.nupkg"), res.ArchivePath)
	assert.Equal(t, []string{"Lib1.nupkg"}, dirEntries(t, outDir), "exported library must be removed")

	m, err := nupkg.Inspect(nil, res.ArchivePath, "")
	require.NoError(t, err)
	assert.Equal(t, "Lib1", m.ID)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, "A", m.Authors)
	assert.Equal(t, "d", m.Description)
	assert.Len(t, m.Libraries, 1)

	assert.Equal(t, []string{ws.Solution}, fake.Solutions())
	assert.Empty(t, rec.Errors())
	assert.True(t, rec.Has(observe.KindLibrarySaved))
	assert.True(t, rec.Has(observe.KindPackageCreated))
}

func TestPack_RelativePaths(t *testing.T) {
	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), true)
	defer testutil.MustChdir(t, ws.Root)()

	res, err := newPacker(&testutil.FakeAutomation{}, nil).Pack(context.Background(), pack.Request{
		SourcePath:      filepath.Join("Sys", "Plc1", "Plc1.plcproj"),
		OutputDirectory: "out",
	})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(res.ArchivePath))
	assert.FileExists(t, filepath.Join(ws.Root, "out", "Lib1.nupkg"))
}

func TestPack_ExplicitSolution(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), false)
	fake := &testutil.FakeAutomation{}
	given := filepath.Join(ws.Root, "Elsewhere.sln")

	_, err := newPacker(fake, nil).Pack(context.Background(), pack.Request{
		SourcePath:      ws.Project,
		OutputDirectory: t.TempDir(),
		SolutionPath:    given,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{given}, fake.Solutions())
}

func TestPack_Idempotent(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), true)
	packer := newPacker(&testutil.FakeAutomation{}, nil)

	build := func() []byte {
		res, err := packer.Pack(context.Background(), pack.Request{SourcePath: ws.Project, OutputDirectory: t.TempDir()})
		require.NoError(t, err)
		data, err := os.ReadFile(res.ArchivePath)
		require.NoError(t, err)
		return data
	}

	first, second := build(), build()
	assert.True(t, bytes.Equal(first, second), "archives differ between runs")
}

func TestPack_ResolutionFailure(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), false)
	fake := &testutil.FakeAutomation{}
	rec := &observe.Recorder{}
	outDir := filepath.Join(ws.Root, "out")

	_, err := newPacker(fake, rec).Pack(context.Background(), pack.Request{SourcePath: ws.Project, OutputDirectory: outDir})
	require.ErrorIs(t, err, solution.ErrSolutionNotFound)

	assert.Zero(t, fake.Opens(), "automation must not be invoked")
	assert.Zero(t, fake.Saves())
	assert.True(t, rec.Has(observe.KindSolutionNotFound))
	assert.True(t, rec.Has(observe.KindExportFailed))
	assert.Empty(t, dirEntries(t, outDir))
}

func TestPack_ExportFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		save func(projectPath, outputDir, solutionPath string) (string, error)
	}{
		{"error", func(string, string, string) (string, error) { return "", errors.New("rejected") }},
		{"no path", func(string, string, string) (string, error) { return "", nil }},
		{"panic", func(string, string, string) (string, error) { panic("com fault") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), true)
			rec := &observe.Recorder{}
			outDir := filepath.Join(ws.Root, "out")

			_, err := newPacker(&testutil.FakeAutomation{Save: tt.save}, rec).Pack(context.Background(), pack.Request{
				SourcePath:      ws.Project,
				OutputDirectory: outDir,
			})
			require.ErrorIs(t, err, automation.ErrExportFailed)
			assert.True(t, rec.Has(observe.KindExportFailed))
			assert.False(t, rec.Has(observe.KindPackageCreated))
			assert.NoFileExists(t, filepath.Join(outDir, "Lib1.nupkg"))
		})
	}
}

func TestPack_InvalidVersion(t *testing.T) {
	t.Parallel()

	fields := testutil.DefaultProjectFields()
	fields.Version = "not-a-version"
	ws := testutil.NewWorkspace(t, fields, true)
	fake := &testutil.FakeAutomation{}
	outDir := filepath.Join(ws.Root, "out")

	_, err := newPacker(fake, nil).Pack(context.Background(), pack.Request{SourcePath: ws.Project, OutputDirectory: outDir})
	require.ErrorIs(t, err, nupkg.ErrInvalidVersion)

	assert.Equal(t, 1, fake.Saves())
	assert.Empty(t, dirEntries(t, outDir), "the exported library must be removed after an assembly failure")
}

func TestPack_Manifest(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeAutomation{}
	_, err := newPacker(fake, nil).Pack(context.Background(), pack.Request{
		SourcePath:      "/w/Lib1.nuspec",
		OutputDirectory: t.TempDir(),
	})
	require.ErrorIs(t, err, pack.ErrNotImplemented)
	assert.Zero(t, fake.Opens())
}

func TestPack_PassThrough(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeAutomation{}
	rec := &observe.Recorder{}
	outDir := filepath.Join(t.TempDir(), "out")

	res, err := newPacker(fake, rec).Pack(context.Background(), pack.Request{
		SourcePath:      "/w/readme.txt",
		OutputDirectory: outDir,
	})
	require.NoError(t, err)
	assert.True(t, res.PassThrough)
	assert.Empty(t, res.ArchivePath)
	assert.Empty(t, rec.Errors())
	assert.True(t, rec.Has(observe.KindPassThrough))
	assert.Zero(t, fake.Opens())
	assert.NoDirExists(t, outDir)
}

func TestPackAsync_ArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  pack.Request
	}{
		{"empty source", pack.Request{OutputDirectory: "out"}},
		{"empty output", pack.Request{SourcePath: "Plc1.plcproj"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &testutil.FakeAutomation{}
			outcome, err := newPacker(fake, nil).PackAsync(context.Background(), tt.req)
			require.ErrorIs(t, err, pack.ErrInvalidArgument)
			var argErr *pack.ArgumentError
			assert.ErrorAs(t, err, &argErr)
			assert.Nil(t, outcome)
			assert.Zero(t, fake.Opens())
		})
	}
}

func TestPackAsync_DeliversOneOutcome(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, testutil.DefaultProjectFields(), true)
	outcome, err := newPacker(&testutil.FakeAutomation{}, nil).PackAsync(context.Background(), pack.Request{
		SourcePath:      ws.Project,
		OutputDirectory: t.TempDir(),
	})
	require.NoError(t, err)

	o, ok := <-outcome
	require.True(t, ok)
	require.NoError(t, o.Err)
	assert.NotEmpty(t, o.Result.ArchivePath)

	_, ok = <-outcome
	assert.False(t, ok, "channel must be closed after the outcome")
}

func TestPack_RequestObserverOverrides(t *testing.T) {
	t.Parallel()

	packerRec, requestRec := &observe.Recorder{}, &observe.Recorder{}
	_, err := newPacker(&testutil.FakeAutomation{}, packerRec).Pack(context.Background(), pack.Request{
		SourcePath:      "/w/notes.md",
		OutputDirectory: t.TempDir(),
		Observer:        requestRec,
	})
	require.NoError(t, err)
	assert.Empty(t, packerRec.Events())
	assert.True(t, requestRec.Has(observe.KindPassThrough))
}

func TestPack_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &testutil.FakeAutomation{}
	_, err := newPacker(fake, nil).Pack(ctx, pack.Request{SourcePath: "/w/Plc1.plcproj", OutputDirectory: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.Opens())
}
