// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ahuca/twinget/internal/automation"
)

// FakeAutomation is an automation.Capability recording every call. By
// default SaveLibrary writes "<outputDir>/<project>.library".
type FakeAutomation struct {
	// OpenErr makes Open fail.
	OpenErr error
	// Save replaces the default SaveLibrary behavior.
	Save func(projectPath, outputDir, solutionPath string) (string, error)
	// CloseErr makes Close fail.
	CloseErr error
	// OnCall runs at the start of Open, SaveLibrary and Close with the call name.
	OnCall func(call string)

	mu        sync.Mutex
	opens     int
	saves     int
	closes    int
	solutions []string
}

type fakeHandle struct {
	f *FakeAutomation
}

// Open implements automation.Capability.
func (f *FakeAutomation) Open() (automation.Handle, error) {
	f.hook("Open")
	f.mu.Lock()
	f.opens++
	f.mu.Unlock()
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return &fakeHandle{f: f}, nil
}

func (h *fakeHandle) SaveLibrary(projectPath, outputDir, solutionPath string) (string, error) {
	h.f.hook("SaveLibrary")
	h.f.mu.Lock()
	h.f.saves++
	h.f.solutions = append(h.f.solutions, solutionPath)
	h.f.mu.Unlock()

	if h.f.Save != nil {
		return h.f.Save(projectPath, outputDir, solutionPath)
	}
	return WriteLibrary(projectPath, outputDir)
}

func (h *fakeHandle) Close() error {
	h.f.hook("Close")
	h.f.mu.Lock()
	h.f.closes++
	h.f.mu.Unlock()
	return h.f.CloseErr
}

func (f *FakeAutomation) hook(call string) {
	if f.OnCall != nil {
		f.OnCall(call)
	}
}

// Opens returns how often Open was called.
func (f *FakeAutomation) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// Saves returns how often SaveLibrary was called.
func (f *FakeAutomation) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// Closes returns how often a handle was closed.
func (f *FakeAutomation) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Solutions returns the solution paths SaveLibrary received.
func (f *FakeAutomation) Solutions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.solutions...)
}

// WriteLibrary writes a deterministic fake library for projectPath into
// outputDir and returns its path.
func WriteLibrary(projectPath, outputDir string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	artifact := filepath.Join(outputDir, name+".library")
	if err := os.WriteFile(artifact, []byte("library:"+name), 0o644); err != nil {
		return "", err
	}
	return artifact, nil
}
