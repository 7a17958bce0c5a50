// SPDX-License-Identifier: MPL-2.0

package automation

import (
	"context"
	"errors"
)

const (
	// DefaultProgID is the COM program id of the TwinCAT XAE shell.
	DefaultProgID = "TcXaeShell.DTE.15.0"
	// DefaultRetryAttempts is how often a call rejected by a busy IDE is retried.
	DefaultRetryAttempts = 10
)

var (
	// ErrExportFailed is returned when no library artifact was produced.
	ErrExportFailed = errors.New("failed to save library")
	// ErrUnsupportedPlatform is returned by the automation capability on
	// platforms without the TwinCAT automation interface.
	ErrUnsupportedPlatform = errors.New("TwinCAT automation interface is only available on Windows")
)

type (
	// Capability opens the automation interface. Open and every method of the
	// returned Handle are called from the same OS thread.
	Capability interface {
		Open() (Handle, error)
	}

	// Handle is an open automation interface. Close releases it and is always
	// called, whether SaveLibrary succeeded or not.
	Handle interface {
		// SaveLibrary opens solutionPath, exports the PLC project at
		// projectPath as a library into outputDir and returns the library path.
		SaveLibrary(projectPath, outputDir, solutionPath string) (string, error)
		Close() error
	}

	// SolutionResolver finds the solution backing a project.
	SolutionResolver interface {
		ResolveParentSolution(ctx context.Context, projectPath string) (string, error)
	}

	// CapabilityFunc adapts a function to the Capability interface.
	CapabilityFunc func() (Handle, error)

	// DTEOptions configures the Visual Studio DTE based capability.
	DTEOptions struct {
		// ProgID is the COM program id to instantiate. Defaults to DefaultProgID.
		ProgID string
		// SuppressUI hides the IDE window and suppresses its dialogs.
		SuppressUI bool
		// RetryAttempts bounds the retries of calls the IDE rejects while busy.
		RetryAttempts int
	}
)

// Open calls f().
func (f CapabilityFunc) Open() (Handle, error) { return f() }

// NewDTE returns the capability backed by the TwinCAT XAE (Visual Studio DTE)
// COM server. On platforms other than Windows, Open always fails with
// ErrUnsupportedPlatform.
func NewDTE(opts DTEOptions) Capability {
	if opts.ProgID == "" {
		opts.ProgID = DefaultProgID
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = DefaultRetryAttempts
	}
	return newDTE(opts)
}
