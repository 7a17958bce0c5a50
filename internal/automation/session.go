// SPDX-License-Identifier: MPL-2.0

package automation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ahuca/twinget/internal/observe"
	"github.com/ahuca/twinget/pkg/solution"
)

type (
	// SessionOptions configures a Session.
	SessionOptions struct {
		Capability Capability
		// Resolver discovers the solution when none is supplied. Defaults to
		// a solution.Resolver over the OS filesystem.
		Resolver SolutionResolver
		Observer observe.Observer
	}

	// Session exports PLC libraries through an automation Capability.
	Session struct {
		capability Capability
		resolver   SolutionResolver
		obs        observe.Observer
	}

	// resolution is the settled value of a solution lookup.
	resolution struct {
		path string
		err  error
	}

	exportResult struct {
		artifact string
		err      error
	}
)

// NewSession creates a Session.
func NewSession(opts SessionOptions) *Session {
	if opts.Resolver == nil {
		opts.Resolver = solution.NewResolver(nil)
	}
	return &Session{
		capability: opts.Capability,
		resolver:   opts.Resolver,
		obs:        observe.OrNop(opts.Observer),
	}
}

// ExportLibrary exports the PLC project at projectPath as a library into
// outputDir and returns the library path. When solutionPath is empty the
// parent solution is resolved first; if that fails the automation capability
// is never opened.
//
// All automation calls happen on a dedicated goroutine locked to one OS
// thread; ExportLibrary blocks until that goroutine is done. On failure the
// returned path is empty and the cause has been reported to the observer.
func (s *Session) ExportLibrary(ctx context.Context, projectPath, outputDir, solutionPath string) (string, error) {
	var pending <-chan resolution
	if solutionPath == "" {
		pending = s.resolveAsync(ctx, projectPath)
	}

	done := make(chan exportResult, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		artifact, err := s.export(projectPath, outputDir, solutionPath, pending)
		done <- exportResult{artifact: artifact, err: err}
	}()

	res := <-done
	return res.artifact, res.err
}

// resolveAsync starts the solution lookup and returns its future.
func (s *Session) resolveAsync(ctx context.Context, projectPath string) <-chan resolution {
	ch := make(chan resolution, 1)
	go func() {
		var path string
		err := observe.Recover("resolve parent solution", func() error {
			var err error
			path, err = s.resolver.ResolveParentSolution(ctx, projectPath)
			return err
		})
		ch <- resolution{path: path, err: err}
	}()
	return ch
}

// export runs on the dedicated worker thread.
func (s *Session) export(projectPath, outputDir, solutionPath string, pending <-chan resolution) (string, error) {
	if pending != nil {
		r := <-pending
		if r.err == nil && r.path == "" {
			r.err = &solution.NotFoundError{ProjectPath: projectPath}
		}
		if r.err != nil {
			s.obs.Observe(observe.Error(observe.KindSolutionNotFound, "failed to resolve parent solution", projectPath, r.err))
			return "", fmt.Errorf("resolve parent solution: %w", r.err)
		}
		solutionPath = r.path
	}

	if s.capability == nil {
		return "", fmt.Errorf("%w: no automation capability configured", ErrExportFailed)
	}

	var artifact string
	err := observe.SafeExecute(s.obs, "export library", func() error {
		handle, err := s.capability.Open()
		if err != nil {
			return fmt.Errorf("open automation interface: %w", err)
		}
		defer func() {
			if closeErr := handle.Close(); closeErr != nil {
				// The library is already on disk; a failed release is only reported.
				s.obs.Observe(observe.Error(observe.KindFault, "failed to release automation interface", projectPath, closeErr))
			}
		}()

		artifact, err = handle.SaveLibrary(projectPath, outputDir, solutionPath)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if artifact == "" {
		return "", fmt.Errorf("%w: automation interface returned no library path", ErrExportFailed)
	}
	return artifact, nil
}
