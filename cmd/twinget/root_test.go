// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with args against a fresh App built from deps.
func run(t *testing.T, deps Dependencies, args ...string) runResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.ConfigDir == "" {
		deps.ConfigDir = t.TempDir()
	}

	rootCmd := NewRootCommand(NewApp(deps))
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.ExecuteContext(context.Background())

	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeError(&buf, &ExitError{Code: ExitFailure}, false)
	if buf.Len() != 0 {
		t.Errorf("bare exit errors should print nothing, got %q", buf.String())
	}

	writeError(&buf, usageError(context.Canceled), false)
	if got := buf.String(); !bytes.Contains([]byte(got), []byte("context canceled")) {
		t.Errorf("writeError() = %q", got)
	}
}
