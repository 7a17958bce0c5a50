// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "pack project"},
			expected: "failed to pack project",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "pack project", Resource: "Plc1.plcproj"},
			expected: "failed to pack project: Plc1.plcproj",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "pack project",
				Resource:  "Plc1.plcproj",
				Cause:     errors.New("failed to save library"),
			},
			expected: "failed to pack project: Plc1.plcproj: failed to save library",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("parent solution not found")
	err := NewErrorContext().WithOperation("pack project").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find the ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("no .sln references the project")
	err := NewErrorContext().
		WithOperation("pack project").
		WithResource("Plc1.plcproj").
		WithIssue(SolutionNotFoundId).
		WithSuggestion("Pass --solution").
		Wrap(errors.Join(inner)).
		Build()

	short := err.Format(false)
	for _, want := range []string{
		"failed to pack project: Plc1.plcproj",
		"• Pass --solution",
		"• Run 'twinget issues solution-not-found' for details",
	} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	if verbose := err.Format(true); !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) missing error chain:\n%s", verbose)
	}

	if len(err.Suggestions) != 1 {
		t.Errorf("Format must not grow Suggestions, got %v", err.Suggestions)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	ctx := NewErrorContext().WithOperation("load configuration").WithSuggestion("a")
	first := ctx.Build()
	ctx.WithSuggestion("b")
	second := ctx.Build()
	if len(first.Suggestions) != 1 || len(second.Suggestions) != 2 {
		t.Errorf("builds should not share suggestions: %v %v", first.Suggestions, second.Suggestions)
	}
}
