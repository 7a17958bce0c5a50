// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"strings"
	"testing"
)

func TestPlcprojXML_OmitsEmptyFields(t *testing.T) {
	t.Parallel()

	out := PlcprojXML(ProjectFields{Title: "Lib1", Version: "1.0.0"})
	if !strings.Contains(out, "<Title>Lib1</Title>") || !strings.Contains(out, "<ProjectVersion>1.0.0</ProjectVersion>") {
		t.Errorf("missing fields in %s", out)
	}
	if strings.Contains(out, "<Author>") || strings.Contains(out, "<Description>") {
		t.Errorf("empty fields should be omitted: %s", out)
	}
}

func TestNewWorkspace(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(t, DefaultProjectFields(), true)
	if !FileExists(t, ws.Project) || !FileExists(t, ws.Solution) {
		t.Fatalf("workspace incomplete: %+v", ws)
	}

	bare := NewWorkspace(t, DefaultProjectFields(), false)
	if FileExists(t, bare.Solution) {
		t.Error("solution should not exist when withSolution is false")
	}
}
