// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
)

type (
	// ProjectFields are the metadata fields written into a sample .plcproj.
	ProjectFields struct {
		Title       string
		Author      string
		Version     string
		Description string
	}

	// Workspace is a sample TwinCAT solution on disk:
	//
	//	<Root>/Sol.sln
	//	<Root>/Sys/Sys.tsproj
	//	<Root>/Sys/Plc1/Plc1.plcproj
	Workspace struct {
		Root     string
		Solution string
		Project  string
	}
)

// DefaultProjectFields matches the reference scenario: Lib1 1.2.3 by A.
func DefaultProjectFields() ProjectFields {
	return ProjectFields{Title: "Lib1", Author: "A", Version: "1.2.3", Description: "d"}
}

// NewWorkspace writes a sample solution under a fresh temporary directory.
// When withSolution is false no .sln is written, so resolution fails.
func NewWorkspace(t testing.TB, fields ProjectFields, withSolution bool) *Workspace {
	t.Helper()
	root := t.TempDir()
	ws := &Workspace{
		Root:     root,
		Solution: filepath.Join(root, "Sol.sln"),
		Project:  filepath.Join(root, "Sys", "Plc1", "Plc1.plcproj"),
	}

	MustWriteFile(t, ws.Project, PlcprojXML(fields))
	MustWriteFile(t, filepath.Join(root, "Sys", "Sys.tsproj"), `<?xml version="1.0"?>
<TcSmProject>
  <Project>
    <Plc>
      <Project Name="Plc1" PrjFilePath="Plc1\Plc1.plcproj" TmcFilePath="Plc1\Plc1.tmc"/>
    </Plc>
  </Project>
</TcSmProject>
`)
	if withSolution {
		MustWriteFile(t, ws.Solution, `
Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
Project("{B1E792BE-AA5F-4E3C-8C82-674BF9C0715B}") = "Sys", "Sys\Sys.tsproj", "{7A3C1E2B-0F4D-4A7B-8E9C-1D2E3F4A5B6C}"
EndProject
Global
EndGlobal
`)
	}
	return ws
}

// PlcprojXML renders a minimal .plcproj with the given fields. Empty fields
// are left out.
func PlcprojXML(f ProjectFields) string {
	group := "    <Name>Plc1</Name>\n"
	for _, kv := range [][2]string{
		{"Title", f.Title},
		{"Author", f.Author},
		{"ProjectVersion", f.Version},
		{"Description", f.Description},
	} {
		if kv[1] != "" {
			group += fmt.Sprintf("    <%s>%s</%s>\n", kv[0], kv[1], kv[0])
		}
	}
	return `<?xml version="1.0" encoding="utf-8"?>
<Project DefaultTargets="Build" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
` + group + `  </PropertyGroup>
</Project>
`
}
