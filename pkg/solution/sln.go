// SPDX-License-Identifier: MPL-2.0

package solution

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Ext is the extension of a solution file.
const Ext = ".sln"

// projectLineRegex matches a solution project entry:
//
//	Project("{TYPE-GUID}") = "Name", "relative\path.tsproj", "{PROJECT-GUID}"
var projectLineRegex = regexp.MustCompile(`^\s*Project\("\{[^}]*\}"\)\s*=\s*"([^"]*)"\s*,\s*"([^"]*)"`)

// ProjectRef is one project entry of a solution file.
type ProjectRef struct {
	Name string
	// Path is the project path as written in the solution, with forward
	// slashes.
	Path string
}

// ParseProjects returns the project entries of a solution file in file order.
func ParseProjects(r io.Reader) ([]ProjectRef, error) {
	var refs []ProjectRef
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := projectLineRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		refs = append(refs, ProjectRef{
			Name: m[1],
			Path: strings.ReplaceAll(m[2], `\`, "/"),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}
