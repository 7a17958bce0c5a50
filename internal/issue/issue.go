// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strconv"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SolutionNotFoundId Id = iota + 1
	LibraryExportFailedId
	UnsupportedPlatformId
	MalformedProjectId
	InvalidVersionId
	InvalidPackageIdId
	ManifestNotImplementedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // slug accepted by 'twinget issues'
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation about the issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the Markdown guidance with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	solutionNotFoundIssue = &Issue{
		id:   SolutionNotFoundId,
		name: "solution-not-found",
		mdMsg: `
# No solution references this project!

twinget needs the Visual Studio solution that contains the PLC project to
export it. None of the solutions in the project directory or its parents
references the project.

## Search order
1. The project directory, then each parent up to the filesystem root
2. Within a directory, ` + "`*.sln`" + ` files in name order
3. A solution matches when it lists the project directly, or lists a
   TwinCAT system project (` + "`.tsproj`" + `) that embeds it

## Things you can try:
- Pass the solution explicitly:
~~~
$ twinget pack Plc1/Plc1.plcproj --solution ../MySolution.sln
~~~
- Make sure the PLC project was added to the solution and the solution was saved`,
	}

	libraryExportFailedIssue = &Issue{
		id:   LibraryExportFailedId,
		name: "library-export-failed",
		mdMsg: `
# Failed to save library!

The TwinCAT XAE automation interface did not produce a library for the
project.

## Things you can try:
- Open the solution in TwinCAT XAE and check that the PLC project builds
- Close other TwinCAT XAE instances that hold the solution open
- Run with --verbose to see the full error chain
- Raise ` + "`automation.retry_attempts`" + ` if the IDE keeps rejecting calls while busy`,
		extLinks: []HttpLink{"https://infosys.beckhoff.com/english.php?content=../content/1033/tc3_automationinterface/index.html"},
	}

	unsupportedPlatformIssue = &Issue{
		id:   UnsupportedPlatformId,
		name: "unsupported-platform",
		mdMsg: `
# TwinCAT automation is not available here!

Exporting a PLC library drives TwinCAT XAE through COM, which only exists on
Windows with TwinCAT 3 installed.

## Things you can try:
- Run twinget on the Windows machine where TwinCAT XAE is installed
- Check that ` + "`automation.prog_id`" + ` names an installed shell, e.g. ` + "`TcXaeShell.DTE.15.0`",
	}

	malformedProjectIssue = &Issue{
		id:   MalformedProjectId,
		name: "malformed-project",
		mdMsg: `
# The PLC project file could not be read!

twinget reads the package metadata from the ` + "`.plcproj`" + ` file's PropertyGroup.

## Expected fields
~~~xml
<PropertyGroup>
  <Title>MyLibrary</Title>
  <Author>Me</Author>
  <ProjectVersion>1.2.3</ProjectVersion>
  <Description>What it does</Description>
</PropertyGroup>
~~~
- ` + "`Title`" + ` (or ` + "`Name`" + `) becomes the package id and is required`,
	}

	invalidVersionIssue = &Issue{
		id:   InvalidVersionId,
		name: "invalid-version",
		mdMsg: `
# Invalid package version!

` + "`ProjectVersion`" + ` must be a semantic version such as ` + "`1.2.3`" + ` or ` + "`1.2.3-beta.1`" + `.
Shorthand forms like ` + "`1.2`" + `, four-part versions and a leading ` + "`v`" + ` are rejected.

## Things you can try:
- Set the version in the project properties of the PLC project and save it`,
		extLinks: []HttpLink{"https://semver.org"},
	}

	invalidPackageIdIssue = &Issue{
		id:   InvalidPackageIdId,
		name: "invalid-package-id",
		mdMsg: `
# Invalid package id!

The package id is taken from the project ` + "`Title`" + `. It may contain letters,
digits and underscores separated by single dots or dashes, up to 100 characters.`,
	}

	manifestNotImplementedIssue = &Issue{
		id:   ManifestNotImplementedId,
		name: "manifest-not-implemented",
		mdMsg: `
# Packing from a .nuspec is not implemented!

Only ` + "`.plcproj`" + ` sources can be packed for now.

## Things you can try:
- Point twinget at the PLC project instead:
~~~
$ twinget pack Plc1/Plc1.plcproj
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the file for CUE syntax errors
- Compare it with the defaults:
~~~
$ twinget config show
~~~
- Recreate it:
~~~
$ twinget config init --force
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id:   PermissionDeniedId,
		name: "permission-denied",
		mdMsg: `
# Permission denied!

## Common causes:
- The output directory is not writable
- The package file is open in another program

## Things you can try:
- Pick another output directory with --output
- Close programs that hold the package open`,
	}

	issues = map[Id]*Issue{
		solutionNotFoundIssue.Id():       solutionNotFoundIssue,
		libraryExportFailedIssue.Id():    libraryExportFailedIssue,
		unsupportedPlatformIssue.Id():    unsupportedPlatformIssue,
		malformedProjectIssue.Id():       malformedProjectIssue,
		invalidVersionIssue.Id():         invalidVersionIssue,
		invalidPackageIdIssue.Id():       invalidPackageIdIssue,
		manifestNotImplementedIssue.Id(): manifestNotImplementedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns all issues ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by name or numeric id.
func Lookup(key string) *Issue {
	if n, err := strconv.Atoi(key); err == nil {
		return Get(Id(n))
	}
	for _, i := range issues {
		if i.name == key {
			return i
		}
	}
	return nil
}
