// SPDX-License-Identifier: MPL-2.0

// Package solution locates the Visual Studio solution (.sln) that backs a
// TwinCAT PLC project.
//
// The search starts in the project's directory and walks up to the filesystem
// root. Within one directory, solution files are tried in lexicographic order.
// The first solution that references the project wins, so for a fixed tree the
// result is always the same. Files are only ever read.
package solution
